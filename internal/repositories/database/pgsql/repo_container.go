package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds all concrete repositories on a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, entryPrefix string) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	treasuryRepo := newPgxTreasuryRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, entryPrefix)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		TreasuryRepo: treasuryRepo,
		PartyRepo:    partyRepo,
		VoucherRepo:  voucherRepo,
		JournalRepo:  journalRepo,
		CurrencyRepo: currencyRepo,
	}
}
