package services

import (
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/platform/config"
)

// NewServiceContainer wires every service with its repositories and returns the
// container handed to the router layer.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	treasurySvc := NewTreasuryService(repos.TreasuryRepo, repos.JournalRepo, accountSvc, repos.CurrencyRepo, cfg)
	partySvc := NewPartyService(repos.PartyRepo)
	voucherSvc := NewVoucherService(repos.VoucherRepo, repos.TreasuryRepo, repos.PartyRepo, repos.JournalRepo, accountSvc, cfg)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, repos.CurrencyRepo, cfg)
	reconciliationSvc := NewReconciliationService(repos.AccountRepo, repos.TreasuryRepo, repos.PartyRepo)
	currencySvc := NewCurrencyService(repos.CurrencyRepo)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Treasury:       treasurySvc,
		Party:          partySvc,
		Voucher:        voucherSvc,
		Journal:        journalSvc,
		Reconciliation: reconciliationSvc,
		Currency:       currencySvc,
	}
}
