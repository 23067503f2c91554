package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	TreasuryRepo TreasuryRepositoryFacade
	PartyRepo    PartyRepositoryFacade
	VoucherRepo  VoucherRepositoryFacade
	JournalRepo  JournalRepositoryFacade
	CurrencyRepo CurrencyRepository
}
