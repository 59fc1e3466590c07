package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CommunityRepo   CommunityRepositoryFacade
	UnitRepo        UnitRepositoryFacade
	ExpenseRepo     ExpenseRepositoryFacade
	EmissionRepo    EmissionRepositoryFacade
	UnitAccountRepo UnitAccountRepositoryFacade
	PaymentRepo     PaymentRepositoryFacade
	ReportingRepo   ReportingRepositoryFacade
}
