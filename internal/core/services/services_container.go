package services

import (
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Community = NewCommunityService(repos.CommunityRepo)
	container.Unit = NewUnitService(repos.UnitRepo, repos.CommunityRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.CommunityRepo)
	container.Emission = NewEmissionService(repos.EmissionRepo, repos.ExpenseRepo, repos.UnitRepo, repos.CommunityRepo)
	container.UnitAccount = NewUnitAccountService(repos.UnitAccountRepo, repos.CommunityRepo, repos.UnitRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.UnitAccountRepo, repos.UnitRepo, repos.EmissionRepo, repos.ExpenseRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.UnitRepo, repos.CommunityRepo)

	return container
}
