package pgsql

import (
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	communityRepo := newPgxCommunityRepository(dbPool)
	unitRepo := newPgxUnitRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	emissionRepo := newPgxEmissionRepository(dbPool)
	unitAccountRepo := newPgxUnitAccountRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CommunityRepo:   communityRepo,
		UnitRepo:        unitRepo,
		ExpenseRepo:     expenseRepo,
		EmissionRepo:    emissionRepo,
		UnitAccountRepo: unitAccountRepo,
		PaymentRepo:     paymentRepo,
		ReportingRepo:   reportingRepo,
	}
}
