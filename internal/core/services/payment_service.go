package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService receives payments and allocates them across unit accounts.
// Allocation plans are computed here and executed atomically by the
// repository, which re-verifies every planned amount under row locks.
type PaymentService struct {
	paymentRepo     portsrepo.PaymentRepositoryFacade
	unitAccountRepo portsrepo.UnitAccountRepositoryFacade
	unitRepo        portsrepo.UnitRepositoryFacade
	emissionRepo    portsrepo.EmissionRepositoryFacade
	expenseRepo     portsrepo.ExpenseRepositoryFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(pr portsrepo.PaymentRepositoryFacade, uar portsrepo.UnitAccountRepositoryFacade, ur portsrepo.UnitRepositoryFacade, emr portsrepo.EmissionRepositoryFacade, exr portsrepo.ExpenseRepositoryFacade) portssvc.PaymentSvcFacade {
	return &PaymentService{
		paymentRepo:     pr,
		unitAccountRepo: uar,
		unitRepo:        ur,
		emissionRepo:    emr,
		expenseRepo:     exr,
	}
}

var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// CreatePayment persists a new payment in PENDING state. Unit-level payments
// must reference a unit of the same community; community-level bulk receipts
// omit the unit and can only be applied with explicit targets.
func (s *PaymentService) CreatePayment(ctx context.Context, communityID string, req dto.CreatePaymentRequest, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if req.UnitID != nil {
		unit, err := s.unitRepo.FindUnitByID(ctx, *req.UnitID)
		if err != nil {
			return nil, err
		}
		if unit.CommunityID != communityID {
			return nil, fmt.Errorf("%w: unit %s does not belong to community %s", apperrors.ErrValidation, *req.UnitID, communityID)
		}
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:    uuid.NewString(),
		CommunityID:  communityID,
		UnitID:       req.UnitID,
		Amount:       req.Amount,
		ReceivedDate: req.ReceivedDate,
		Method:       req.Method,
		Reference:    req.Reference,
		State:        domain.PaymentPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("community_id", communityID))
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	logger.Info("Payment registered", slog.String("payment_id", payment.PaymentID), slog.String("community_id", communityID))
	return &payment, nil
}

func (s *PaymentService) findScoped(ctx context.Context, communityID, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CommunityID != communityID {
		return nil, fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
	}
	return payment, nil
}

// GetPaymentByID retrieves a payment with its allocation rows.
func (s *PaymentService) GetPaymentByID(ctx context.Context, communityID string, paymentID string) (*dto.PaymentResponse, error) {
	payment, err := s.findScoped(ctx, communityID, paymentID)
	if err != nil {
		return nil, err
	}
	applications, err := s.paymentRepo.FindApplicationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment applications: %w", err)
	}
	resp := dto.ToPaymentResponse(payment, applications)
	return &resp, nil
}

// ListPayments retrieves a paginated list of community payments.
func (s *PaymentService) ListPayments(ctx context.Context, communityID string, limit int, offset int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.paymentRepo.ListPaymentsByCommunity(ctx, communityID, limit, offset)
}

// ApplyPayment allocates a PENDING payment across unit accounts and marks it
// APPLIED. Without explicit targets the unit's outstanding accounts are
// walked in waterfall order; any amount beyond the total outstanding debt
// stays unapplied. With explicit targets the whole plan is validated before
// anything is written.
func (s *PaymentService) ApplyPayment(ctx context.Context, communityID string, paymentID string, req dto.ApplyPaymentRequest, actorID string) (*dto.PaymentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.findScoped(ctx, communityID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.State != domain.PaymentPending {
		return nil, fmt.Errorf("%w: payment %s is %s, only PENDING payments can be applied", apperrors.ErrInvalidState, paymentID, payment.State)
	}

	var plan []domain.AllocationPlan
	if len(req.Targets) == 0 {
		plan, err = s.planWaterfall(ctx, payment)
	} else {
		plan, err = s.planExplicit(ctx, payment, req.Targets)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	applications, updatedAccounts, err := s.paymentRepo.ApplyAllocations(ctx, *payment, plan, actorID, now)
	if err != nil {
		logger.Error("Failed to apply payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}
	payment.State = domain.PaymentApplied
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actorID

	if err := s.markSettledExpenses(ctx, updatedAccounts, actorID, now); err != nil {
		// The allocation itself committed; the derived expense flip will be
		// retried by the next payment touching the emission.
		logger.Error("Failed to mark emission expenses paid", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
	}

	logger.Info("Payment applied",
		slog.String("payment_id", paymentID),
		slog.Int("allocations", len(applications)))
	resp := dto.ToPaymentResponse(payment, applications)
	return &resp, nil
}

// planWaterfall builds the allocation plan for a unit-level payment: overdue
// accounts first, then oldest due date, then account ID for a deterministic
// total order.
func (s *PaymentService) planWaterfall(ctx context.Context, payment *domain.Payment) ([]domain.AllocationPlan, error) {
	if payment.UnitID == nil {
		return nil, fmt.Errorf("%w: a community-level payment requires explicit allocation targets", apperrors.ErrValidation)
	}

	outstanding, err := s.unitAccountRepo.ListOutstandingByUnit(ctx, *payment.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding accounts: %w", err)
	}
	if len(outstanding) == 0 {
		return nil, fmt.Errorf("%w: unit %s has no outstanding accounts", apperrors.ErrValidation, *payment.UnitID)
	}

	sort.Slice(outstanding, func(i, j int) bool {
		a, b := outstanding[i], outstanding[j]
		aOverdue := a.State == domain.AccountOverdue
		bOverdue := b.State == domain.AccountOverdue
		if aOverdue != bOverdue {
			return aOverdue
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.UnitAccountID < b.UnitAccountID
	})

	remaining := payment.Amount
	plan := make([]domain.AllocationPlan, 0, len(outstanding))
	for _, account := range outstanding {
		if !remaining.IsPositive() {
			break
		}
		amount := decimal.Min(remaining, account.Balance)
		if !amount.IsPositive() {
			continue
		}
		plan = append(plan, domain.AllocationPlan{
			UnitAccountID: account.UnitAccountID,
			Amount:        amount,
			Priority:      len(plan) + 1,
		})
		remaining = remaining.Sub(amount)
	}
	return plan, nil
}

// planExplicit validates caller-chosen targets: positive amounts, accounts of
// the same community, no amount above the account balance and a total within
// the payment amount.
func (s *PaymentService) planExplicit(ctx context.Context, payment *domain.Payment, targets []dto.PaymentTargetRequest) ([]domain.AllocationPlan, error) {
	total := decimal.Zero
	seen := make(map[string]bool, len(targets))
	plan := make([]domain.AllocationPlan, 0, len(targets))

	for i, target := range targets {
		if seen[target.UnitAccountID] {
			return nil, fmt.Errorf("%w: account %s is targeted twice", apperrors.ErrValidation, target.UnitAccountID)
		}
		seen[target.UnitAccountID] = true
		if !target.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation amounts must be positive", apperrors.ErrValidation)
		}

		account, err := s.unitAccountRepo.FindUnitAccountByID(ctx, target.UnitAccountID)
		if err != nil {
			return nil, err
		}
		unit, err := s.unitRepo.FindUnitByID(ctx, account.UnitID)
		if err != nil {
			return nil, fmt.Errorf("failed to load unit for account %s: %w", target.UnitAccountID, err)
		}
		if unit.CommunityID != payment.CommunityID {
			return nil, fmt.Errorf("account %s: %w", target.UnitAccountID, apperrors.ErrNotFound)
		}
		if !account.Outstanding() {
			return nil, fmt.Errorf("%w: account %s carries no debt", apperrors.ErrInvalidState, target.UnitAccountID)
		}
		if target.Amount.GreaterThan(account.Balance) {
			return nil, fmt.Errorf("%w: %s exceeds balance %s of account %s", apperrors.ErrOverApplication, target.Amount.String(), account.Balance.String(), target.UnitAccountID)
		}

		total = total.Add(target.Amount)
		plan = append(plan, domain.AllocationPlan{
			UnitAccountID: target.UnitAccountID,
			Amount:        target.Amount,
			Priority:      i + 1,
		})
	}
	if total.GreaterThan(payment.Amount) {
		return nil, fmt.Errorf("%w: allocations total %s exceeds payment amount %s", apperrors.ErrOverApplication, total.String(), payment.Amount.String())
	}
	return plan, nil
}

// markSettledExpenses flips the source expenses of fully paid emissions to
// PAID. The repository skips expenses no longer in INCLUDED_IN_EMISSION, so
// repeated calls are harmless.
func (s *PaymentService) markSettledExpenses(ctx context.Context, updatedAccounts []domain.UnitAccount, actorID string, now time.Time) error {
	emissionIDs := make(map[string]bool)
	for _, account := range updatedAccounts {
		if account.State == domain.AccountPaid {
			emissionIDs[account.EmissionID] = true
		}
	}

	for emissionID := range emissionIDs {
		accounts, err := s.unitAccountRepo.ListAccountsByEmission(ctx, emissionID)
		if err != nil {
			return fmt.Errorf("failed to list accounts of emission %s: %w", emissionID, err)
		}
		settled := true
		for _, account := range accounts {
			if account.Outstanding() {
				settled = false
				break
			}
		}
		if !settled {
			continue
		}

		emission, err := s.emissionRepo.FindEmissionByID(ctx, emissionID)
		if err != nil {
			return fmt.Errorf("failed to load emission %s: %w", emissionID, err)
		}
		expenseIDs := make([]string, 0, len(emission.Lines))
		entries := make([]domain.ExpenseHistoryEntry, 0, len(emission.Lines))
		for _, line := range emission.Lines {
			expenseIDs = append(expenseIDs, line.ExpenseID)
			entries = append(entries, domain.ExpenseHistoryEntry{
				EntryID:   uuid.NewString(),
				ExpenseID: line.ExpenseID,
				Action:    domain.ActionMarkPaid,
				ActorID:   actorID,
				Note:      fmt.Sprintf("emission %s fully paid", emissionID),
				Timestamp: now,
			})
		}
		if err := s.expenseRepo.MarkExpensesPaid(ctx, expenseIDs, entries); err != nil {
			return fmt.Errorf("failed to mark expenses paid for emission %s: %w", emissionID, err)
		}
	}
	return nil
}

// ReverseApplication undoes all active allocations of an APPLIED payment and
// sets it back to PENDING. Any touched account modified after the allocation
// aborts the reversal with ErrConcurrencyConflict.
func (s *PaymentService) ReverseApplication(ctx context.Context, communityID string, paymentID string, actorID string) (*dto.PaymentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.findScoped(ctx, communityID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.State != domain.PaymentApplied {
		return nil, fmt.Errorf("%w: payment %s is %s, only APPLIED payments can be reversed", apperrors.ErrInvalidState, paymentID, payment.State)
	}

	now := time.Now()
	if err := s.paymentRepo.ReverseApplications(ctx, paymentID, actorID, now); err != nil {
		logger.Error("Failed to reverse payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}
	payment.State = domain.PaymentPending
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actorID

	applications, err := s.paymentRepo.FindApplicationsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment applications: %w", err)
	}

	logger.Info("Payment reversed", slog.String("payment_id", paymentID))
	resp := dto.ToPaymentResponse(payment, applications)
	return &resp, nil
}
