package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/google/uuid"
)

// ExpenseService handles the expense lifecycle and categories. Every state
// transition is guarded by the legal transition table and recorded in the
// append-only audit trail.
type ExpenseService struct {
	expenseRepo   portsrepo.ExpenseRepositoryFacade
	communityRepo portsrepo.CommunityRepositoryFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(er portsrepo.ExpenseRepositoryFacade, cr portsrepo.CommunityRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &ExpenseService{expenseRepo: er, communityRepo: cr}
}

var _ portssvc.ExpenseSvcFacade = (*ExpenseService)(nil)

// findScoped loads an expense and hides it behind ErrNotFound when it belongs
// to a different community.
func (s *ExpenseService) findScoped(ctx context.Context, communityID, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CommunityID != communityID {
		return nil, fmt.Errorf("expense %s: %w", expenseID, apperrors.ErrNotFound)
	}
	return expense, nil
}

// CreateExpense persists a new expense in DRAFT state with its creation
// audit entry.
func (s *ExpenseService) CreateExpense(ctx context.Context, communityID string, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}
	category, err := s.expenseRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, req.CategoryID)
	}
	if category.CommunityID != nil && *category.CommunityID != communityID {
		return nil, fmt.Errorf("%w: category %s belongs to another community", apperrors.ErrValidation, req.CategoryID)
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		CommunityID:  communityID,
		CategoryID:   req.CategoryID,
		Amount:       req.Amount,
		IncurredDate: req.IncurredDate,
		Description:  req.Description,
		State:        domain.ExpenseDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	entry := domain.ExpenseHistoryEntry{
		EntryID:   uuid.NewString(),
		ExpenseID: expense.ExpenseID,
		Action:    domain.ActionCreated,
		ActorID:   actorID,
		Timestamp: now,
	}

	if err := s.expenseRepo.SaveExpenseWithHistory(ctx, expense, entry); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("community_id", communityID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("community_id", communityID))
	return &expense, nil
}

// transition moves an expense to the target state after checking the legal
// transition table, and records the audit entry atomically with the update.
func (s *ExpenseService) transition(ctx context.Context, communityID, expenseID string, to domain.ExpenseState, action domain.ExpenseAction, note, actorID string, mutate func(e *domain.Expense, from domain.ExpenseState)) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.findScoped(ctx, communityID, expenseID)
	if err != nil {
		return nil, err
	}
	from := expense.State
	if !domain.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: expense cannot move from %s to %s", apperrors.ErrInvalidState, from, to)
	}

	now := time.Now()
	expense.State = to
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID
	if mutate != nil {
		mutate(expense, from)
	}
	entry := domain.ExpenseHistoryEntry{
		EntryID:   uuid.NewString(),
		ExpenseID: expenseID,
		Action:    action,
		ActorID:   actorID,
		Note:      note,
		Timestamp: now,
	}

	if err := s.expenseRepo.TransitionStateWithHistory(ctx, *expense, from, entry); err != nil {
		logger.Error("Failed to transition expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID), slog.String("to", string(to)))
		return nil, err
	}

	logger.Info("Expense transitioned", slog.String("expense_id", expenseID), slog.String("from", string(from)), slog.String("to", string(to)))
	return expense, nil
}

// SubmitExpense moves a DRAFT expense to PENDING_APPROVAL.
func (s *ExpenseService) SubmitExpense(ctx context.Context, communityID string, expenseID string, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, communityID, expenseID, domain.ExpensePendingApproval, domain.ActionSubmit, "", actorID, nil)
}

// ApproveExpense moves a PENDING_APPROVAL expense to APPROVED and records the
// approver.
func (s *ExpenseService) ApproveExpense(ctx context.Context, communityID string, expenseID string, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, communityID, expenseID, domain.ExpenseApproved, domain.ActionApprove, "", actorID, func(e *domain.Expense, _ domain.ExpenseState) {
		e.ApprovedBy = &actorID
	})
}

// RejectExpense moves a PENDING_APPROVAL expense to REJECTED with a mandatory
// reason.
func (s *ExpenseService) RejectExpense(ctx context.Context, communityID string, expenseID string, req dto.RejectExpenseRequest, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, communityID, expenseID, domain.ExpenseRejected, domain.ActionReject, req.Reason, actorID, nil)
}

// VoidExpense voids an expense from any non-terminal state. When the expense
// was already folded into an issued emission it is only flagged; the
// materialized unit accounts keep their balances.
func (s *ExpenseService) VoidExpense(ctx context.Context, communityID string, expenseID string, req dto.VoidExpenseRequest, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, communityID, expenseID, domain.ExpenseVoided, domain.ActionVoid, req.Reason, actorID, func(e *domain.Expense, from domain.ExpenseState) {
		if from == domain.ExpenseIncluded {
			e.VoidedAfterEmission = true
		}
	})
}

// GetExpenseByID retrieves an expense scoped to the community.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, communityID string, expenseID string) (*domain.Expense, error) {
	return s.findScoped(ctx, communityID, expenseID)
}

// ListExpenses retrieves a paginated list of community expenses.
func (s *ExpenseService) ListExpenses(ctx context.Context, communityID string, params dto.ListExpensesParams) ([]domain.Expense, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	return s.expenseRepo.ListExpensesByCommunity(ctx, communityID, params.State, limit, params.Offset)
}

// ListExpenseHistory retrieves an expense's audit trail, oldest first.
func (s *ExpenseService) ListExpenseHistory(ctx context.Context, communityID string, expenseID string) ([]domain.ExpenseHistoryEntry, error) {
	if _, err := s.findScoped(ctx, communityID, expenseID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListHistoryByExpenseID(ctx, expenseID)
}

// CreateCategory persists a new category, community-scoped unless the request
// marks it global.
func (s *ExpenseService) CreateCategory(ctx context.Context, communityID string, req dto.CreateCategoryRequest, actorID string) (*domain.ExpenseCategory, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	now := time.Now()
	category := domain.ExpenseCategory{
		CategoryID: uuid.NewString(),
		Name:       req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if !req.Global {
		category.CommunityID = &communityID
	}

	if err := s.expenseRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// ListCategories retrieves the global categories plus those scoped to the
// community.
func (s *ExpenseService) ListCategories(ctx context.Context, communityID string) ([]domain.ExpenseCategory, error) {
	return s.expenseRepo.ListCategories(ctx, communityID)
}
