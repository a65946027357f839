package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

// budgetService is the validated write path for the budget aggregate: the
// budget header, its rate references and its cost lines. Derived amounts
// are recomputed on every relevant write inside the same transaction that
// persists it.
type budgetService struct {
	budgetRepo     portsrepo.BudgetRepositoryWithTx
	rateRepo       portsrepo.ExchangeRateRepositoryFacade
	currencyRepo   portsrepo.CurrencyRepositoryFacade
	projectRepo    portsrepo.ProjectRepositoryFacade
	allocationRepo portsrepo.AllocationRepositoryWithTx
	engine         *ConversionEngine
}

// NewBudgetService creates a new budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryWithTx,
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	allocationRepo portsrepo.AllocationRepositoryWithTx,
	engine *ConversionEngine,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:     budgetRepo,
		rateRepo:       rateRepo,
		currencyRepo:   currencyRepo,
		projectRepo:    projectRepo,
		allocationRepo: allocationRepo,
		engine:         engine,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget creates a budget header with no rate references assigned.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s not found", apperrors.ErrValidation, req.ProjectID)
		}
		return nil, fmt.Errorf("failed to validate project %s: %w", req.ProjectID, err)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.LocalCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, req.LocalCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency %s: %w", req.LocalCurrencyCode, err)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:          uuid.NewString(),
		ProjectID:         req.ProjectID,
		Name:              req.Name,
		LocalCurrencyCode: req.LocalCurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	if err := s.budgetRepo.SaveBudget(ctx, tx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID))
	return &budget, nil
}

// GetBudgetByID retrieves an active budget.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return s.budgetRepo.FindBudgetByID(ctx, budgetID)
}

// ListBudgetsByProject retrieves the active budgets of a project.
func (s *budgetService) ListBudgetsByProject(ctx context.Context, projectID string) ([]domain.Budget, error) {
	return s.budgetRepo.ListBudgetsByProject(ctx, projectID)
}

// UpdateBudgetRates replaces the budget's rate reference set. Every
// referenced rate must cover the (local currency -> reporting currency)
// pair it is assigned to. All active cost lines under the budget are
// recomputed and persisted in the same transaction; a failure leaves every
// line untouched.
func (s *budgetService) UpdateBudgetRates(ctx context.Context, budgetID string, req dto.UpdateBudgetRatesRequest, userID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		return nil, err
	}

	budget.LocalToGBPRateID = req.LocalToGBPRateID
	budget.LocalToSEKRateID = req.LocalToSEKRateID
	budget.LocalToEURRateID = req.LocalToEURRateID

	rates, err := s.resolveRates(ctx, *budget)
	if err != nil {
		return nil, err
	}
	for _, target := range domain.ReportingCurrencies {
		if budget.RateRefFor(target) == nil {
			continue
		}
		rate, ok := rates[target]
		if !ok {
			return nil, fmt.Errorf("%w: exchange rate %s", apperrors.ErrNotFound, *budget.RateRefFor(target))
		}
		if err := ValidateRateRef(*budget, target, rate); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	budget.LastUpdatedAt = now
	budget.LastUpdatedBy = userID

	if err := s.budgetRepo.UpdateBudget(ctx, tx, *budget); err != nil {
		logger.Error("Failed to update budget rates", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	// Rewriting the rate set invalidates every derived amount under the
	// budget. The whole batch goes out in this transaction or not at all.
	details, err := s.budgetRepo.ListCostDetailsByBudgetTx(ctx, tx, budgetID)
	if err != nil {
		return nil, err
	}
	recomputed := make([]domain.CostDetail, len(details))
	for i, cd := range details {
		recomputed[i], err = s.engine.Recompute(cd, *budget, rates)
		if err != nil {
			return nil, err
		}
	}
	if len(recomputed) > 0 {
		if err := s.budgetRepo.UpdateCostDetailAmounts(ctx, tx, recomputed, userID, now); err != nil {
			logger.Error("Failed to recompute cost details", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
			return nil, fmt.Errorf("failed to recompute cost details: %w", err)
		}
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Budget rates updated", slog.String("budget_id", budgetID), slog.Int("cost_details_recomputed", len(recomputed)))
	return budget, nil
}

// DeleteBudget tombstones a budget and cascades to its cost lines so no
// active line can point at a deleted budget. It is rejected while any of
// those lines still has active allocations.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	if _, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID); err != nil {
		return err
	}
	details, err := s.budgetRepo.ListCostDetailsByBudgetTx(ctx, tx, budgetID)
	if err != nil {
		return err
	}
	for _, cd := range details {
		allocations, err := s.allocationRepo.ListAllocationsByCostDetailTx(ctx, tx, cd.CostDetailID)
		if err != nil {
			return err
		}
		if len(allocations) > 0 {
			return fmt.Errorf("%w: cost detail %s under budget %s still has active allocations",
				apperrors.ErrValidation, cd.CostDetailID, budgetID)
		}
	}
	if err := s.budgetRepo.SoftDeleteBudget(ctx, tx, budgetID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

// CreateCostDetail creates a cost line with freshly derived amounts.
func (s *budgetService) CreateCostDetail(ctx context.Context, req dto.CreateCostDetailRequest, creatorUserID string) (*domain.CostDetail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, req.BudgetID)
	if err != nil {
		return nil, err
	}
	rates, err := s.resolveRates(ctx, *budget)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cd := domain.CostDetail{
		CostDetailID:       uuid.NewString(),
		BudgetID:           budget.BudgetID,
		Description:        req.Description,
		Units:              req.Units,
		UnitPrice:          req.UnitPrice,
		PercentageCharging: req.PercentageCharging,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	cd, err = s.engine.Recompute(cd, *budget, rates)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveCostDetail(ctx, tx, cd); err != nil {
		logger.Error("Failed to save cost detail", slog.String("error", err.Error()), slog.String("budget_id", budget.BudgetID))
		return nil, fmt.Errorf("failed to save cost detail: %w", err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Cost detail created", slog.String("cost_detail_id", cd.CostDetailID), slog.String("budget_id", budget.BudgetID))
	return &cd, nil
}

// GetCostDetailByID retrieves an active cost line.
func (s *budgetService) GetCostDetailByID(ctx context.Context, costDetailID string) (*domain.CostDetail, error) {
	return s.budgetRepo.FindCostDetailByID(ctx, costDetailID)
}

// ListCostDetailsByBudget retrieves the active cost lines of a budget.
func (s *budgetService) ListCostDetailsByBudget(ctx context.Context, budgetID string) ([]domain.CostDetail, error) {
	return s.budgetRepo.ListCostDetailsByBudget(ctx, budgetID)
}

// UpdateCostDetail applies a partial edit to a cost line's quantity fields
// and rederives all amounts. The derived fields in the request, if any,
// are ignored by construction: they do not exist on the DTO.
func (s *budgetService) UpdateCostDetail(ctx context.Context, costDetailID string, req dto.UpdateCostDetailRequest, userID string) (*domain.CostDetail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	cd, err := s.budgetRepo.FindCostDetailByIDTx(ctx, tx, costDetailID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, cd.BudgetID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		cd.Description = *req.Description
	}
	if req.Units != nil {
		cd.Units = *req.Units
	}
	if req.UnitPrice != nil {
		cd.UnitPrice = *req.UnitPrice
	}
	if req.PercentageCharging != nil {
		cd.PercentageCharging = *req.PercentageCharging
	}

	rates, err := s.resolveRates(ctx, *budget)
	if err != nil {
		return nil, err
	}
	updated, err := s.engine.Recompute(*cd, *budget, rates)
	if err != nil {
		return nil, err
	}

	// Shrinking the local amount must not strand existing allocations above
	// their ceiling, mirroring the approved-amount check on transactions.
	if updated.AmountLocal.LessThan(cd.AmountLocal) {
		allocations, err := s.allocationRepo.ListAllocationsByCostDetailTx(ctx, tx, costDetailID)
		if err != nil {
			return nil, err
		}
		allocated := sumPlannedExcluding(allocations, "")
		if allocated.GreaterThan(updated.AmountLocal) {
			return nil, fmt.Errorf("%w: cost detail %s already has %s allocated, cannot lower local amount to %s",
				apperrors.ErrCapExceeded, costDetailID, allocated, updated.AmountLocal)
		}
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.budgetRepo.UpdateCostDetail(ctx, tx, updated); err != nil {
		logger.Error("Failed to update cost detail", slog.String("error", err.Error()), slog.String("cost_detail_id", costDetailID))
		return nil, fmt.Errorf("failed to update cost detail: %w", err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Cost detail updated", slog.String("cost_detail_id", costDetailID))
	return &updated, nil
}

// DeleteCostDetail tombstones a cost line. A line with active allocations
// cannot be deleted; the allocations must be removed first.
func (s *budgetService) DeleteCostDetail(ctx context.Context, costDetailID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	cd, err := s.budgetRepo.FindCostDetailByIDTx(ctx, tx, costDetailID)
	if err != nil {
		return err
	}
	if _, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, cd.BudgetID); err != nil {
		return err
	}

	allocations, err := s.allocationRepo.ListAllocationsByCostDetailTx(ctx, tx, costDetailID)
	if err != nil {
		return err
	}
	if len(allocations) > 0 {
		return fmt.Errorf("%w: cost detail %s still has %d active allocations",
			apperrors.ErrValidation, costDetailID, len(allocations))
	}

	if err := s.budgetRepo.SoftDeleteCostDetail(ctx, tx, costDetailID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete cost detail", slog.String("error", err.Error()), slog.String("cost_detail_id", costDetailID))
		return fmt.Errorf("failed to delete cost detail: %w", err)
	}
	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Cost detail deleted", slog.String("cost_detail_id", costDetailID))
	return nil
}

// resolveRates loads the exchange rates the budget's references point at,
// keyed by reporting currency. Unassigned targets are simply absent.
func (s *budgetService) resolveRates(ctx context.Context, budget domain.Budget) (map[string]domain.ExchangeRate, error) {
	ids := make([]string, 0, len(domain.ReportingCurrencies))
	for _, target := range domain.ReportingCurrencies {
		if ref := budget.RateRefFor(target); ref != nil {
			ids = append(ids, *ref)
		}
	}
	if len(ids) == 0 {
		return map[string]domain.ExchangeRate{}, nil
	}

	byID, err := s.rateRepo.FindRatesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve budget rates: %w", err)
	}

	rates := make(map[string]domain.ExchangeRate, len(byID))
	for _, target := range domain.ReportingCurrencies {
		if ref := budget.RateRefFor(target); ref != nil {
			if rate, ok := byID[*ref]; ok {
				rates[target] = rate
			}
		}
	}
	return rates, nil
}
