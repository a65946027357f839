package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency adds a currency to the master data set.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.ToUpper(req.CurrencyCode)
	if existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	logger.Info("Currency created", "currency_code", code)
	return &currency, nil
}

// GetCurrencyByCode retrieves a currency by its ISO code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
}

// ListCurrencies retrieves all active currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
