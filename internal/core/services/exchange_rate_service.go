package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
	"github.com/dejan-marlovic/relief-finance/internal/middleware"
)

type exchangeRateService struct {
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo, currencyRepo: currencyRepo}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateRate records an exchange rate. Rates are append-only master data;
// budgets pin a specific rate row by ID, so existing rows never change.
func (s *exchangeRateService) CreateRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base := strings.ToUpper(req.BaseCurrencyCode)
	quote := strings.ToUpper(req.QuoteCurrencyCode)
	if base == quote {
		return nil, fmt.Errorf("%w: base and quote currency must differ", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrValidation, req.Rate)
	}
	for _, code := range []string{base, quote} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency %s: %w", code, err)
		}
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:    uuid.NewString(),
		BaseCurrencyCode:  base,
		QuoteCurrencyCode: quote,
		Rate:              req.Rate,
		DateEffective:     req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	logger.Info("Exchange rate created", "exchange_rate_id", rate.ExchangeRateID, "pair", base+"/"+quote)
	return &rate, nil
}

// GetRateByID retrieves an exchange rate by ID.
func (s *exchangeRateService) GetRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindRateByID(ctx, rateID)
}

// GetRate retrieves the most recent active rate for a currency pair.
func (s *exchangeRateService) GetRate(ctx context.Context, baseCurrencyCode, quoteCurrencyCode string) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindRate(ctx, strings.ToUpper(baseCurrencyCode), strings.ToUpper(quoteCurrencyCode))
}

// ListRates retrieves a page of active exchange rates.
func (s *exchangeRateService) ListRates(ctx context.Context, limit, offset int) ([]domain.ExchangeRate, error) {
	return s.rateRepo.ListRates(ctx, limit, offset)
}
