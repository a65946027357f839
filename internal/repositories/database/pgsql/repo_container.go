package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BudgetRepo:       newPgxBudgetRepository(dbPool),
		FundingRepo:      newPgxFundingRepository(dbPool),
		AllocationRepo:   newPgxAllocationRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		ProjectRepo:      newPgxProjectRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
