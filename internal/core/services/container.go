package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/dejan-marlovic/relief-finance/internal/core/ports/repositories"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
)

// NewContainer wires every service with its repositories and shared
// validators. maxPercentageCharging bounds the overhead percentage a cost
// line may carry.
func NewContainer(repos portsrepo.RepositoryProvider, maxPercentageCharging decimal.Decimal) *portssvc.ServiceContainer {
	engine := NewConversionEngine(maxPercentageCharging)

	return &portssvc.ServiceContainer{
		Budget:       NewBudgetService(repos.BudgetRepo, repos.ExchangeRateRepo, repos.CurrencyRepo, repos.ProjectRepo, repos.AllocationRepo, engine),
		Funding:      NewFundingService(repos.FundingRepo, repos.BudgetRepo, repos.ProjectRepo, repos.AllocationRepo),
		Allocation:   NewAllocationService(repos.AllocationRepo, repos.FundingRepo, repos.BudgetRepo, repos.PaymentRepo),
		Payment:      NewPaymentService(repos.PaymentRepo, repos.FundingRepo, repos.AllocationRepo, repos.OrganizationRepo, repos.BudgetRepo),
		Currency:     NewCurrencyService(repos.CurrencyRepo),
		ExchangeRate: NewExchangeRateService(repos.ExchangeRateRepo, repos.CurrencyRepo),
		Organization: NewOrganizationService(repos.OrganizationRepo),
		Project:      NewProjectService(repos.ProjectRepo),
		User:         NewUserService(repos.UserRepo),
	}
}
