package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// Shared repository mocks for the service test suites. Begin returns a nil
// pgx.Tx; the services only thread the handle through to repository calls,
// so the mocks never touch it.

// --- Mock AllocationRepository ---

type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockAllocationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockAllocationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockAllocationRepository) FindAllocationByID(ctx context.Context, allocationID string) (*domain.CostAllocation, error) {
	args := m.Called(ctx, allocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByTransaction(ctx context.Context, transactionID string) ([]domain.CostAllocation, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByCostDetail(ctx context.Context, costDetailID string) ([]domain.CostAllocation, error) {
	args := m.Called(ctx, costDetailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) FindAllocationByIDTx(ctx context.Context, tx pgx.Tx, allocationID string) (*domain.CostAllocation, error) {
	args := m.Called(ctx, tx, allocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByTransactionTx(ctx context.Context, tx pgx.Tx, transactionID string) ([]domain.CostAllocation, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) ListAllocationsByCostDetailTx(ctx context.Context, tx pgx.Tx, costDetailID string) ([]domain.CostAllocation, error) {
	args := m.Called(ctx, tx, costDetailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostAllocation), args.Error(1)
}

func (m *MockAllocationRepository) SaveAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error {
	return m.Called(ctx, tx, allocation).Error(0)
}

func (m *MockAllocationRepository) UpdateAllocation(ctx context.Context, tx pgx.Tx, allocation domain.CostAllocation) error {
	return m.Called(ctx, tx, allocation).Error(0)
}

func (m *MockAllocationRepository) SoftDeleteAllocation(ctx context.Context, tx pgx.Tx, allocationID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, allocationID, deletedBy, deletedAt).Error(0)
}

// --- Mock FundingRepository ---

type MockFundingRepository struct {
	mock.Mock
}

func (m *MockFundingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockFundingRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockFundingRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockFundingRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FundingTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingTransaction), args.Error(1)
}

func (m *MockFundingRepository) ListTransactionsByProject(ctx context.Context, projectID string) ([]domain.FundingTransaction, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FundingTransaction), args.Error(1)
}

func (m *MockFundingRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.FundingTransaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingTransaction), args.Error(1)
}

func (m *MockFundingRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error {
	return m.Called(ctx, tx, transaction).Error(0)
}

func (m *MockFundingRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error {
	return m.Called(ctx, tx, transaction).Error(0)
}

func (m *MockFundingRepository) SoftDeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, transactionID, deletedBy, deletedAt).Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockBudgetRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockBudgetRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByProject(ctx context.Context, projectID string) ([]domain.Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindCostDetailByID(ctx context.Context, costDetailID string) (*domain.CostDetail, error) {
	args := m.Called(ctx, costDetailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostDetail), args.Error(1)
}

func (m *MockBudgetRepository) ListCostDetailsByBudget(ctx context.Context, budgetID string) ([]domain.CostDetail, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostDetail), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, tx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindCostDetailByIDTx(ctx context.Context, tx pgx.Tx, costDetailID string) (*domain.CostDetail, error) {
	args := m.Called(ctx, tx, costDetailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostDetail), args.Error(1)
}

func (m *MockBudgetRepository) ListCostDetailsByBudgetTx(ctx context.Context, tx pgx.Tx, budgetID string) ([]domain.CostDetail, error) {
	args := m.Called(ctx, tx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostDetail), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	return m.Called(ctx, tx, budget).Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	return m.Called(ctx, tx, budget).Error(0)
}

func (m *MockBudgetRepository) SoftDeleteBudget(ctx context.Context, tx pgx.Tx, budgetID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, budgetID, deletedBy, deletedAt).Error(0)
}

func (m *MockBudgetRepository) SaveCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error {
	return m.Called(ctx, tx, costDetail).Error(0)
}

func (m *MockBudgetRepository) UpdateCostDetail(ctx context.Context, tx pgx.Tx, costDetail domain.CostDetail) error {
	return m.Called(ctx, tx, costDetail).Error(0)
}

func (m *MockBudgetRepository) SoftDeleteCostDetail(ctx context.Context, tx pgx.Tx, costDetailID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, costDetailID, deletedBy, deletedAt).Error(0)
}

func (m *MockBudgetRepository) UpdateCostDetailAmounts(ctx context.Context, tx pgx.Tx, costDetails []domain.CostDetail, updatedBy string, updatedAt time.Time) error {
	return m.Called(ctx, tx, costDetails, updatedBy, updatedAt).Error(0)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockPaymentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPaymentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPaymentRepository) FindOrderByID(ctx context.Context, paymentOrderID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.PaymentOrder, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentRepository) ListLinesByOrder(ctx context.Context, paymentOrderID string) ([]domain.PaymentOrderLine, error) {
	args := m.Called(ctx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrderLine), args.Error(1)
}

func (m *MockPaymentRepository) ListSignaturesByOrder(ctx context.Context, paymentOrderID string) ([]domain.Signature, error) {
	args := m.Called(ctx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signature), args.Error(1)
}

func (m *MockPaymentRepository) FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentOrderID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, tx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentRepository) FindLineByIDTx(ctx context.Context, tx pgx.Tx, lineID string) (*domain.PaymentOrderLine, error) {
	args := m.Called(ctx, tx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrderLine), args.Error(1)
}

func (m *MockPaymentRepository) ListLinesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.PaymentOrderLine, error) {
	args := m.Called(ctx, tx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentOrderLine), args.Error(1)
}

func (m *MockPaymentRepository) ListSignaturesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.Signature, error) {
	args := m.Called(ctx, tx, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Signature), args.Error(1)
}

func (m *MockPaymentRepository) FindSignatureByIDTx(ctx context.Context, tx pgx.Tx, signatureID string) (*domain.Signature, error) {
	args := m.Called(ctx, tx, signatureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Signature), args.Error(1)
}

func (m *MockPaymentRepository) SumLineAmountsForPair(ctx context.Context, tx pgx.Tx, transactionID, costDetailID string, excludeLineID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, transactionID, costDetailID, excludeLineID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumLineAmountsForTransaction(ctx context.Context, tx pgx.Tx, transactionID string, excludeLineID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, transactionID, excludeLineID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SaveOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockPaymentRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockPaymentRepository) SoftDeleteOrder(ctx context.Context, tx pgx.Tx, paymentOrderID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, paymentOrderID, deletedBy, deletedAt).Error(0)
}

func (m *MockPaymentRepository) SaveLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error {
	return m.Called(ctx, tx, line).Error(0)
}

func (m *MockPaymentRepository) UpdateLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error {
	return m.Called(ctx, tx, line).Error(0)
}

func (m *MockPaymentRepository) SoftDeleteLine(ctx context.Context, tx pgx.Tx, lineID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, lineID, deletedBy, deletedAt).Error(0)
}

func (m *MockPaymentRepository) UpdateOrderTotal(ctx context.Context, tx pgx.Tx, paymentOrderID string, total decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	return m.Called(ctx, tx, paymentOrderID, total, updatedBy, updatedAt).Error(0)
}

func (m *MockPaymentRepository) SaveSignature(ctx context.Context, tx pgx.Tx, signature domain.Signature) error {
	return m.Called(ctx, tx, signature).Error(0)
}

func (m *MockPaymentRepository) SoftDeleteSignature(ctx context.Context, tx pgx.Tx, signatureID string, deletedBy string, deletedAt time.Time) error {
	return m.Called(ctx, tx, signatureID, deletedBy, deletedAt).Error(0)
}

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindRatesByIDs(ctx context.Context, rateIDs []string) (map[string]domain.ExchangeRate, error) {
	args := m.Called(ctx, rateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindRate(ctx context.Context, baseCurrencyCode, quoteCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, baseCurrencyCode, quoteCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListRates(ctx context.Context, limit, offset int) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	return m.Called(ctx, currency).Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	return m.Called(ctx, organization).Error(0)
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
