package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/dejan-marlovic/relief-finance/internal/apperrors"
	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	portssvc "github.com/dejan-marlovic/relief-finance/internal/core/ports/services"
	"github.com/dejan-marlovic/relief-finance/internal/core/services"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

type AllocationServiceTestSuite struct {
	suite.Suite
	mockAllocRepo   *MockAllocationRepository
	mockFundingRepo *MockFundingRepository
	mockBudgetRepo  *MockBudgetRepository
	mockPaymentRepo *MockPaymentRepository
	service         portssvc.AllocationSvcFacade
}

func (s *AllocationServiceTestSuite) SetupTest() {
	s.mockAllocRepo = new(MockAllocationRepository)
	s.mockFundingRepo = new(MockFundingRepository)
	s.mockBudgetRepo = new(MockBudgetRepository)
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.service = services.NewAllocationService(s.mockAllocRepo, s.mockFundingRepo, s.mockBudgetRepo, s.mockPaymentRepo)
}

// expectTx wires Begin and Rollback; commit is only expected on success.
func (s *AllocationServiceTestSuite) expectTx(committed bool) {
	s.mockAllocRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockAllocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	if committed {
		s.mockAllocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	}
}

func (s *AllocationServiceTestSuite) expectCheckLoads(txn *domain.FundingTransaction, cd *domain.CostDetail, forTxn, forCostLine []domain.CostAllocation, paid decimal.Decimal) {
	s.mockFundingRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	s.mockBudgetRepo.On("FindCostDetailByIDTx", mock.Anything, mock.Anything, cd.CostDetailID).Return(cd, nil).Once()
	s.mockAllocRepo.On("ListAllocationsByTransactionTx", mock.Anything, mock.Anything, txn.TransactionID).Return(forTxn, nil).Once()
	s.mockAllocRepo.On("ListAllocationsByCostDetailTx", mock.Anything, mock.Anything, cd.CostDetailID).Return(forCostLine, nil).Once()
	s.mockPaymentRepo.On("SumLineAmountsForPair", mock.Anything, mock.Anything, txn.TransactionID, cd.CostDetailID, "").Return(paid, nil).Once()
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_Success() {
	ctx := context.Background()
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}

	s.expectTx(true)
	s.expectCheckLoads(txn, cd, nil, nil, decimal.Zero)
	s.mockAllocRepo.On("SaveAllocation", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.CostAllocation) bool {
		return a.TransactionID == "txn-1" && a.CostDetailID == "cd-1" && a.PlannedAmount.Equal(dec("900")) && a.CreatedBy == "user-1"
	})).Return(nil).Once()

	req := dto.CreateAllocationRequest{TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("900")}
	allocation, err := s.service.CreateAllocation(ctx, req, "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(allocation)
	s.NotEmpty(allocation.AllocationID)
	s.mockAllocRepo.AssertExpectations(s.T())
	s.mockFundingRepo.AssertExpectations(s.T())
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_TransactionCapExceeded() {
	ctx := context.Background()
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("5000")}
	existing := []domain.CostAllocation{{AllocationID: "alloc-a", PlannedAmount: dec("600")}}

	s.expectTx(false)
	s.expectCheckLoads(txn, cd, existing, nil, decimal.Zero)

	req := dto.CreateAllocationRequest{TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("450")}
	allocation, err := s.service.CreateAllocation(ctx, req, "user-1")

	s.Require().Error(err)
	s.Nil(allocation)
	s.ErrorIs(err, apperrors.ErrCapExceeded)
	s.mockAllocRepo.AssertNotCalled(s.T(), "SaveAllocation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_CostLineCapExceeded() {
	ctx := context.Background()
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("100000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}
	otherTxnRows := []domain.CostAllocation{{AllocationID: "alloc-b", TransactionID: "txn-2", PlannedAmount: dec("800")}}

	s.expectTx(false)
	s.expectCheckLoads(txn, cd, nil, otherTxnRows, decimal.Zero)

	req := dto.CreateAllocationRequest{TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("300")}
	_, err := s.service.CreateAllocation(ctx, req, "user-1")

	s.ErrorIs(err, apperrors.ErrCapExceeded)
}

func (s *AllocationServiceTestSuite) TestUpdateAllocation_ShrinkBelowPaidRejected() {
	ctx := context.Background()
	existing := &domain.CostAllocation{
		AllocationID:  "alloc-a",
		TransactionID: "txn-1",
		CostDetailID:  "cd-1",
		PlannedAmount: dec("800"),
	}
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}
	rows := []domain.CostAllocation{*existing}

	s.expectTx(false)
	s.mockAllocRepo.On("FindAllocationByIDTx", mock.Anything, mock.Anything, "alloc-a").Return(existing, nil).Once()
	s.expectCheckLoads(txn, cd, rows, rows, dec("500"))

	req := dto.UpdateAllocationRequest{PlannedAmount: dec("400")}
	_, err := s.service.UpdateAllocation(ctx, "alloc-a", req, "user-1")

	s.ErrorIs(err, apperrors.ErrPaidFloorViolation)
	s.mockAllocRepo.AssertNotCalled(s.T(), "UpdateAllocation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestUpdateAllocation_Success() {
	ctx := context.Background()
	existing := &domain.CostAllocation{
		AllocationID:  "alloc-a",
		TransactionID: "txn-1",
		CostDetailID:  "cd-1",
		PlannedAmount: dec("500"),
	}
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}
	rows := []domain.CostAllocation{*existing}

	s.expectTx(true)
	s.mockAllocRepo.On("FindAllocationByIDTx", mock.Anything, mock.Anything, "alloc-a").Return(existing, nil).Once()
	s.expectCheckLoads(txn, cd, rows, rows, decimal.Zero)
	s.mockAllocRepo.On("UpdateAllocation", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.CostAllocation) bool {
		return a.AllocationID == "alloc-a" && a.PlannedAmount.Equal(dec("1000")) && a.LastUpdatedBy == "user-1"
	})).Return(nil).Once()

	req := dto.UpdateAllocationRequest{PlannedAmount: dec("1000")}
	allocation, err := s.service.UpdateAllocation(ctx, "alloc-a", req, "user-1")

	s.Require().NoError(err)
	s.True(allocation.PlannedAmount.Equal(dec("1000")))
	s.mockAllocRepo.AssertExpectations(s.T())
}

func (s *AllocationServiceTestSuite) TestDeleteAllocation_RejectedWhilePaid() {
	ctx := context.Background()
	existing := &domain.CostAllocation{
		AllocationID:  "alloc-a",
		TransactionID: "txn-1",
		CostDetailID:  "cd-1",
		PlannedAmount: dec("800"),
	}
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}

	s.expectTx(false)
	s.mockAllocRepo.On("FindAllocationByIDTx", mock.Anything, mock.Anything, "alloc-a").Return(existing, nil).Once()
	s.expectCheckLoads(txn, cd, []domain.CostAllocation{*existing}, []domain.CostAllocation{*existing}, dec("100"))

	err := s.service.DeleteAllocation(ctx, "alloc-a", "user-1")

	s.ErrorIs(err, apperrors.ErrPaidFloorViolation)
	s.mockAllocRepo.AssertNotCalled(s.T(), "SoftDeleteAllocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestDeleteAllocation_Success() {
	ctx := context.Background()
	existing := &domain.CostAllocation{
		AllocationID:  "alloc-a",
		TransactionID: "txn-1",
		CostDetailID:  "cd-1",
		PlannedAmount: dec("800"),
	}
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	cd := &domain.CostDetail{CostDetailID: "cd-1", AmountLocal: dec("1000")}

	s.expectTx(true)
	s.mockAllocRepo.On("FindAllocationByIDTx", mock.Anything, mock.Anything, "alloc-a").Return(existing, nil).Once()
	s.expectCheckLoads(txn, cd, []domain.CostAllocation{*existing}, []domain.CostAllocation{*existing}, decimal.Zero)
	s.mockAllocRepo.On("SoftDeleteAllocation", mock.Anything, mock.Anything, "alloc-a", "user-1", mock.Anything).Return(nil).Once()

	err := s.service.DeleteAllocation(ctx, "alloc-a", "user-1")

	s.Require().NoError(err)
	s.mockAllocRepo.AssertExpectations(s.T())
}

func (s *AllocationServiceTestSuite) TestCreateAllocation_TransactionNotFound() {
	ctx := context.Background()

	s.expectTx(false)
	s.mockFundingRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, "txn-missing").Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreateAllocationRequest{TransactionID: "txn-missing", CostDetailID: "cd-1", PlannedAmount: dec("100")}
	_, err := s.service.CreateAllocation(ctx, req, "user-1")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAllocationService(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
