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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockFundingRepo *MockFundingRepository
	mockAllocRepo   *MockAllocationRepository
	mockOrgRepo     *MockOrganizationRepository
	mockBudgetRepo  *MockBudgetRepository
	service         portssvc.PaymentSvcFacade
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockFundingRepo = new(MockFundingRepository)
	s.mockAllocRepo = new(MockAllocationRepository)
	s.mockOrgRepo = new(MockOrganizationRepository)
	s.mockBudgetRepo = new(MockBudgetRepository)
	s.service = services.NewPaymentService(s.mockPaymentRepo, s.mockFundingRepo, s.mockAllocRepo, s.mockOrgRepo, s.mockBudgetRepo)
}

func (s *PaymentServiceTestSuite) expectTx(committed bool) {
	s.mockPaymentRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockPaymentRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	if committed {
		s.mockPaymentRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	}
}

// expectLockOrder wires the order row lock and the signature read that
// derives the lock state.
func (s *PaymentServiceTestSuite) expectLockOrder(order *domain.PaymentOrder, signatures []domain.Signature) {
	s.mockPaymentRepo.On("FindOrderByIDForUpdate", mock.Anything, mock.Anything, order.PaymentOrderID).Return(order, nil).Once()
	s.mockPaymentRepo.On("ListSignaturesByOrderTx", mock.Anything, mock.Anything, order.PaymentOrderID).Return(signatures, nil).Once()
}

func (s *PaymentServiceTestSuite) expectLineRefs() {
	s.mockOrgRepo.On("FindOrganizationByID", mock.Anything, mock.Anything).Return(&domain.Organization{OrganizationID: "org-1"}, nil).Once()
	s.mockBudgetRepo.On("FindCostDetailByID", mock.Anything, mock.Anything).Return(&domain.CostDetail{CostDetailID: "cd-1"}, nil).Once()
}

func (s *PaymentServiceTestSuite) expectGuardSums(txn *domain.FundingTransaction, allocations []domain.CostAllocation, pairPaid, txnPaid decimal.Decimal) {
	s.mockFundingRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	s.mockAllocRepo.On("ListAllocationsByTransactionTx", mock.Anything, mock.Anything, txn.TransactionID).Return(allocations, nil).Once()
	s.mockPaymentRepo.On("SumLineAmountsForPair", mock.Anything, mock.Anything, txn.TransactionID, "cd-1", mock.Anything).Return(pairPaid, nil).Once()
	s.mockPaymentRepo.On("SumLineAmountsForTransaction", mock.Anything, mock.Anything, txn.TransactionID, mock.Anything).Return(txnPaid, nil).Once()
}

func (s *PaymentServiceTestSuite) expectTotalRefresh(paymentOrderID string, lines []domain.PaymentOrderLine) {
	s.mockPaymentRepo.On("ListLinesByOrderTx", mock.Anything, mock.Anything, paymentOrderID).Return(lines, nil).Once()
	s.mockPaymentRepo.On("UpdateOrderTotal", mock.Anything, mock.Anything, paymentOrderID, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
}

func openOrder() *domain.PaymentOrder {
	return &domain.PaymentOrder{
		PaymentOrderID: "po-1",
		TransactionID:  strPtr("txn-1"),
		Reference:      "INV-2024-017",
	}
}

func (s *PaymentServiceTestSuite) TestCreateLine_Success() {
	ctx := context.Background()
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("1000")}
	allocations := []domain.CostAllocation{
		{AllocationID: "alloc-a", TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("900")},
	}

	s.expectTx(true)
	s.expectLockOrder(openOrder(), nil)
	s.expectLineRefs()
	s.expectGuardSums(txn, allocations, decimal.Zero, decimal.Zero)
	s.mockPaymentRepo.On("SaveLine", mock.Anything, mock.Anything, mock.MatchedBy(func(l domain.PaymentOrderLine) bool {
		return l.PaymentOrderID == "po-1" && l.Amount.Equal(dec("900")) && l.CreatedBy == "user-1"
	})).Return(nil).Once()
	s.expectTotalRefresh("po-1", []domain.PaymentOrderLine{{LineID: "l1", Amount: dec("900")}})

	req := dto.CreatePaymentLineRequest{OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("900")}
	line, err := s.service.CreateLine(ctx, "po-1", req, "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(line)
	s.NotEmpty(line.LineID)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestCreateLine_ExceedsAllocation() {
	ctx := context.Background()
	txn := &domain.FundingTransaction{TransactionID: "txn-1", ApprovedAmount: dec("10000")}
	allocations := []domain.CostAllocation{
		{AllocationID: "alloc-a", TransactionID: "txn-1", CostDetailID: "cd-1", PlannedAmount: dec("900")},
	}

	s.expectTx(false)
	s.expectLockOrder(openOrder(), nil)
	s.expectLineRefs()
	s.expectGuardSums(txn, allocations, dec("850"), dec("850"))

	req := dto.CreatePaymentLineRequest{OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("100")}
	_, err := s.service.CreateLine(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrExceedsAllocation)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SaveLine", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreateLine_BookedOrderRejected() {
	ctx := context.Background()
	booked := []domain.Signature{{SignatureID: "s1", StatusKind: domain.SignatureBooked}}

	s.expectTx(false)
	s.expectLockOrder(openOrder(), booked)
	s.expectLineRefs()

	req := dto.CreatePaymentLineRequest{OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("100")}
	_, err := s.service.CreateLine(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrOrderLocked)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SaveLine", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreateLine_NoResolvableTransaction() {
	ctx := context.Background()
	order := openOrder()
	order.TransactionID = nil

	s.expectTx(false)
	s.expectLockOrder(order, nil)
	s.expectLineRefs()

	req := dto.CreatePaymentLineRequest{OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("100")}
	_, err := s.service.CreateLine(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrNoTransaction)
}

func (s *PaymentServiceTestSuite) TestDeleteLine_BookedOrderRejected() {
	ctx := context.Background()
	line := &domain.PaymentOrderLine{LineID: "l1", PaymentOrderID: "po-1", Amount: dec("100")}
	booked := []domain.Signature{{SignatureID: "s1", StatusKind: domain.SignatureBooked}}

	s.expectTx(false)
	s.mockPaymentRepo.On("FindLineByIDTx", mock.Anything, mock.Anything, "l1").Return(line, nil).Once()
	s.expectLockOrder(openOrder(), booked)

	err := s.service.DeleteLine(ctx, "l1", "user-1")

	s.ErrorIs(err, apperrors.ErrOrderLocked)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SoftDeleteLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestDeleteLine_Success() {
	ctx := context.Background()
	line := &domain.PaymentOrderLine{LineID: "l1", PaymentOrderID: "po-1", OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("100")}

	s.expectTx(true)
	s.mockPaymentRepo.On("FindLineByIDTx", mock.Anything, mock.Anything, "l1").Return(line, nil).Once()
	s.expectLockOrder(openOrder(), nil)
	s.mockPaymentRepo.On("SoftDeleteLine", mock.Anything, mock.Anything, "l1", "user-1", mock.Anything).Return(nil).Once()
	s.expectTotalRefresh("po-1", nil)

	err := s.service.DeleteLine(ctx, "l1", "user-1")

	s.Require().NoError(err)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestAddSignature_BookedFlipsLock() {
	ctx := context.Background()

	s.expectTx(true)
	s.expectLockOrder(openOrder(), nil)
	s.mockPaymentRepo.On("SaveSignature", mock.Anything, mock.Anything, mock.MatchedBy(func(sig domain.Signature) bool {
		return sig.PaymentOrderID == "po-1" && sig.StatusKind == domain.SignatureBooked && sig.SignedBy == "user-1"
	})).Return(nil).Once()

	req := dto.CreateSignatureRequest{StatusKind: "BOOKED"}
	signature, err := s.service.AddSignature(ctx, "po-1", req, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.SignatureBooked, signature.StatusKind)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestAddSignature_AlreadyBookedRejected() {
	ctx := context.Background()
	booked := []domain.Signature{{SignatureID: "s1", StatusKind: domain.SignatureBooked}}

	s.expectTx(false)
	s.expectLockOrder(openOrder(), booked)

	req := dto.CreateSignatureRequest{StatusKind: "VERIFIED"}
	_, err := s.service.AddSignature(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrOrderLocked)
}

func (s *PaymentServiceTestSuite) TestAddSignature_UnknownKindRejected() {
	ctx := context.Background()

	req := dto.CreateSignatureRequest{StatusKind: "SIGNED_OFF"}
	_, err := s.service.AddSignature(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRemoveSignature_BookedOrderKeepsSignatures() {
	ctx := context.Background()
	signature := &domain.Signature{SignatureID: "s1", PaymentOrderID: "po-1", StatusKind: domain.SignatureBooked}
	booked := []domain.Signature{*signature}

	s.expectTx(false)
	s.mockPaymentRepo.On("FindSignatureByIDTx", mock.Anything, mock.Anything, "s1").Return(signature, nil).Once()
	s.expectLockOrder(openOrder(), booked)

	err := s.service.RemoveSignature(ctx, "s1", "user-1")

	s.ErrorIs(err, apperrors.ErrOrderLocked)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SoftDeleteSignature", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestUpdateOrder_BookedRejected() {
	ctx := context.Background()
	booked := []domain.Signature{{SignatureID: "s1", StatusKind: domain.SignatureBooked}}

	s.expectTx(false)
	s.expectLockOrder(openOrder(), booked)

	req := dto.UpdatePaymentOrderRequest{Reference: strPtr("INV-2024-018")}
	_, err := s.service.UpdateOrder(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrOrderLocked)
}

func (s *PaymentServiceTestSuite) TestUpdateOrder_TransactionChangeRevalidatesInheritingLines() {
	ctx := context.Background()
	order := openOrder()
	inheriting := domain.PaymentOrderLine{
		LineID: "l1", PaymentOrderID: "po-1",
		OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("500"),
	}
	newTxn := &domain.FundingTransaction{TransactionID: "txn-2", ApprovedAmount: dec("10000")}

	s.expectTx(false)
	s.expectLockOrder(order, nil)
	s.mockPaymentRepo.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockPaymentRepo.On("ListLinesByOrderTx", mock.Anything, mock.Anything, "po-1").Return([]domain.PaymentOrderLine{inheriting}, nil).Once()

	// The new header transaction has nothing allocated for the pair, so the
	// inheriting line no longer fits.
	s.expectGuardSums(newTxn, nil, decimal.Zero, decimal.Zero)

	req := dto.UpdatePaymentOrderRequest{TransactionID: strPtr("txn-2")}
	_, err := s.service.UpdateOrder(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrExceedsAllocation)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestUpdateOrder_RetargetWritesHeaderBeforeSiblingSums() {
	ctx := context.Background()
	order := openOrder()
	lines := []domain.PaymentOrderLine{
		{LineID: "l1", PaymentOrderID: "po-1", OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("600")},
		{LineID: "l2", PaymentOrderID: "po-1", OrganizationID: "org-1", CostDetailID: "cd-1", Amount: dec("600")},
	}
	newTxn := &domain.FundingTransaction{TransactionID: "txn-2", ApprovedAmount: dec("1000")}
	allocations := []domain.CostAllocation{
		{AllocationID: "alloc-a", TransactionID: "txn-2", CostDetailID: "cd-1", PlannedAmount: dec("1000")},
	}

	var calls []string
	s.expectTx(false)
	s.expectLockOrder(order, nil)
	s.mockPaymentRepo.On("UpdateOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.PaymentOrder) bool {
		return o.TransactionID != nil && *o.TransactionID == "txn-2"
	})).Run(func(mock.Arguments) { calls = append(calls, "header") }).Return(nil).Once()
	s.mockPaymentRepo.On("ListLinesByOrderTx", mock.Anything, mock.Anything, "po-1").Return(lines, nil).Once()
	s.mockFundingRepo.On("FindTransactionByIDForUpdate", mock.Anything, mock.Anything, "txn-2").Return(newTxn, nil).Once()
	s.mockAllocRepo.On("ListAllocationsByTransactionTx", mock.Anything, mock.Anything, "txn-2").Return(allocations, nil).Once()
	// With the header persisted, the sibling line already counts against
	// txn-2, so the first line sees 600 paid on the pair.
	s.mockPaymentRepo.On("SumLineAmountsForPair", mock.Anything, mock.Anything, "txn-2", "cd-1", "l1").
		Run(func(mock.Arguments) { calls = append(calls, "sums") }).Return(dec("600"), nil).Once()
	s.mockPaymentRepo.On("SumLineAmountsForTransaction", mock.Anything, mock.Anything, "txn-2", "l1").Return(dec("600"), nil).Once()

	req := dto.UpdatePaymentOrderRequest{TransactionID: strPtr("txn-2")}
	_, err := s.service.UpdateOrder(ctx, "po-1", req, "user-1")

	s.ErrorIs(err, apperrors.ErrExceedsAllocation)
	s.Require().Len(calls, 2)
	s.Equal("header", calls[0])
	s.mockPaymentRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestCreateOrder_UnknownHeaderTransactionRejected() {
	ctx := context.Background()

	s.mockFundingRepo.On("FindTransactionByID", mock.Anything, "txn-missing").Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreatePaymentOrderRequest{TransactionID: strPtr("txn-missing"), Reference: "INV-1"}
	_, err := s.service.CreateOrder(ctx, req, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PaymentServiceTestSuite) TestGetOrder_DerivesState() {
	ctx := context.Background()
	order := openOrder()
	lines := []domain.PaymentOrderLine{{LineID: "l1", Amount: dec("100")}}
	booked := []domain.Signature{{SignatureID: "s1", StatusKind: domain.SignatureBooked}}

	s.mockPaymentRepo.On("FindOrderByID", ctx, "po-1").Return(order, nil).Once()
	s.mockPaymentRepo.On("ListLinesByOrder", ctx, "po-1").Return(lines, nil).Once()
	s.mockPaymentRepo.On("ListSignaturesByOrder", ctx, "po-1").Return(booked, nil).Once()

	resp, err := s.service.GetOrder(ctx, "po-1")

	s.Require().NoError(err)
	s.Equal(string(domain.OrderLocked), resp.State)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
