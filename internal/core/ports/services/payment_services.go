package services

import (
	"context"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
	"github.com/dejan-marlovic/relief-finance/internal/dto"
)

// PaymentSvcFacade is the validated write and read path for the payment
// order aggregate: the header, its lines and its signatures. Line writes
// run the payment guard and refresh the derived order total in the same
// transaction; a booked order rejects every mutation.
type PaymentSvcFacade interface {
	CreateOrder(ctx context.Context, req dto.CreatePaymentOrderRequest, creatorUserID string) (*domain.PaymentOrder, error)
	GetOrder(ctx context.Context, paymentOrderID string) (*dto.PaymentOrderResponse, error)
	ListOrders(ctx context.Context, limit, offset int) ([]domain.PaymentOrder, error)
	UpdateOrder(ctx context.Context, paymentOrderID string, req dto.UpdatePaymentOrderRequest, userID string) (*domain.PaymentOrder, error)
	DeleteOrder(ctx context.Context, paymentOrderID string, userID string) error

	CreateLine(ctx context.Context, paymentOrderID string, req dto.CreatePaymentLineRequest, creatorUserID string) (*domain.PaymentOrderLine, error)
	UpdateLine(ctx context.Context, lineID string, req dto.UpdatePaymentLineRequest, userID string) (*domain.PaymentOrderLine, error)
	DeleteLine(ctx context.Context, lineID string, userID string) error

	AddSignature(ctx context.Context, paymentOrderID string, req dto.CreateSignatureRequest, signerUserID string) (*domain.Signature, error)
	RemoveSignature(ctx context.Context, signatureID string, userID string) error
}
