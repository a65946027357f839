package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// PaymentReader defines read operations for payment orders, their lines
// and their signatures.
type PaymentReader interface {
	FindOrderByID(ctx context.Context, paymentOrderID string) (*domain.PaymentOrder, error)
	ListOrders(ctx context.Context, limit, offset int) ([]domain.PaymentOrder, error)
	ListLinesByOrder(ctx context.Context, paymentOrderID string) ([]domain.PaymentOrderLine, error)
	ListSignaturesByOrder(ctx context.Context, paymentOrderID string) ([]domain.Signature, error)
}

// PaymentTxReader defines in-transaction reads for the payment guard and
// lock predicate. The signature read and the guarded write share the same
// transaction so a booked order can never be observed as Open by a
// concurrent writer.
type PaymentTxReader interface {
	// FindOrderByIDForUpdate locks the order row, serializing all writers
	// of the order aggregate (header, lines and signatures).
	FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentOrderID string) (*domain.PaymentOrder, error)
	FindLineByIDTx(ctx context.Context, tx pgx.Tx, lineID string) (*domain.PaymentOrderLine, error)
	ListLinesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.PaymentOrderLine, error)
	ListSignaturesByOrderTx(ctx context.Context, tx pgx.Tx, paymentOrderID string) ([]domain.Signature, error)
	FindSignatureByIDTx(ctx context.Context, tx pgx.Tx, signatureID string) (*domain.Signature, error)

	// SumLineAmountsForPair sums active line amounts whose effective
	// transaction (own override, else order header) and cost detail match
	// the pair, excluding the given line. Spans all payment orders.
	SumLineAmountsForPair(ctx context.Context, tx pgx.Tx, transactionID, costDetailID string, excludeLineID string) (decimal.Decimal, error)

	// SumLineAmountsForTransaction sums active line amounts whose effective
	// transaction matches, across all cost details and orders, excluding
	// the given line.
	SumLineAmountsForTransaction(ctx context.Context, tx pgx.Tx, transactionID string, excludeLineID string) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for the payment order aggregate.
type PaymentWriter interface {
	SaveOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error
	UpdateOrder(ctx context.Context, tx pgx.Tx, order domain.PaymentOrder) error

	// SoftDeleteOrder tombstones the order and cascades to its lines.
	SoftDeleteOrder(ctx context.Context, tx pgx.Tx, paymentOrderID string, deletedBy string, deletedAt time.Time) error

	SaveLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error
	UpdateLine(ctx context.Context, tx pgx.Tx, line domain.PaymentOrderLine) error
	SoftDeleteLine(ctx context.Context, tx pgx.Tx, lineID string, deletedBy string, deletedAt time.Time) error

	// UpdateOrderTotal persists the derived total after a line write.
	UpdateOrderTotal(ctx context.Context, tx pgx.Tx, paymentOrderID string, total decimal.Decimal, updatedBy string, updatedAt time.Time) error

	SaveSignature(ctx context.Context, tx pgx.Tx, signature domain.Signature) error
	SoftDeleteSignature(ctx context.Context, tx pgx.Tx, signatureID string, deletedBy string, deletedAt time.Time) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentTxReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends the facade with transaction capabilities.
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
