package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dejan-marlovic/relief-finance/internal/core/domain"
)

// FundingReader defines read operations for funding transactions.
type FundingReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FundingTransaction, error)
	ListTransactionsByProject(ctx context.Context, projectID string) ([]domain.FundingTransaction, error)
}

// FundingTxReader defines in-transaction reads.
type FundingTxReader interface {
	// FindTransactionByIDForUpdate locks the funding transaction row,
	// serializing allocation and payment writers against the same approved
	// amount.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.FundingTransaction, error)
}

// FundingWriter defines write operations for funding transactions.
type FundingWriter interface {
	SaveTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error
	UpdateTransaction(ctx context.Context, tx pgx.Tx, transaction domain.FundingTransaction) error
	SoftDeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string, deletedBy string, deletedAt time.Time) error
}

// FundingRepositoryFacade combines all funding repository interfaces.
type FundingRepositoryFacade interface {
	FundingReader
	FundingTxReader
	FundingWriter
}

// FundingRepositoryWithTx extends the facade with transaction capabilities.
type FundingRepositoryWithTx interface {
	FundingRepositoryFacade
	TransactionManager
}
