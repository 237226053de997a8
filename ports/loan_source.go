package ports

import (
	"context"

	"loandash/domain/loan"
)

// LoanSource yields the loan table once at start-up. Implementations are
// read-only: nothing is ever written back to the source.
type LoanSource interface {
	Load(ctx context.Context) (*loan.Dataset, error)
	Describe() string
}
