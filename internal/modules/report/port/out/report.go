package out

import (
	"context"

	"visitlog/internal/modules/report/domain"
)

// SessionWindowReader selects sessions whose calendar day lies in
// [fromDate, toDate] (YYYY-MM-DD, inclusive) in ledger insertion order.
type SessionWindowReader interface {
	ListSessionsBetween(ctx context.Context, fromDate, toDate string) ([]domain.SessionRecord, error)
}
