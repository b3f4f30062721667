// Package store supplies total item counts and page contents for paginated
// listings, either from a fixed in-memory count or from a Postgres table.
// Totals can be cached in Redis with Cached.
package store

import (
	"context"
	"fmt"
)

// Counter reports the size of a result set and returns one page of it.
type Counter interface {
	// Count returns the total number of items.
	Count(ctx context.Context) (int, error)
	// Items returns up to limit item labels starting after offset items.
	Items(ctx context.Context, offset, limit int) ([]string, error)
}

// Static is a Counter over a fixed number of synthetic items labelled
// "Item 1", "Item 2", and so on.
type Static struct {
	Total int
}

// Count returns s.Total, or 0 when it is negative.
func (s Static) Count(ctx context.Context) (int, error) {
	return max(0, s.Total), nil
}

// Items returns the labels of items offset+1 through offset+limit, clipped to
// the total.
func (s Static) Items(ctx context.Context, offset, limit int) ([]string, error) {
	offset = max(0, offset)
	end := min(offset+max(0, limit), max(0, s.Total))
	if end <= offset {
		return nil, nil
	}
	items := make([]string, 0, end-offset)
	for i := offset + 1; i <= end; i++ {
		items = append(items, fmt.Sprintf("Item %d", i))
	}
	return items, nil
}
