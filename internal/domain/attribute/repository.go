package attribute

import "context"

type Repository interface {
	ListSummaries(ctx context.Context) ([]Summary, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]Attribute, error)
	FindByCodes(ctx context.Context, codes []string) ([]Attribute, error)
}
