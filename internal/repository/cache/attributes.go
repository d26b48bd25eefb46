package cache

import (
	"context"
	"slices"
	"time"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	gocache "github.com/patrickmn/go-cache"
)

const summariesKey = "attributes:summaries"

// Attributes caches the summary list of the wrapped repository. Lookups by id
// or code always reach the wrapped repository.
type Attributes struct {
	next  attributedomain.Repository
	items *gocache.Cache
	ttl   time.Duration
}

func NewAttributes(next attributedomain.Repository, ttl time.Duration) *Attributes {
	return &Attributes{
		next:  next,
		items: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (a *Attributes) ListSummaries(ctx context.Context) ([]attributedomain.Summary, error) {
	if cached, ok := a.items.Get(summariesKey); ok {
		return slices.Clone(cached.([]attributedomain.Summary)), nil
	}

	summaries, err := a.next.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	a.items.Set(summariesKey, slices.Clone(summaries), a.ttl)
	return summaries, nil
}

func (a *Attributes) FindByIDs(ctx context.Context, ids []uint64) ([]attributedomain.Attribute, error) {
	return a.next.FindByIDs(ctx, ids)
}

func (a *Attributes) FindByCodes(ctx context.Context, codes []string) ([]attributedomain.Attribute, error) {
	return a.next.FindByCodes(ctx, codes)
}
