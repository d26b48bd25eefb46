package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	summaries []attributedomain.Summary
	err       error
	calls     int
}

func (r *countingRepo) ListSummaries(ctx context.Context) ([]attributedomain.Summary, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.summaries, nil
}

func (r *countingRepo) FindByIDs(ctx context.Context, ids []uint64) ([]attributedomain.Attribute, error) {
	return []attributedomain.Attribute{{ID: ids[0]}}, nil
}

func (r *countingRepo) FindByCodes(ctx context.Context, codes []string) ([]attributedomain.Attribute, error) {
	return []attributedomain.Attribute{{Code: codes[0]}}, nil
}

func TestListSummariesIsCached(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{summaries: []attributedomain.Summary{{ID: 1, Code: "sku"}}}
	cached := NewAttributes(repo, time.Minute)

	first, err := cached.ListSummaries(ctx)
	require.NoError(t, err)
	first[0].Code = "mutated"

	second, err := cached.ListSummaries(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "sku", second[0].Code)
}

func TestListSummariesExpires(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{summaries: []attributedomain.Summary{{ID: 1, Code: "sku"}}}
	cached := NewAttributes(repo, 10*time.Millisecond)

	_, err := cached.ListSummaries(ctx)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = cached.ListSummaries(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls)
}

func TestListSummariesErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{err: errors.New("db down")}
	cached := NewAttributes(repo, time.Minute)

	_, err := cached.ListSummaries(ctx)
	require.Error(t, err)

	repo.err = nil
	repo.summaries = []attributedomain.Summary{{ID: 2}}
	summaries, err := cached.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 2, repo.calls)
}

func TestLookupsPassThrough(t *testing.T) {
	ctx := context.Background()
	cached := NewAttributes(&countingRepo{}, time.Minute)

	byID, err := cached.FindByIDs(ctx, []uint64{7})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), byID[0].ID)

	byCode, err := cached.FindByCodes(ctx, []string{"color"})
	require.NoError(t, err)
	assert.Equal(t, "color", byCode[0].Code)
}
