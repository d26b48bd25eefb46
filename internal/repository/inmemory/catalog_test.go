package inmemory

import (
	"context"
	"errors"
	"testing"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	require.NoError(t, store.SeedDefaults(ctx))

	families, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "default", families[0].Code)
	assert.False(t, families[0].IsUserDefined)

	family, err := store.GetWithGroups(ctx, families[0].ID)
	require.NoError(t, err)
	require.Len(t, family.AttributeGroups, 3)
	assert.Equal(t, "General", family.AttributeGroups[0].Name)
	assert.Equal(t, "sku", family.AttributeGroups[0].CustomAttributes[0].Code)
	assert.Equal(t, "price", family.AttributeGroups[2].CustomAttributes[0].Code)

	summaries, err := store.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, len(defaultAttributes))
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()

	require.NoError(t, store.Create(ctx, &familydomain.AttributeFamily{Code: "shoes", Name: "Shoes"}))
	err := store.Create(ctx, &familydomain.AttributeFamily{Code: "shoes", Name: "Again"})

	assert.ErrorIs(t, err, familydomain.ErrCodeTaken)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx familydomain.Repository) error {
		family := familydomain.AttributeFamily{Code: "shoes", Name: "Shoes"}
		if err := tx.Create(ctx, &family); err != nil {
			return err
		}
		group := familydomain.AttributeGroup{AttributeFamilyID: family.ID, Name: "General", Position: 1}
		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.state.groups)
}

func TestRollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	victim := familydomain.AttributeFamily{Code: "shoes", Name: "Shoes"}
	require.NoError(t, store.Create(ctx, &victim))
	other := familydomain.AttributeFamily{Code: "hats", Name: "Hats"}
	require.NoError(t, store.Create(ctx, &other))

	boom := errors.New("boom")
	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.Transaction(ctx, func(tx familydomain.Repository) error {
			close(started)
			<-release
			return boom
		})
	}()

	<-started
	deleteDone := make(chan error, 1)
	go func() {
		deleteDone <- store.Delete(ctx, victim.ID)
	}()
	close(release)

	assert.ErrorIs(t, <-txDone, boom)
	require.NoError(t, <-deleteDone)

	_, err := store.GetByID(ctx, victim.ID)
	assert.ErrorIs(t, err, familydomain.ErrFamilyNotFound)
	_, err = store.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}

func TestDeleteCascadesAndRespectsProducts(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	attr := store.SeedAttribute(attributedomain.Attribute{Code: "sku", AdminName: "SKU", Type: attributedomain.TypeText})

	family := familydomain.AttributeFamily{Code: "shoes", Name: "Shoes"}
	require.NoError(t, store.Create(ctx, &family))
	group := familydomain.AttributeGroup{AttributeFamilyID: family.ID, Name: "General", Position: 1}
	require.NoError(t, store.CreateGroup(ctx, &group))
	require.NoError(t, store.ReplaceGroupAttributes(ctx, group.ID, []uint64{attr.ID}))

	productID := store.AttachProduct(family.ID)
	products, err := store.CountProducts(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), products)
	assert.ErrorIs(t, store.Delete(ctx, family.ID), errForeignKey)

	store.DetachProduct(productID)
	require.NoError(t, store.Delete(ctx, family.ID))

	_, err = store.GetByID(ctx, family.ID)
	assert.ErrorIs(t, err, familydomain.ErrFamilyNotFound)
	assert.Empty(t, store.state.groups)
	assert.Empty(t, store.state.mappings)
	assert.ErrorIs(t, store.Delete(ctx, family.ID), familydomain.ErrFamilyNotFound)
}

func TestGroupsOrderedByPosition(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	family := familydomain.AttributeFamily{Code: "shoes", Name: "Shoes"}
	require.NoError(t, store.Create(ctx, &family))

	for _, def := range []struct {
		name     string
		position int
	}{{"Third", 3}, {"First", 1}, {"Second", 2}} {
		group := familydomain.AttributeGroup{AttributeFamilyID: family.ID, Name: def.name, Position: def.position}
		require.NoError(t, store.CreateGroup(ctx, &group))
	}

	groups, err := store.ListGroups(ctx, family.ID)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"First", "Second", "Third"}, []string{groups[0].Name, groups[1].Name, groups[2].Name})
}

func TestReturnedFamiliesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	family := familydomain.AttributeFamily{Code: "shoes", Name: "Shoes", Extra: map[string]any{"a": 1}}
	require.NoError(t, store.Create(ctx, &family))

	loaded, err := store.GetByID(ctx, family.ID)
	require.NoError(t, err)
	loaded.Name = "Changed"
	loaded.Extra["a"] = 2

	again, err := store.GetByID(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", again.Name)
	assert.Equal(t, 1, again.Extra["a"])
}

func TestFindByIDsAndCodes(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()
	sku := store.SeedAttribute(attributedomain.Attribute{Code: "sku"})
	color := store.SeedAttribute(attributedomain.Attribute{Code: "color"})

	byID, err := store.FindByIDs(ctx, []uint64{color.ID, 999})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "color", byID[0].Code)

	byCode, err := store.FindByCodes(ctx, []string{"sku", "missing"})
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, sku.ID, byCode[0].ID)
}
