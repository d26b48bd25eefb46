package inmemory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
)

// Catalog keeps families, groups, attributes and product references in
// memory. It satisfies both the family and the attribute repositories.
type Catalog struct {
	mu    sync.RWMutex
	state catalogState
}

type catalogState struct {
	families   map[uint64]familydomain.AttributeFamily
	groups     map[uint64]familydomain.AttributeGroup
	mappings   map[uint64][]uint64
	attributes map[uint64]attributedomain.Attribute
	products   map[uint64]uint64
	lastID     uint64
}

func NewCatalog() *Catalog {
	return &Catalog{state: newCatalogState()}
}

func newCatalogState() catalogState {
	return catalogState{
		families:   make(map[uint64]familydomain.AttributeFamily),
		groups:     make(map[uint64]familydomain.AttributeGroup),
		mappings:   make(map[uint64][]uint64),
		attributes: make(map[uint64]attributedomain.Attribute),
		products:   make(map[uint64]uint64),
	}
}

func (s *catalogState) clone() catalogState {
	mappings := make(map[uint64][]uint64, len(s.mappings))
	for groupID, ids := range s.mappings {
		mappings[groupID] = slices.Clone(ids)
	}
	families := make(map[uint64]familydomain.AttributeFamily, len(s.families))
	for id, family := range s.families {
		family.Extra = maps.Clone(family.Extra)
		families[id] = family
	}
	return catalogState{
		families:   families,
		groups:     maps.Clone(s.groups),
		mappings:   mappings,
		attributes: maps.Clone(s.attributes),
		products:   maps.Clone(s.products),
		lastID:     s.lastID,
	}
}

// Transaction holds the write lock while fn runs, so plain calls from other
// goroutines wait for it. The state is restored when fn fails. Attribute reads
// through the Catalog itself must not happen inside fn.
func (c *Catalog) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().Transaction(ctx, fn)
}

func (c *Catalog) view() *catalogTx {
	return &catalogTx{state: &c.state}
}

func (c *Catalog) SeedAttribute(attr attributedomain.Attribute) attributedomain.Attribute {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attr.ID == 0 {
		attr.ID = c.state.nextID()
	} else if attr.ID > c.state.lastID {
		c.state.lastID = attr.ID
	}
	now := time.Now().UTC()
	attr.CreatedAt = now
	attr.UpdatedAt = now
	c.state.attributes[attr.ID] = attr
	return attr
}

// AttachProduct records a product that uses the family.
func (c *Catalog) AttachProduct(familyID uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.state.nextID()
	c.state.products[id] = familyID
	return id
}

func (c *Catalog) DetachProduct(productID uint64) {
	c.mu.Lock()
	delete(c.state.products, productID)
	c.mu.Unlock()
}

func (c *Catalog) List(ctx context.Context) ([]familydomain.AttributeFamily, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().List(ctx)
}

func (c *Catalog) GetByID(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().GetByID(ctx, id)
}

func (c *Catalog) GetWithGroups(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().GetWithGroups(ctx, id)
}

func (c *Catalog) Create(ctx context.Context, family *familydomain.AttributeFamily) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().Create(ctx, family)
}

func (c *Catalog) Update(ctx context.Context, family *familydomain.AttributeFamily) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().Update(ctx, family)
}

func (c *Catalog) Delete(ctx context.Context, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().Delete(ctx, id)
}

func (c *Catalog) Count(ctx context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().Count(ctx)
}

func (c *Catalog) CountProducts(ctx context.Context, familyID uint64) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().CountProducts(ctx, familyID)
}

func (c *Catalog) IsCodeTaken(ctx context.Context, code string, excludeID uint64) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().IsCodeTaken(ctx, code, excludeID)
}

func (c *Catalog) ListGroups(ctx context.Context, familyID uint64) ([]familydomain.AttributeGroup, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view().ListGroups(ctx, familyID)
}

func (c *Catalog) CreateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().CreateGroup(ctx, group)
}

func (c *Catalog) UpdateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().UpdateGroup(ctx, group)
}

func (c *Catalog) DeleteGroups(ctx context.Context, familyID uint64, groupIDs []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().DeleteGroups(ctx, familyID, groupIDs)
}

func (c *Catalog) ReplaceGroupAttributes(ctx context.Context, groupID uint64, attributeIDs []uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view().ReplaceGroupAttributes(ctx, groupID, attributeIDs)
}

// catalogTx runs the family repository operations against state without
// locking; the Catalog wraps each call with its lock.
type catalogTx struct {
	state *catalogState
}

func (t *catalogTx) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	snapshot := t.state.clone()
	if err := fn(t); err != nil {
		*t.state = snapshot
		return err
	}
	return nil
}

func (t *catalogTx) List(ctx context.Context) ([]familydomain.AttributeFamily, error) {
	result := make([]familydomain.AttributeFamily, 0, len(t.state.families))
	for _, family := range t.state.families {
		result = append(result, copyFamily(family))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (t *catalogTx) GetByID(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	family, ok := t.state.families[id]
	if !ok {
		return nil, familydomain.ErrFamilyNotFound
	}
	result := copyFamily(family)
	return &result, nil
}

func (t *catalogTx) GetWithGroups(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	family, ok := t.state.families[id]
	if !ok {
		return nil, familydomain.ErrFamilyNotFound
	}
	result := copyFamily(family)

	groups := t.groups(id)
	for i := range groups {
		attributes := make([]attributedomain.Attribute, 0, len(t.state.mappings[groups[i].ID]))
		for _, attributeID := range t.state.mappings[groups[i].ID] {
			if attr, ok := t.state.attributes[attributeID]; ok {
				attributes = append(attributes, attr)
			}
		}
		groups[i].CustomAttributes = attributes
	}
	result.AttributeGroups = groups
	return &result, nil
}

func (t *catalogTx) Create(ctx context.Context, family *familydomain.AttributeFamily) error {
	if t.codeTaken(family.Code, 0) {
		return familydomain.ErrCodeTaken
	}

	now := time.Now().UTC()
	family.ID = t.state.nextID()
	family.CreatedAt = now
	family.UpdatedAt = now

	stored := copyFamily(*family)
	stored.AttributeGroups = nil
	t.state.families[family.ID] = stored
	return nil
}

func (t *catalogTx) Update(ctx context.Context, family *familydomain.AttributeFamily) error {
	current, ok := t.state.families[family.ID]
	if !ok {
		return familydomain.ErrFamilyNotFound
	}
	if t.codeTaken(family.Code, family.ID) {
		return familydomain.ErrCodeTaken
	}

	current.Code = family.Code
	current.Name = family.Name
	current.Status = family.Status
	current.IsUserDefined = family.IsUserDefined
	current.Extra = maps.Clone(family.Extra)
	current.UpdatedAt = time.Now().UTC()
	t.state.families[family.ID] = current

	family.UpdatedAt = current.UpdatedAt
	return nil
}

func (t *catalogTx) Delete(ctx context.Context, id uint64) error {
	if _, ok := t.state.families[id]; !ok {
		return familydomain.ErrFamilyNotFound
	}
	for _, familyID := range t.state.products {
		if familyID == id {
			return errForeignKey
		}
	}

	for groupID, group := range t.state.groups {
		if group.AttributeFamilyID == id {
			delete(t.state.groups, groupID)
			delete(t.state.mappings, groupID)
		}
	}
	delete(t.state.families, id)
	return nil
}

func (t *catalogTx) Count(ctx context.Context) (int64, error) {
	return int64(len(t.state.families)), nil
}

func (t *catalogTx) CountProducts(ctx context.Context, familyID uint64) (int64, error) {
	var count int64
	for _, id := range t.state.products {
		if id == familyID {
			count++
		}
	}
	return count, nil
}

func (t *catalogTx) IsCodeTaken(ctx context.Context, code string, excludeID uint64) (bool, error) {
	return t.codeTaken(code, excludeID), nil
}

func (t *catalogTx) ListGroups(ctx context.Context, familyID uint64) ([]familydomain.AttributeGroup, error) {
	return t.groups(familyID), nil
}

func (t *catalogTx) CreateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	if _, ok := t.state.families[group.AttributeFamilyID]; !ok {
		return familydomain.ErrFamilyNotFound
	}
	group.ID = t.state.nextID()
	stored := *group
	stored.CustomAttributes = nil
	t.state.groups[group.ID] = stored
	return nil
}

func (t *catalogTx) UpdateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	current, ok := t.state.groups[group.ID]
	if !ok || current.AttributeFamilyID != group.AttributeFamilyID {
		return nil
	}
	current.Name = group.Name
	current.Position = group.Position
	current.IsUserDefined = group.IsUserDefined
	t.state.groups[group.ID] = current
	return nil
}

func (t *catalogTx) DeleteGroups(ctx context.Context, familyID uint64, groupIDs []uint64) error {
	for _, groupID := range groupIDs {
		if group, ok := t.state.groups[groupID]; ok && group.AttributeFamilyID == familyID {
			delete(t.state.groups, groupID)
			delete(t.state.mappings, groupID)
		}
	}
	return nil
}

func (t *catalogTx) ReplaceGroupAttributes(ctx context.Context, groupID uint64, attributeIDs []uint64) error {
	if len(attributeIDs) == 0 {
		delete(t.state.mappings, groupID)
		return nil
	}
	t.state.mappings[groupID] = slices.Clone(attributeIDs)
	return nil
}

func (t *catalogTx) groups(familyID uint64) []familydomain.AttributeGroup {
	groups := make([]familydomain.AttributeGroup, 0)
	for _, group := range t.state.groups {
		if group.AttributeFamilyID == familyID {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Position == groups[j].Position {
			return groups[i].ID < groups[j].ID
		}
		return groups[i].Position < groups[j].Position
	})
	return groups
}

func (t *catalogTx) codeTaken(code string, excludeID uint64) bool {
	for id, family := range t.state.families {
		if id != excludeID && family.Code == code {
			return true
		}
	}
	return false
}

func (c *Catalog) ListSummaries(ctx context.Context) ([]attributedomain.Summary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]attributedomain.Summary, 0, len(c.state.attributes))
	for _, attr := range c.state.attributes {
		result = append(result, attr.Summary())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (c *Catalog) FindByIDs(ctx context.Context, ids []uint64) ([]attributedomain.Attribute, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]attributedomain.Attribute, 0, len(ids))
	for _, id := range ids {
		if attr, ok := c.state.attributes[id]; ok {
			result = append(result, attr)
		}
	}
	return result, nil
}

func (c *Catalog) FindByCodes(ctx context.Context, codes []string) ([]attributedomain.Attribute, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}

	result := make([]attributedomain.Attribute, 0, len(codes))
	for _, attr := range c.state.attributes {
		if _, ok := wanted[attr.Code]; ok {
			result = append(result, attr)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *catalogState) nextID() uint64 {
	s.lastID++
	return s.lastID
}

func copyFamily(family familydomain.AttributeFamily) familydomain.AttributeFamily {
	family.Extra = maps.Clone(family.Extra)
	family.AttributeGroups = nil
	return family
}
