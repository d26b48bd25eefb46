package attributefamily

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"catalog-admin-go/internal/domain/attribute"
	"catalog-admin-go/internal/validation"
	"gorm.io/datatypes"
)

type Service struct {
	families   Repository
	attributes attribute.Repository
	validator  *validation.Engine
}

func NewService(families Repository, attributes attribute.Repository, validator *validation.Engine) *Service {
	return &Service{
		families:   families,
		attributes: attributes,
		validator:  validator,
	}
}

func (s *Service) List(ctx context.Context) ([]AttributeFamily, error) {
	return s.families.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uint64) (*Detail, error) {
	family, err := s.families.GetWithGroups(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries, err := s.attributes.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	return &Detail{Family: family, CustomAttributes: summaries}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*AttributeFamily, error) {
	resolved, err := s.validate(ctx, &in, 0)
	if err != nil {
		return nil, err
	}

	family := AttributeFamily{
		Code:          in.Code,
		Name:          in.Name,
		Status:        boolOr(in.Status, false),
		IsUserDefined: boolOr(in.IsUserDefined, true),
	}
	if len(in.Extra) > 0 {
		family.Extra = datatypes.JSONMap(in.Extra)
	}

	var created *AttributeFamily
	err = s.families.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &family); err != nil {
			return err
		}

		for i, input := range in.AttributeGroups {
			group := newGroup(family.ID, i, input)
			if err := tx.CreateGroup(ctx, &group); err != nil {
				return err
			}
			if err := tx.ReplaceGroupAttributes(ctx, group.ID, resolved[i]); err != nil {
				return err
			}
		}

		created, err = tx.GetWithGroups(ctx, family.ID)
		return err
	})
	if err != nil {
		return nil, codeTakenAsValidation(err)
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in Input) (*AttributeFamily, error) {
	resolved, err := s.validate(ctx, &in, id)
	if err != nil {
		return nil, err
	}

	var result *AttributeFamily
	err = s.families.Transaction(ctx, func(tx Repository) error {
		family, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		family.Code = in.Code
		family.Name = in.Name
		if in.Status != nil {
			family.Status = *in.Status
		}
		if in.IsUserDefined != nil {
			family.IsUserDefined = *in.IsUserDefined
		}
		if len(in.Extra) > 0 {
			if family.Extra == nil {
				family.Extra = datatypes.JSONMap{}
			}
			maps.Copy(family.Extra, in.Extra)
		}

		if err := tx.Update(ctx, family); err != nil {
			return err
		}

		if in.GroupsSet {
			if err := syncGroups(ctx, tx, family.ID, in.AttributeGroups, resolved); err != nil {
				return err
			}
		}

		result, err = tx.GetWithGroups(ctx, id)
		return err
	})
	if err != nil {
		return nil, codeTakenAsValidation(err)
	}

	return result, nil
}

// Delete removes a family unless it is missing, the last one left, or still
// referenced by products. The guards and the delete are separate store calls.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	if _, err := s.families.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.families.Count(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastFamily
	}

	products, err := s.families.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrFamilyInUse
	}

	if err := s.families.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

// BulkDelete runs Delete for every id and keeps going after failures.
func (s *Service) BulkDelete(ctx context.Context, ids []uint64, isDeleteMethod bool) (BulkResult, error) {
	if !isDeleteMethod {
		return BulkResult{}, ErrMethodNotAllowed
	}

	result := BulkResult{Deleted: make([]uint64, 0, len(ids))}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}

	return result, nil
}

// validate runs the tag rules and the store-backed rules. It returns the
// resolved attribute ids for every input group, in input order.
func (s *Service) validate(ctx context.Context, in *Input, excludeID uint64) ([][]uint64, error) {
	in.normalize()

	verr := s.validator.Struct(ctx, in)

	if !verr.Has("code") {
		taken, err := s.families.IsCodeTaken(ctx, in.Code, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("code", validation.Unique("code"))
		}
	}

	resolved, err := s.resolveAttributes(ctx, in.AttributeGroups, verr)
	if err != nil {
		return nil, err
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *Service) resolveAttributes(ctx context.Context, groups []GroupInput, verr *validation.Error) ([][]uint64, error) {
	var ids []uint64
	var codes []string
	for _, group := range groups {
		for _, ref := range group.CustomAttributes {
			switch {
			case ref.ID != 0:
				ids = append(ids, ref.ID)
			case ref.Code != "":
				codes = append(codes, ref.Code)
			}
		}
	}

	byID := make(map[uint64]struct{}, len(ids))
	if len(ids) > 0 {
		found, err := s.attributes.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, attr := range found {
			byID[attr.ID] = struct{}{}
		}
	}

	byCode := make(map[string]uint64, len(codes))
	if len(codes) > 0 {
		found, err := s.attributes.FindByCodes(ctx, codes)
		if err != nil {
			return nil, err
		}
		for _, attr := range found {
			byCode[attr.Code] = attr.ID
		}
	}

	resolved := make([][]uint64, len(groups))
	for i, group := range groups {
		seen := make(map[uint64]struct{}, len(group.CustomAttributes))
		resolved[i] = make([]uint64, 0, len(group.CustomAttributes))
		for j, ref := range group.CustomAttributes {
			var id uint64
			var ok bool
			switch {
			case ref.ID != 0:
				_, ok = byID[ref.ID]
				id = ref.ID
			case ref.Code != "":
				id, ok = byCode[ref.Code]
			default:
				continue
			}
			if !ok {
				verr.Add(fmt.Sprintf("attribute_groups[%d].custom_attributes[%d]", i, j), validation.Invalid("attribute"))
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			resolved[i] = append(resolved[i], id)
		}
	}

	return resolved, nil
}

func syncGroups(ctx context.Context, tx Repository, familyID uint64, inputs []GroupInput, resolved [][]uint64) error {
	existing, err := tx.ListGroups(ctx, familyID)
	if err != nil {
		return err
	}

	current := make(map[uint64]AttributeGroup, len(existing))
	for _, group := range existing {
		current[group.ID] = group
	}

	kept := make(map[uint64]struct{}, len(inputs))
	for i, input := range inputs {
		group := newGroup(familyID, i, input)

		if previous, ok := current[input.ID]; ok && input.ID != 0 {
			group.ID = previous.ID
			if input.IsUserDefined == nil {
				group.IsUserDefined = previous.IsUserDefined
			}
			if err := tx.UpdateGroup(ctx, &group); err != nil {
				return err
			}
			kept[group.ID] = struct{}{}
		} else {
			if err := tx.CreateGroup(ctx, &group); err != nil {
				return err
			}
		}

		if err := tx.ReplaceGroupAttributes(ctx, group.ID, resolved[i]); err != nil {
			return err
		}
	}

	var stale []uint64
	for _, group := range existing {
		if _, ok := kept[group.ID]; !ok {
			stale = append(stale, group.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return tx.DeleteGroups(ctx, familyID, stale)
}

func newGroup(familyID uint64, index int, input GroupInput) AttributeGroup {
	position := index + 1
	if input.Position != nil {
		position = *input.Position
	}
	return AttributeGroup{
		AttributeFamilyID: familyID,
		Name:              input.Name,
		Position:          position,
		IsUserDefined:     boolOr(input.IsUserDefined, true),
	}
}

func codeTakenAsValidation(err error) error {
	if !errors.Is(err, ErrCodeTaken) {
		return err
	}
	verr := &validation.Error{}
	verr.Add("code", validation.Unique("code"))
	return verr
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
