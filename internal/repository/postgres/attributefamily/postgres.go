package attributefamily

import (
	"context"
	"errors"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context) ([]familydomain.AttributeFamily, error) {
	var families []familydomain.AttributeFamily
	if err := r.db.WithContext(ctx).Order("id asc").Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	var family familydomain.AttributeFamily
	if err := r.db.WithContext(ctx).First(&family, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetWithGroups(ctx context.Context, id uint64) (*familydomain.AttributeFamily, error) {
	family, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	groups, err := r.ListGroups(ctx, id)
	if err != nil {
		return nil, err
	}

	groupIDs := make([]uint64, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}

	byGroup, err := r.attributesByGroup(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		attributes := byGroup[groups[i].ID]
		if attributes == nil {
			attributes = []attributedomain.Attribute{}
		}
		groups[i].CustomAttributes = attributes
	}
	family.AttributeGroups = groups

	return family, nil
}

func (r *PostgresRepository) attributesByGroup(ctx context.Context, groupIDs []uint64) (map[uint64][]attributedomain.Attribute, error) {
	result := make(map[uint64][]attributedomain.Attribute, len(groupIDs))
	if len(groupIDs) == 0 {
		return result, nil
	}

	type mappedAttribute struct {
		attributedomain.Attribute
		AttributeGroupID uint64 `gorm:"column:attribute_group_id"`
	}

	var rows []mappedAttribute
	if err := r.db.WithContext(ctx).
		Table("attributes").
		Select("attributes.*, attribute_group_mappings.attribute_group_id").
		Joins("join attribute_group_mappings on attribute_group_mappings.attribute_id = attributes.id").
		Where("attribute_group_mappings.attribute_group_id IN ?", groupIDs).
		Order("attribute_group_mappings.attribute_group_id asc, attribute_group_mappings.position asc, attributes.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.AttributeGroupID] = append(result[row.AttributeGroupID], row.Attribute)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, family *familydomain.AttributeFamily) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(family).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return familydomain.ErrCodeTaken
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, family *familydomain.AttributeFamily) error {
	err := r.db.WithContext(ctx).
		Model(&familydomain.AttributeFamily{}).
		Where("id = ?", family.ID).
		Updates(map[string]any{
			"code":            family.Code,
			"name":            family.Name,
			"status":          family.Status,
			"is_user_defined": family.IsUserDefined,
			"extra":           family.Extra,
		}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return familydomain.ErrCodeTaken
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&familydomain.AttributeFamily{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrFamilyNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.AttributeFamily{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountProducts(ctx context.Context, familyID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("products").Where("attribute_family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string, excludeID uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&familydomain.AttributeFamily{}).Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context, familyID uint64) ([]familydomain.AttributeGroup, error) {
	var groups []familydomain.AttributeGroup
	if err := r.db.WithContext(ctx).
		Where("attribute_family_id = ?", familyID).
		Order("position asc, id asc").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, group *familydomain.AttributeGroup) error {
	return r.db.WithContext(ctx).
		Model(&familydomain.AttributeGroup{}).
		Where("id = ? AND attribute_family_id = ?", group.ID, group.AttributeFamilyID).
		Updates(map[string]any{
			"name":            group.Name,
			"position":        group.Position,
			"is_user_defined": group.IsUserDefined,
		}).Error
}

func (r *PostgresRepository) DeleteGroups(ctx context.Context, familyID uint64, groupIDs []uint64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("attribute_family_id = ? AND id IN ?", familyID, groupIDs).
		Delete(&familydomain.AttributeGroup{}).Error
}

func (r *PostgresRepository) ReplaceGroupAttributes(ctx context.Context, groupID uint64, attributeIDs []uint64) error {
	if err := r.db.WithContext(ctx).
		Where("attribute_group_id = ?", groupID).
		Delete(&familydomain.AttributeGroupMapping{}).Error; err != nil {
		return err
	}
	if len(attributeIDs) == 0 {
		return nil
	}

	mappings := make([]familydomain.AttributeGroupMapping, 0, len(attributeIDs))
	for i, attributeID := range attributeIDs {
		mappings = append(mappings, familydomain.AttributeGroupMapping{
			AttributeGroupID: groupID,
			AttributeID:      attributeID,
			Position:         i + 1,
		})
	}
	return r.db.WithContext(ctx).Create(&mappings).Error
}
