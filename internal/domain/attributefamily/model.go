package attributefamily

import (
	"time"

	"catalog-admin-go/internal/domain/attribute"
	"gorm.io/datatypes"
)

type AttributeFamily struct {
	ID            uint64            `gorm:"primaryKey"`
	Code          string            `gorm:"size:191;not null;uniqueIndex"`
	Name          string            `gorm:"not null"`
	Status        bool              `gorm:"not null"`
	IsUserDefined bool              `gorm:"not null"`
	Extra         datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime"`

	AttributeGroups []AttributeGroup `gorm:"foreignKey:AttributeFamilyID;constraint:OnDelete:CASCADE"`
}

type AttributeGroup struct {
	ID                uint64 `gorm:"primaryKey"`
	AttributeFamilyID uint64 `gorm:"not null;index"`
	Name              string `gorm:"not null"`
	Position          int    `gorm:"not null"`
	IsUserDefined     bool   `gorm:"not null"`

	CustomAttributes []attribute.Attribute `gorm:"-"`
}

type AttributeGroupMapping struct {
	AttributeGroupID uint64 `gorm:"primaryKey"`
	AttributeID      uint64 `gorm:"primaryKey"`
	Position         int    `gorm:"not null"`
}

func (AttributeGroupMapping) TableName() string {
	return "attribute_group_mappings"
}

// Detail is a family with its groups plus every attribute available for assignment.
type Detail struct {
	Family           *AttributeFamily
	CustomAttributes []attribute.Summary
}

type BulkFailure struct {
	ID  uint64
	Err error
}

type BulkResult struct {
	Deleted []uint64
	Failed  []BulkFailure
}

func (r BulkResult) Partial() bool {
	return len(r.Failed) > 0
}

func (r BulkResult) FailedIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Failed))
	for _, failure := range r.Failed {
		ids = append(ids, failure.ID)
	}
	return ids
}
