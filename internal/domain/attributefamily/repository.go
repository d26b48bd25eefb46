package attributefamily

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context) ([]AttributeFamily, error)
	GetByID(ctx context.Context, id uint64) (*AttributeFamily, error)
	GetWithGroups(ctx context.Context, id uint64) (*AttributeFamily, error)
	Create(ctx context.Context, family *AttributeFamily) error
	Update(ctx context.Context, family *AttributeFamily) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context, familyID uint64) (int64, error)
	IsCodeTaken(ctx context.Context, code string, excludeID uint64) (bool, error)
	ListGroups(ctx context.Context, familyID uint64) ([]AttributeGroup, error)
	CreateGroup(ctx context.Context, group *AttributeGroup) error
	UpdateGroup(ctx context.Context, group *AttributeGroup) error
	DeleteGroups(ctx context.Context, familyID uint64, groupIDs []uint64) error
	ReplaceGroupAttributes(ctx context.Context, groupID uint64, attributeIDs []uint64) error
}
