package attribute

import (
	"context"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListSummaries(ctx context.Context) ([]attributedomain.Summary, error) {
	var summaries []attributedomain.Summary
	if err := r.db.WithContext(ctx).
		Model(&attributedomain.Attribute{}).
		Select("id", "code", "admin_name", "type").
		Order("id asc").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []uint64) ([]attributedomain.Attribute, error) {
	var attributes []attributedomain.Attribute
	if len(ids) == 0 {
		return attributes, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

func (r *PostgresRepository) FindByCodes(ctx context.Context, codes []string) ([]attributedomain.Attribute, error) {
	var attributes []attributedomain.Attribute
	if len(codes) == 0 {
		return attributes, nil
	}
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Order("id asc").Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}
