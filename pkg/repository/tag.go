package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wineraise.dev/WineRaise/pkg/model"
)

var ErrTagNotFound = errors.New("tag not found")

type TagRepository interface {
	AddTag(ctx context.Context, tag model.Tag) (*model.Tag, error)
	GetTagByID(ctx context.Context, tagID uint) (*model.Tag, error)
	GetTagsByIDs(ctx context.Context, tagIDs []uint) ([]model.Tag, error)
	GetTags(ctx context.Context, assignedOnly bool) ([]*model.Tag, error)
}

func (r *Repository) AddTag(ctx context.Context, tag model.Tag) (*model.Tag, error) {
	if result := r.DB.WithContext(ctx).Create(&tag); result.Error != nil {
		return nil, result.Error
	}

	return &tag, nil
}

func (r *Repository) GetTagByID(ctx context.Context, tagID uint) (*model.Tag, error) {
	var tag model.Tag

	result := r.DB.WithContext(ctx).First(&tag, tagID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}

		return nil, result.Error
	}

	return &tag, nil
}

func (r *Repository) GetTagsByIDs(ctx context.Context, tagIDs []uint) ([]model.Tag, error) {
	var tags []model.Tag

	if result := r.DB.WithContext(ctx).Where("tags.id IN (?)", tagIDs).Find(&tags); result.Error != nil {
		return nil, result.Error
	}

	return tags, nil
}

// GetTags lists tags reverse-alphabetically. With assignedOnly only
// tags linked to at least one wine are returned.
func (r *Repository) GetTags(ctx context.Context, assignedOnly bool) ([]*model.Tag, error) {
	var tags []*model.Tag

	query := r.DB.WithContext(ctx).Order("tags.name desc")

	if assignedOnly {
		query = query.Where("tags.id IN (SELECT tag_id FROM wine_tags)")
	}

	if result := query.Find(&tags); result.Error != nil {
		return nil, result.Error
	}

	return tags, nil
}
