package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wineraise.dev/WineRaise/pkg/model"
)

var ErrWineNotFound = errors.New("wine not found")

// WineFilter enumerates the recognized wine search criteria. Absent
// fields impose no constraint; present fields combine with AND.
type WineFilter struct {
	Name        *string
	Description *string
	Designation *string
	Variety     *string
	Region1     *string
	Region2     *string
	Province    *string
	Country     *string
	Winery      *string

	Price    *decimal.Decimal
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	MinPointAverage *decimal.Decimal
	MaxPointAverage *decimal.Decimal
}

type WineRepository interface {
	AddWine(ctx context.Context, wine model.Wine) (*model.Wine, error)
	GetWineByID(ctx context.Context, wineID uint) (*model.Wine, error)
	GetWinesByIDs(ctx context.Context, wineIDs []uint) ([]model.Wine, error)
	SearchWines(ctx context.Context, filter *WineFilter) ([]*model.Wine, error)
	UpdateWine(ctx context.Context, wine *model.Wine, tags *[]model.Tag, libraries *[]model.Library) (*model.Wine, error)
	DeleteWine(ctx context.Context, wineID uint) error
	AddReview(ctx context.Context, review model.Review) (*model.Review, error)
}

// pointAverageExpr derives the review mean per wine in SQL so that the
// same aggregate serves both display and range filtering.
const pointAverageExpr = "(SELECT COALESCE(AVG(points), 0) FROM reviews WHERE reviews.wine_id = wines.id AND reviews.deleted_at IS NULL)"

func (r *Repository) AddWine(ctx context.Context, wine model.Wine) (*model.Wine, error) {
	if result := r.DB.WithContext(ctx).Create(&wine); result.Error != nil {
		return nil, result.Error
	}

	return &wine, nil
}

func (r *Repository) GetWineByID(ctx context.Context, wineID uint) (*model.Wine, error) {
	var wine model.Wine

	result := r.DB.WithContext(ctx).
		Select("wines.*, " + pointAverageExpr + " AS point_average").
		Preload("Tags").
		Preload("Libraries").
		Preload("Reviews").
		First(&wine, wineID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrWineNotFound
		}

		return nil, result.Error
	}

	return &wine, nil
}

func (r *Repository) GetWinesByIDs(ctx context.Context, wineIDs []uint) ([]model.Wine, error) {
	var wines []model.Wine

	if result := r.DB.WithContext(ctx).Where("wines.id IN (?)", wineIDs).Find(&wines); result.Error != nil {
		return nil, result.Error
	}

	return wines, nil
}

func (r *Repository) SearchWines(ctx context.Context, filter *WineFilter) ([]*model.Wine, error) {
	var wines []*model.Wine

	query := r.DB.WithContext(ctx).
		Select("wines.*, " + pointAverageExpr + " AS point_average").
		Preload("Tags").
		Preload("Libraries").
		Preload("Reviews").
		Order("wines.id")

	if filter != nil {
		updateQueryWithCriteria(filter, query)
	}

	if result := query.Find(&wines); result.Error != nil {
		return nil, result.Error
	}

	return wines, nil
}

//nolint:cyclop // this is as simple as it can be given the number of criteria
func updateQueryWithCriteria(filter *WineFilter, query *gorm.DB) {
	if filter.Name != nil {
		query.Where("wines.name = ?", *filter.Name)
	}

	if filter.Description != nil {
		query.Where("wines.description = ?", *filter.Description)
	}

	if filter.Designation != nil {
		query.Where("wines.designation = ?", *filter.Designation)
	}

	if filter.Variety != nil {
		query.Where("wines.variety = ?", *filter.Variety)
	}

	if filter.Region1 != nil {
		query.Where("wines.region_1 = ?", *filter.Region1)
	}

	if filter.Region2 != nil {
		query.Where("wines.region_2 = ?", *filter.Region2)
	}

	if filter.Province != nil {
		query.Where("wines.province = ?", *filter.Province)
	}

	if filter.Country != nil {
		query.Where("wines.country = ?", *filter.Country)
	}

	if filter.Winery != nil {
		query.Where("wines.winery = ?", *filter.Winery)
	}

	if filter.Price != nil {
		query.Where("wines.price = ?", *filter.Price)
	}

	if filter.MinPrice != nil {
		query.Where("wines.price >= ?", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		query.Where("wines.price <= ?", *filter.MaxPrice)
	}

	if filter.MinPointAverage != nil {
		query.Where(pointAverageExpr+" >= ?", *filter.MinPointAverage)
	}

	if filter.MaxPointAverage != nil {
		query.Where(pointAverageExpr+" <= ?", *filter.MaxPointAverage)
	}
}

// UpdateWine saves the wine's scalar columns and, when a tag or
// library set is given, rewrites that join table to exactly the given
// set. Everything runs in a single transaction so a failed rewrite
// leaves the previous membership intact.
func (r *Repository) UpdateWine(ctx context.Context, wine *model.Wine, tags *[]model.Tag, libraries *[]model.Library) (*model.Wine, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tags != nil {
			if err := tx.Exec("DELETE FROM wine_tags WHERE wine_id = ?", wine.ID).Error; err != nil {
				return err
			}

			for _, tag := range *tags {
				if err := tx.Exec("INSERT INTO wine_tags (wine_id, tag_id) VALUES (?, ?)", wine.ID, tag.ID).Error; err != nil {
					return err
				}
			}

			wine.Tags = *tags
		}

		if libraries != nil {
			if err := tx.Exec("DELETE FROM wine_libraries WHERE wine_id = ?", wine.ID).Error; err != nil {
				return err
			}

			for _, library := range *libraries {
				if err := tx.Exec("INSERT INTO wine_libraries (wine_id, library_id) VALUES (?, ?)", wine.ID, library.ID).Error; err != nil {
					return err
				}
			}

			wine.Libraries = *libraries
		}

		return tx.Omit(clause.Associations).Save(wine).Error
	})
	if err != nil {
		return nil, err
	}

	return wine, nil
}

// DeleteWine removes a wine together with its reviews and its tag and
// library links, all within one transaction.
func (r *Repository) DeleteWine(ctx context.Context, wineID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wine_id = ?", wineID).Delete(&model.Review{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM wine_tags WHERE wine_id = ?", wineID).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM wine_libraries WHERE wine_id = ?", wineID).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Wine{}, wineID).Error
	})
}

func (r *Repository) AddReview(ctx context.Context, review model.Review) (*model.Review, error) {
	if result := r.DB.WithContext(ctx).Create(&review); result.Error != nil {
		return nil, result.Error
	}

	return &review, nil
}
