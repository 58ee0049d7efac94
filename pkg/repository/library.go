package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wineraise.dev/WineRaise/pkg/model"
)

var ErrLibraryNotFound = errors.New("library not found")

type LibraryRepository interface {
	AddLibrary(ctx context.Context, library model.Library) (*model.Library, error)
	GetLibraryByID(ctx context.Context, libraryID uint) (*model.Library, error)
	GetLibrariesByIDs(ctx context.Context, libraryIDs []uint) ([]model.Library, error)
	GetVisibleLibraries(ctx context.Context, viewer model.User, onlyMine bool) ([]*model.Library, error)
	UpdateLibrary(ctx context.Context, library *model.Library, wines *[]model.Wine) (*model.Library, error)
	DeleteLibrary(ctx context.Context, libraryID uint) error
}

func (r *Repository) AddLibrary(ctx context.Context, library model.Library) (*model.Library, error) {
	if result := r.DB.WithContext(ctx).Create(&library); result.Error != nil {
		return nil, result.Error
	}

	return &library, nil
}

func (r *Repository) GetLibraryByID(ctx context.Context, libraryID uint) (*model.Library, error) {
	var library model.Library

	result := r.DB.WithContext(ctx).
		Preload("Wines").
		First(&library, libraryID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLibraryNotFound
		}

		return nil, result.Error
	}

	return &library, nil
}

func (r *Repository) GetLibrariesByIDs(ctx context.Context, libraryIDs []uint) ([]model.Library, error) {
	var libraries []model.Library

	if result := r.DB.WithContext(ctx).Where("libraries.id IN (?)", libraryIDs).Find(&libraries); result.Error != nil {
		return nil, result.Error
	}

	return libraries, nil
}

// GetVisibleLibraries returns the viewer's own libraries, or the union
// of those and every public library when onlyMine is false. Creation
// order, no duplicates.
func (r *Repository) GetVisibleLibraries(ctx context.Context, viewer model.User, onlyMine bool) ([]*model.Library, error) {
	var libraries []*model.Library

	query := r.DB.WithContext(ctx).
		Preload("Wines").
		Order("libraries.id")

	if onlyMine {
		query = query.Where("user_id = ?", viewer.ID)
	} else {
		query = query.Where("user_id = ? OR public = true", viewer.ID)
	}

	result := query.Find(&libraries)
	if result.Error != nil {
		r.Logger.Error("error getting libraries for user", zap.Uint("user_id", viewer.ID), zap.Error(result.Error))

		return nil, result.Error
	}

	return libraries, nil
}

// UpdateLibrary saves the library's scalar columns and, when a wine
// set is given, rewrites the membership join table to exactly that
// set, all in one transaction.
func (r *Repository) UpdateLibrary(ctx context.Context, library *model.Library, wines *[]model.Wine) (*model.Library, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if wines != nil {
			if err := tx.Exec("DELETE FROM wine_libraries WHERE library_id = ?", library.ID).Error; err != nil {
				return err
			}

			for _, wine := range *wines {
				if err := tx.Exec("INSERT INTO wine_libraries (wine_id, library_id) VALUES (?, ?)", wine.ID, library.ID).Error; err != nil {
					return err
				}
			}

			library.Wines = *wines
		}

		return tx.Omit(clause.Associations).Save(library).Error
	})
	if err != nil {
		return nil, err
	}

	return library, nil
}

// DeleteLibrary drops the library and its wine links in one transaction.
func (r *Repository) DeleteLibrary(ctx context.Context, libraryID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM wine_libraries WHERE library_id = ?", libraryID).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Library{}, libraryID).Error
	})
}
