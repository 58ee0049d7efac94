package server_test

import (
	"context"
	"net/http"

	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/model"
	"wineraise.dev/WineRaise/pkg/repository"
)

// withUser injects an authenticated user the way auth.Manager's
// middleware would.
func withUser(user *model.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := context.WithValue(request.Context(), auth.UserKey{}, user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

type fakeWineRepo struct {
	wines         map[uint]*model.Wine
	searchResults []*model.Wine
	lastFilter    *repository.WineFilter
	added         []model.Wine
	updated       []*model.Wine
	deleted       []uint
	reviews       []model.Review
	libraryLinks  [][]model.Library
	tagLinks      [][]model.Tag
	nextID        uint
	err           error
}

func newFakeWineRepo() *fakeWineRepo {
	return &fakeWineRepo{wines: map[uint]*model.Wine{}, nextID: 1}
}

func (f *fakeWineRepo) put(wine *model.Wine) *model.Wine {
	if wine.ID == 0 {
		wine.ID = f.nextID
		f.nextID++
	} else if wine.ID >= f.nextID {
		f.nextID = wine.ID + 1
	}

	f.wines[wine.ID] = wine

	return wine
}

func (f *fakeWineRepo) AddWine(_ context.Context, wine model.Wine) (*model.Wine, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.added = append(f.added, wine)

	return f.put(&wine), nil
}

func (f *fakeWineRepo) GetWineByID(_ context.Context, wineID uint) (*model.Wine, error) {
	wine, found := f.wines[wineID]
	if !found {
		return nil, repository.ErrWineNotFound
	}

	copied := *wine

	return &copied, nil
}

func (f *fakeWineRepo) GetWinesByIDs(_ context.Context, wineIDs []uint) ([]model.Wine, error) {
	var wines []model.Wine

	for _, id := range wineIDs {
		if wine, found := f.wines[id]; found {
			wines = append(wines, *wine)
		}
	}

	return wines, nil
}

func (f *fakeWineRepo) SearchWines(_ context.Context, filter *repository.WineFilter) ([]*model.Wine, error) {
	f.lastFilter = filter

	return f.searchResults, f.err
}

func (f *fakeWineRepo) UpdateWine(_ context.Context, wine *model.Wine, tags *[]model.Tag, libraries *[]model.Library) (*model.Wine, error) {
	if f.err != nil {
		return nil, f.err
	}

	if tags != nil {
		f.tagLinks = append(f.tagLinks, *tags)
		wine.Tags = *tags
	}

	if libraries != nil {
		f.libraryLinks = append(f.libraryLinks, *libraries)
		wine.Libraries = *libraries
	}

	f.updated = append(f.updated, wine)
	copied := *wine
	f.wines[wine.ID] = &copied

	return wine, nil
}

func (f *fakeWineRepo) DeleteWine(_ context.Context, wineID uint) error {
	f.deleted = append(f.deleted, wineID)
	delete(f.wines, wineID)

	return f.err
}

func (f *fakeWineRepo) AddReview(_ context.Context, review model.Review) (*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}

	review.ID = uint(len(f.reviews) + 1)
	f.reviews = append(f.reviews, review)

	return &review, nil
}

type fakeLibraryRepo struct {
	libraries    map[uint]*model.Library
	visible      []*model.Library
	lastViewer   uint
	lastOnlyMine bool
	added        []model.Library
	updated      []*model.Library
	deleted      []uint
	wineLinks    [][]model.Wine
	nextID       uint
	err          error
}

func newFakeLibraryRepo() *fakeLibraryRepo {
	return &fakeLibraryRepo{libraries: map[uint]*model.Library{}, nextID: 1}
}

func (f *fakeLibraryRepo) put(library *model.Library) *model.Library {
	if library.ID == 0 {
		library.ID = f.nextID
		f.nextID++
	} else if library.ID >= f.nextID {
		f.nextID = library.ID + 1
	}

	f.libraries[library.ID] = library

	return library
}

func (f *fakeLibraryRepo) AddLibrary(_ context.Context, library model.Library) (*model.Library, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.added = append(f.added, library)

	return f.put(&library), nil
}

func (f *fakeLibraryRepo) GetLibraryByID(_ context.Context, libraryID uint) (*model.Library, error) {
	library, found := f.libraries[libraryID]
	if !found {
		return nil, repository.ErrLibraryNotFound
	}

	copied := *library

	return &copied, nil
}

func (f *fakeLibraryRepo) GetLibrariesByIDs(_ context.Context, libraryIDs []uint) ([]model.Library, error) {
	var libraries []model.Library

	for _, id := range libraryIDs {
		if library, found := f.libraries[id]; found {
			libraries = append(libraries, *library)
		}
	}

	return libraries, f.err
}

func (f *fakeLibraryRepo) GetVisibleLibraries(_ context.Context, viewer model.User, onlyMine bool) ([]*model.Library, error) {
	f.lastViewer = viewer.ID
	f.lastOnlyMine = onlyMine

	return f.visible, f.err
}

func (f *fakeLibraryRepo) UpdateLibrary(_ context.Context, library *model.Library, wines *[]model.Wine) (*model.Library, error) {
	if f.err != nil {
		return nil, f.err
	}

	if wines != nil {
		f.wineLinks = append(f.wineLinks, *wines)
		library.Wines = *wines
	}

	f.updated = append(f.updated, library)
	copied := *library
	f.libraries[library.ID] = &copied

	return library, nil
}

func (f *fakeLibraryRepo) DeleteLibrary(_ context.Context, libraryID uint) error {
	f.deleted = append(f.deleted, libraryID)
	delete(f.libraries, libraryID)

	return f.err
}

type fakeTagRepo struct {
	tags             map[uint]*model.Tag
	listed           []*model.Tag
	lastAssignedOnly bool
	added            []model.Tag
	nextID           uint
	err              error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: map[uint]*model.Tag{}, nextID: 1}
}

func (f *fakeTagRepo) AddTag(_ context.Context, tag model.Tag) (*model.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.added = append(f.added, tag)
	tag.ID = f.nextID
	f.nextID++
	f.tags[tag.ID] = &tag

	return &tag, nil
}

func (f *fakeTagRepo) GetTagByID(_ context.Context, tagID uint) (*model.Tag, error) {
	tag, found := f.tags[tagID]
	if !found {
		return nil, repository.ErrTagNotFound
	}

	return tag, nil
}

func (f *fakeTagRepo) GetTagsByIDs(_ context.Context, tagIDs []uint) ([]model.Tag, error) {
	var tags []model.Tag

	for _, id := range tagIDs {
		if tag, found := f.tags[id]; found {
			tags = append(tags, *tag)
		}
	}

	return tags, f.err
}

func (f *fakeTagRepo) GetTags(_ context.Context, assignedOnly bool) ([]*model.Tag, error) {
	f.lastAssignedOnly = assignedOnly

	return f.listed, f.err
}

type fakeUserStore struct {
	added   []model.User
	updated []*model.User
	err     error
}

func (f *fakeUserStore) AddUser(_ context.Context, user model.User) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.added = append(f.added, user)
	user.ID = uint(len(f.added))

	return &user, nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.updated = append(f.updated, user)

	return user, nil
}

type fakeCredentialStore struct {
	user *model.User
}

func (f *fakeCredentialStore) GetUserFromEmail(_ context.Context, email string) (*model.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, repository.ErrUserNotFound
	}

	return f.user, nil
}
