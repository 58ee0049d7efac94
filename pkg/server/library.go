package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/model"
	"wineraise.dev/WineRaise/pkg/repository"
)

type wineResolver interface {
	GetWinesByIDs(ctx context.Context, wineIDs []uint) ([]model.Wine, error)
}

type LibraryServer struct {
	libraryRepository repository.LibraryRepository
	wineRepository    wineResolver
	logger            *zap.Logger
}

func NewLibraryServer(libraryRepo repository.LibraryRepository, wineRepo wineResolver, logger *zap.Logger) *LibraryServer {
	return &LibraryServer{libraryRepository: libraryRepo, wineRepository: wineRepo, logger: logger}
}

type libraryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
	Wines       *[]uint `json:"wines"`
}

// List returns the libraries the requester may see: their own plus
// public ones, or only their own when only_mine is set.
func (l *LibraryServer) List(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	onlyMine := boolParam(request, "only_mine")

	libraries, err := l.libraryRepository.GetVisibleLibraries(request.Context(), *user, onlyMine)
	if err != nil {
		l.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, LibrariesFromModel(libraries))
}

func (l *LibraryServer) Create(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	var body libraryRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Name == nil || *body.Name == "" {
		errs.Add("name", requiredMessage)
	}

	library := model.Library{UserID: user.ID}

	if body.Wines != nil {
		wines, err := l.resolveWines(request.Context(), *body.Wines, errs)
		if err != nil {
			l.serverError(writer, err)

			return
		}

		library.Wines = wines
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	library.Name = *body.Name
	library.Description = body.Description

	if body.Public != nil {
		library.Public = *body.Public
	}

	created, err := l.libraryRepository.AddLibrary(request.Context(), library)
	if err != nil {
		l.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusCreated, LibraryFromModel(created))
}

func (l *LibraryServer) Get(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	library, ok := l.loadLibrary(writer, request)
	if !ok {
		return
	}

	// Private libraries of other users read as absent, not forbidden.
	if !library.VisibleTo(user.ID) {
		respondNotFound(writer)

		return
	}

	respondJSON(writer, http.StatusOK, LibraryFromModel(library))
}

func (l *LibraryServer) Update(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	library, ok := l.loadLibrary(writer, request)
	if !ok {
		return
	}

	if !library.VisibleTo(user.ID) {
		respondNotFound(writer)

		return
	}

	if library.UserID != user.ID {
		respondForbidden(writer)

		return
	}

	var body libraryRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Name != nil && *body.Name == "" {
		errs.Add("name", requiredMessage)
	}

	var wines []model.Wine

	if body.Wines != nil {
		var err error

		wines, err = l.resolveWines(request.Context(), *body.Wines, errs)
		if err != nil {
			l.serverError(writer, err)

			return
		}
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	if body.Name != nil {
		library.Name = *body.Name
	}

	if body.Description != nil {
		library.Description = body.Description
	}

	if body.Public != nil {
		library.Public = *body.Public
	}

	var winesUpdate *[]model.Wine

	if body.Wines != nil {
		winesUpdate = &wines
	}

	if _, err := l.libraryRepository.UpdateLibrary(request.Context(), library, winesUpdate); err != nil {
		l.serverError(writer, err)

		return
	}

	full, err := l.libraryRepository.GetLibraryByID(request.Context(), library.ID)
	if err != nil {
		l.logger.Error("error loading library after update", zap.Uint("id", library.ID), zap.Error(err))
		full = library
	}

	respondJSON(writer, http.StatusOK, LibraryFromModel(full))
}

func (l *LibraryServer) Delete(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	library, ok := l.loadLibrary(writer, request)
	if !ok {
		return
	}

	if !library.VisibleTo(user.ID) {
		respondNotFound(writer)

		return
	}

	if library.UserID != user.ID {
		respondForbidden(writer)

		return
	}

	if err := l.libraryRepository.DeleteLibrary(request.Context(), library.ID); err != nil {
		l.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusNoContent, nil)
}

func (l *LibraryServer) loadLibrary(writer http.ResponseWriter, request *http.Request) (*model.Library, bool) {
	libraryID, err := idParam(request)
	if err != nil {
		respondNotFound(writer)

		return nil, false
	}

	library, err := l.libraryRepository.GetLibraryByID(request.Context(), libraryID)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			respondNotFound(writer)
		} else {
			l.serverError(writer, err)
		}

		return nil, false
	}

	return library, true
}

func (l *LibraryServer) resolveWines(ctx context.Context, wineIDs []uint, errs ValidationErrors) ([]model.Wine, error) {
	wines, err := l.wineRepository.GetWinesByIDs(ctx, wineIDs)
	if err != nil {
		return nil, err
	}

	if len(wines) != len(wineIDs) {
		errs.Add("wines", invalidPkMessage(wineIDs, wineModelIDs(wines)))
	}

	return wines, nil
}

func (l *LibraryServer) serverError(writer http.ResponseWriter, err error) {
	l.logger.Error("library request failed", zap.Error(err))
	respondDetail(writer, http.StatusInternalServerError, "Internal server error.")
}

func wineModelIDs(wines []model.Wine) map[uint]struct{} {
	ids := make(map[uint]struct{}, len(wines))

	for _, wine := range wines {
		ids[wine.ID] = struct{}{}
	}

	return ids
}
