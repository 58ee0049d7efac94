package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wineraise.dev/WineRaise/configs"
	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/integrations"
	"wineraise.dev/WineRaise/pkg/model"
	"wineraise.dev/WineRaise/pkg/repository"
)

const (
	requiredMessage   = "This field is required."
	badNumberMessage  = "A valid number is required."
	cannotAddLibrary  = "Can not add library."
	duplicateWineName = "wine with this name already exists."
)

type libraryResolver interface {
	GetLibrariesByIDs(ctx context.Context, libraryIDs []uint) ([]model.Library, error)
}

type tagResolver interface {
	GetTagsByIDs(ctx context.Context, tagIDs []uint) ([]model.Tag, error)
}

type WineServer struct {
	wineRepository    repository.WineRepository
	libraryRepository libraryResolver
	tagRepository     tagResolver
	logger            *zap.Logger
	config            *configs.Config
}

func NewWineServer(wineRepo repository.WineRepository, libraryRepo libraryResolver, tagRepo tagResolver, logger *zap.Logger, config *configs.Config) *WineServer {
	return &WineServer{wineRepository: wineRepo, libraryRepository: libraryRepo, tagRepository: tagRepo, logger: logger, config: config}
}

type wineRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Designation *string          `json:"designation"`
	Variety     *string          `json:"variety"`
	Region1     *string          `json:"region_1"`
	Region2     *string          `json:"region_2"`
	Province    *string          `json:"province"`
	Country     *string          `json:"country"`
	Winery      *string          `json:"winery"`
	Libraries   *[]uint          `json:"libraries"`
	Tags        *[]uint          `json:"tags"`
}

func (w *WineServer) Create(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	var body wineRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Name == nil || *body.Name == "" {
		errs.Add("name", requiredMessage)
	}

	validatePrice(body.Price, errs)

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	wine := model.Wine{
		Name:        *body.Name,
		Description: body.Description,
		Price:       body.Price,
		Designation: body.Designation,
		Variety:     body.Variety,
		Region1:     body.Region1,
		Region2:     body.Region2,
		Province:    body.Province,
		Country:     body.Country,
		Winery:      body.Winery,
		UserID:      user.ID,
	}

	if body.Tags != nil {
		tags, err := w.resolveTags(request.Context(), *body.Tags, errs)
		if err != nil {
			w.serverError(writer, err)

			return
		}

		wine.Tags = tags
	}

	if body.Libraries != nil {
		// At creation the requester is the owner, so the same-owner
		// guard reduces to checking against the acting user.
		libraries, err := w.resolveLibraries(request.Context(), *body.Libraries, user.ID, errs)
		if err != nil {
			w.serverError(writer, err)

			return
		}

		wine.Libraries = libraries
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	created, err := w.wineRepository.AddWine(request.Context(), wine)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("name", duplicateWineName)
			respondValidationErrors(writer, errs)

			return
		}

		w.serverError(writer, err)

		return
	}

	full, err := w.wineRepository.GetWineByID(request.Context(), created.ID)
	if err != nil {
		w.logger.Error("error loading wine after saving", zap.Uint("id", created.ID), zap.Error(err))
		full = created
	}

	respondJSON(writer, http.StatusCreated, WineFromModel(full))
}

func (w *WineServer) List(writer http.ResponseWriter, request *http.Request) {
	filter, errs := wineFilterFromQuery(request)
	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	wines, err := w.wineRepository.SearchWines(request.Context(), filter)
	if err != nil {
		w.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, WinesFromModel(wines))
}

func (w *WineServer) Get(writer http.ResponseWriter, request *http.Request) {
	wine, ok := w.loadWine(writer, request)
	if !ok {
		return
	}

	respondJSON(writer, http.StatusOK, WineDetailFromModel(wine))
}

func (w *WineServer) Update(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	wine, ok := w.loadWine(writer, request)
	if !ok {
		return
	}

	if !user.CanModify(wine.UserID) {
		respondForbidden(writer)

		return
	}

	var body wineRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Name != nil && *body.Name == "" {
		errs.Add("name", requiredMessage)
	}

	validatePrice(body.Price, errs)

	var (
		tags      []model.Tag
		libraries []model.Library
		err       error
	)

	if body.Tags != nil {
		tags, err = w.resolveTags(request.Context(), *body.Tags, errs)
		if err != nil {
			w.serverError(writer, err)

			return
		}
	}

	if body.Libraries != nil {
		// The guard compares candidate owners to the wine's owner, not
		// the requester; staff edits do not relax it.
		libraries, err = w.resolveLibraries(request.Context(), *body.Libraries, wine.UserID, errs)
		if err != nil {
			w.serverError(writer, err)

			return
		}
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	applyWineUpdates(wine, &body)

	var (
		tagsUpdate      *[]model.Tag
		librariesUpdate *[]model.Library
	)

	if body.Tags != nil {
		tagsUpdate = &tags
	}

	if body.Libraries != nil {
		librariesUpdate = &libraries
	}

	if _, err := w.wineRepository.UpdateWine(request.Context(), wine, tagsUpdate, librariesUpdate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("name", duplicateWineName)
			respondValidationErrors(writer, errs)

			return
		}

		w.serverError(writer, err)

		return
	}

	full, err := w.wineRepository.GetWineByID(request.Context(), wine.ID)
	if err != nil {
		w.logger.Error("error loading wine after update", zap.Uint("id", wine.ID), zap.Error(err))
		full = wine
	}

	respondJSON(writer, http.StatusOK, WineFromModel(full))
}

func (w *WineServer) Delete(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	wine, ok := w.loadWine(writer, request)
	if !ok {
		return
	}

	if !user.CanModify(wine.UserID) {
		respondForbidden(writer)

		return
	}

	if err := w.wineRepository.DeleteWine(request.Context(), wine.ID); err != nil {
		w.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusNoContent, nil)
}

// Points is signed so an out-of-range negative value reaches
// validation instead of failing the decode.
type reviewRequest struct {
	Points  *int    `json:"points"`
	Comment *string `json:"comment"`
}

func (w *WineServer) AddReview(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	wine, ok := w.loadWine(writer, request)
	if !ok {
		return
	}

	var body reviewRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	switch {
	case body.Points == nil:
		errs.Add("points", requiredMessage)
	case *body.Points < model.MinPoints:
		errs.Add("points", fmt.Sprintf("Ensure this value is greater than or equal to %d.", model.MinPoints))
	case *body.Points > model.MaxPoints:
		errs.Add("points", fmt.Sprintf("Ensure this value is less than or equal to %d.", model.MaxPoints))
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	review := model.Review{
		WineID:  wine.ID,
		Points:  uint(*body.Points),
		Comment: body.Comment,
		UserID:  user.ID,
	}

	created, err := w.wineRepository.AddReview(request.Context(), review)
	if err != nil {
		w.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, ReviewFromModel(created))
}

// Find queries the configured external wine catalogues.
func (w *WineServer) Find(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("query")
	if query == "" {
		errs := ValidationErrors{}
		errs.Add("query", requiredMessage)
		respondValidationErrors(writer, errs)

		return
	}

	var found []FoundWineResponse

	for _, name := range w.config.Integrations.Wine {
		integration := integrations.GetIntegration(name, w.logger)
		if integration == nil {
			w.logger.Warn("unknown wine integration", zap.String("integration", name))

			continue
		}

		wines, err := integration.FindWine(query)
		if err != nil {
			w.logger.Error("failed wine search", zap.String("integration", name), zap.Error(err))

			continue
		}

		found = append(found, FoundWinesFromModel(wines, name)...)
	}

	if found == nil {
		found = []FoundWineResponse{}
	}

	respondJSON(writer, http.StatusOK, found)
}

func (w *WineServer) loadWine(writer http.ResponseWriter, request *http.Request) (*model.Wine, bool) {
	wineID, err := idParam(request)
	if err != nil {
		respondNotFound(writer)

		return nil, false
	}

	wine, err := w.wineRepository.GetWineByID(request.Context(), wineID)
	if err != nil {
		if errors.Is(err, repository.ErrWineNotFound) {
			respondNotFound(writer)
		} else {
			w.serverError(writer, err)
		}

		return nil, false
	}

	return wine, true
}

func (w *WineServer) resolveTags(ctx context.Context, tagIDs []uint, errs ValidationErrors) ([]model.Tag, error) {
	tags, err := w.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}

	if len(tags) != len(tagIDs) {
		errs.Add("tags", invalidPkMessage(tagIDs, tagModelIDs(tags)))
	}

	return tags, nil
}

// resolveLibraries loads the candidate libraries and rejects the whole
// batch when any of them belongs to a different user than ownerID.
func (w *WineServer) resolveLibraries(ctx context.Context, libraryIDs []uint, ownerID uint, errs ValidationErrors) ([]model.Library, error) {
	libraries, err := w.libraryRepository.GetLibrariesByIDs(ctx, libraryIDs)
	if err != nil {
		return nil, err
	}

	if len(libraries) != len(libraryIDs) {
		errs.Add("libraries", invalidPkMessage(libraryIDs, libraryModelIDs(libraries)))

		return nil, nil
	}

	for _, library := range libraries {
		if library.UserID != ownerID {
			errs.Add("libraries", cannotAddLibrary)

			return nil, nil
		}
	}

	return libraries, nil
}

func (w *WineServer) serverError(writer http.ResponseWriter, err error) {
	w.logger.Error("wine request failed", zap.Error(err))
	respondDetail(writer, http.StatusInternalServerError, "Internal server error.")
}

func applyWineUpdates(wine *model.Wine, body *wineRequest) {
	if body.Name != nil {
		wine.Name = *body.Name
	}

	if body.Description != nil {
		wine.Description = body.Description
	}

	if body.Price != nil {
		wine.Price = body.Price
	}

	if body.Designation != nil {
		wine.Designation = body.Designation
	}

	if body.Variety != nil {
		wine.Variety = body.Variety
	}

	if body.Region1 != nil {
		wine.Region1 = body.Region1
	}

	if body.Region2 != nil {
		wine.Region2 = body.Region2
	}

	if body.Province != nil {
		wine.Province = body.Province
	}

	if body.Country != nil {
		wine.Country = body.Country
	}

	if body.Winery != nil {
		wine.Winery = body.Winery
	}
}

func validatePrice(price *decimal.Decimal, errs ValidationErrors) {
	if price == nil {
		return
	}

	if price.LessThan(model.MinPrice) {
		errs.Add("price", fmt.Sprintf("Ensure this value is greater than or equal to %s.", model.MinPrice))
	}

	if price.GreaterThan(model.MaxPrice) {
		errs.Add("price", fmt.Sprintf("Ensure this value is less than or equal to %s.", model.MaxPrice))
	}
}

func wineFilterFromQuery(request *http.Request) (*repository.WineFilter, ValidationErrors) {
	query := request.URL.Query()
	errs := ValidationErrors{}
	filter := repository.WineFilter{}

	stringFilters := []struct {
		key    string
		target **string
	}{
		{"name", &filter.Name},
		{"description", &filter.Description},
		{"designation", &filter.Designation},
		{"variety", &filter.Variety},
		{"region_1", &filter.Region1},
		{"region_2", &filter.Region2},
		{"province", &filter.Province},
		{"country", &filter.Country},
		{"winery", &filter.Winery},
	}

	for _, entry := range stringFilters {
		if query.Has(entry.key) {
			value := query.Get(entry.key)
			*entry.target = &value
		}
	}

	decimalFilters := []struct {
		key    string
		target **decimal.Decimal
	}{
		{"price", &filter.Price},
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
		{"min_point_average", &filter.MinPointAverage},
		{"max_point_average", &filter.MaxPointAverage},
	}

	for _, entry := range decimalFilters {
		if !query.Has(entry.key) {
			continue
		}

		value, err := decimal.NewFromString(query.Get(entry.key))
		if err != nil {
			errs.Add(entry.key, badNumberMessage)

			continue
		}

		*entry.target = &value
	}

	return &filter, errs
}

func invalidPkMessage(requested []uint, found map[uint]struct{}) string {
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
		}
	}

	return "Invalid pk - object does not exist."
}

func tagModelIDs(tags []model.Tag) map[uint]struct{} {
	ids := make(map[uint]struct{}, len(tags))

	for _, tag := range tags {
		ids[tag.ID] = struct{}{}
	}

	return ids
}

func libraryModelIDs(libraries []model.Library) map[uint]struct{} {
	ids := make(map[uint]struct{}, len(libraries))

	for _, library := range libraries {
		ids[library.ID] = struct{}{}
	}

	return ids
}
