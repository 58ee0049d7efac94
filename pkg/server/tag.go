package server

import (
	"net/http"

	"go.uber.org/zap"

	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/model"
	"wineraise.dev/WineRaise/pkg/repository"
)

type TagServer struct {
	tagRepository repository.TagRepository
	logger        *zap.Logger
}

func NewTagServer(tagRepo repository.TagRepository, logger *zap.Logger) *TagServer {
	return &TagServer{tagRepository: tagRepo, logger: logger}
}

type tagRequest struct {
	Name *string `json:"name"`
}

func (t *TagServer) List(writer http.ResponseWriter, request *http.Request) {
	assignedOnly := boolParam(request, "assigned_only")

	tags, err := t.tagRepository.GetTags(request.Context(), assignedOnly)
	if err != nil {
		t.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, TagsFromModel(tags))
}

func (t *TagServer) Create(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	var body tagRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	if body.Name == nil || *body.Name == "" {
		errs := ValidationErrors{}
		errs.Add("name", requiredMessage)
		respondValidationErrors(writer, errs)

		return
	}

	tag := model.Tag{Name: *body.Name, UserID: user.ID}

	created, err := t.tagRepository.AddTag(request.Context(), tag)
	if err != nil {
		t.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusCreated, TagFromModel(created))
}

func (t *TagServer) serverError(writer http.ResponseWriter, err error) {
	t.logger.Error("tag request failed", zap.Error(err))
	respondDetail(writer, http.StatusInternalServerError, "Internal server error.")
}
