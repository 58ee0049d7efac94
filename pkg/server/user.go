package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/model"
)

const duplicateEmail = "user with this email already exists."

type userStore interface {
	AddUser(ctx context.Context, user model.User) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
}

type UserServer struct {
	userRepository userStore
	authManager    *auth.Manager
	logger         *zap.Logger
}

func NewUserServer(userRepo userStore, authManager *auth.Manager, logger *zap.Logger) *UserServer {
	return &UserServer{userRepository: userRepo, authManager: authManager, logger: logger}
}

type userRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Create registers a new user. This is the only unauthenticated write
// endpoint.
func (u *UserServer) Create(writer http.ResponseWriter, request *http.Request) {
	var body userRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Email == nil || *body.Email == "" {
		errs.Add("email", requiredMessage)
	}

	if body.Password == nil {
		errs.Add("password", requiredMessage)
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	hash, err := auth.HashPassword(*body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			errs.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", auth.MinPasswordLength))
			respondValidationErrors(writer, errs)

			return
		}

		u.serverError(writer, err)

		return
	}

	user := model.User{
		Email:        *body.Email,
		PasswordHash: hash,
		Active:       true,
	}

	if body.Name != nil {
		user.Name = *body.Name
	}

	created, err := u.userRepository.AddUser(request.Context(), user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("email", duplicateEmail)
			respondValidationErrors(writer, errs)

			return
		}

		u.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusCreated, UserFromModel(created))
}

// Token exchanges email+password for an access/refresh token pair.
func (u *UserServer) Token(writer http.ResponseWriter, request *http.Request) {
	var body credentialsRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	user, err := u.authManager.Authenticate(request.Context(), body.Email, body.Password)
	if err != nil {
		errs := ValidationErrors{}
		errs.Add("non_field_errors", "Unable to log in with provided credentials.")
		respondValidationErrors(writer, errs)

		return
	}

	pair, err := u.authManager.IssueTokens(user)
	if err != nil {
		u.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, pair)
}

func (u *UserServer) TokenRefresh(writer http.ResponseWriter, request *http.Request) {
	var body refreshRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	if body.Refresh == "" {
		errs := ValidationErrors{}
		errs.Add("refresh", requiredMessage)
		respondValidationErrors(writer, errs)

		return
	}

	access, err := u.authManager.Refresh(request.Context(), body.Refresh)
	if err != nil {
		respondDetail(writer, http.StatusUnauthorized, "Token is invalid or expired")

		return
	}

	respondJSON(writer, http.StatusOK, map[string]string{"access": access})
}

func (u *UserServer) Me(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	respondJSON(writer, http.StatusOK, UserFromModel(user))
}

// UpdateMe patches the authenticated user's own profile. A new
// password is re-hashed before it is stored.
func (u *UserServer) UpdateMe(writer http.ResponseWriter, request *http.Request) {
	user, ok := auth.CurrentUser(request.Context())
	if !ok {
		respondDetail(writer, http.StatusUnauthorized, "Authentication credentials were not provided.")

		return
	}

	var body userRequest
	if err := decodeBody(request, &body); err != nil {
		respondDetail(writer, http.StatusBadRequest, "Malformed request body.")

		return
	}

	errs := ValidationErrors{}

	if body.Email != nil && *body.Email == "" {
		errs.Add("email", requiredMessage)
	}

	if body.Password != nil {
		hash, err := auth.HashPassword(*body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				errs.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", auth.MinPasswordLength))
			} else {
				u.serverError(writer, err)

				return
			}
		} else {
			user.PasswordHash = hash
		}
	}

	if !errs.Empty() {
		respondValidationErrors(writer, errs)

		return
	}

	if body.Email != nil {
		user.Email = *body.Email
	}

	if body.Name != nil {
		user.Name = *body.Name
	}

	updated, err := u.userRepository.UpdateUser(request.Context(), user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("email", duplicateEmail)
			respondValidationErrors(writer, errs)

			return
		}

		u.serverError(writer, err)

		return
	}

	respondJSON(writer, http.StatusOK, UserFromModel(updated))
}

func (u *UserServer) serverError(writer http.ResponseWriter, err error) {
	u.logger.Error("user request failed", zap.Error(err))
	respondDetail(writer, http.StatusInternalServerError, "Internal server error.")
}
