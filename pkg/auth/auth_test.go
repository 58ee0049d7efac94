package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"wineraise.dev/WineRaise/configs"
	"wineraise.dev/WineRaise/pkg/auth"
	"wineraise.dev/WineRaise/pkg/model"
	"wineraise.dev/WineRaise/pkg/repository"
)

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) GetUserFromEmail(_ context.Context, email string) (*model.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, repository.ErrUserNotFound
	}

	return f.user, nil
}

func testConfig() *configs.Config {
	return &configs.Config{
		Auth: configs.Auth{
			SecretKey:       "test-secret",
			AccessLifetime:  time.Hour,
			RefreshLifetime: 24 * time.Hour,
		},
	}
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &model.User{
		UUID:         uuid.New(),
		Email:        "taster@example.com",
		PasswordHash: hash,
		Active:       true,
	}
}

func TestHashPassword_RejectsShortPasswords(t *testing.T) {
	_, err := auth.HashPassword("pw")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestHashPassword_HashesAtMinimumLength(t *testing.T) {
	hash, err := auth.HashPassword("12345")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("12345")))
}

func TestAuthenticate_Succeeds(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	result, err := manager.Authenticate(context.Background(), "taster@example.com", "grenache")
	require.NoError(t, err)
	assert.Equal(t, user.UUID, result.UUID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	_, err := manager.Authenticate(context.Background(), "taster@example.com", "merlot")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{}, zaptest.NewLogger(t))

	_, err := manager.Authenticate(context.Background(), "nobody@example.com", "grenache")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	user := testUser(t, "grenache")
	user.Active = false
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	_, err := manager.Authenticate(context.Background(), "taster@example.com", "grenache")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestIssueTokens_RoundTripsThroughMiddleware(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	pair, err := manager.IssueTokens(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	var seen *model.User

	handler := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen, _ = auth.CurrentUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/user/me/", nil)
	request.Header.Set("Authorization", "Bearer "+pair.Access)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.UUID, seen.UUID)
}

func TestMiddleware_RejectsRefreshTokenAsAccess(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	pair, err := manager.IssueTokens(user)
	require.NoError(t, err)

	handler := manager.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	request := httptest.NewRequest(http.MethodGet, "/user/me/", nil)
	request.Header.Set("Authorization", "Bearer "+pair.Refresh)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{}, zaptest.NewLogger(t))

	handler := manager.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/user/me/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.JSONEq(t, `{"detail": "authorization header not found"}`, recorder.Body.String())
}

func TestMiddleware_RejectsGarbageToken(t *testing.T) {
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{}, zaptest.NewLogger(t))

	handler := manager.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	request := httptest.NewRequest(http.MethodGet, "/user/me/", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	pair, err := manager.IssueTokens(user)
	require.NoError(t, err)

	access, err := manager.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	user := testUser(t, "grenache")
	manager := auth.NewAuthManager(testConfig(), &fakeUserRepo{user: user}, zaptest.NewLogger(t))

	pair, err := manager.IssueTokens(user)
	require.NoError(t, err)

	_, err = manager.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
