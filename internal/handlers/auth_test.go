package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"taskboard/internal/auth"
	dom "taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// memUserRepo is an in-memory UserRepo with the store's email uniqueness.
type memUserRepo struct {
	nextID int64
	byID   map[int64]dom.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byID: map[int64]dom.User{}}
}

func (r *memUserRepo) Create(_ context.Context, name, email, passwordHash string) (dom.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	now := time.Now()
	u := dom.User{ID: r.nextID, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	r.byID[u.ID] = u
	r.nextID++
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memUserRepo) Update(_ context.Context, id int64, name, email string) (dom.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	for _, other := range r.byID {
		if other.ID != id && other.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now()
	r.byID[id] = u
	return u, nil
}

var errBoom = errors.New("boom")

// failingUserRepo fails every call, for exercising the 500 path.
type failingUserRepo struct{}

func (failingUserRepo) Create(context.Context, string, string, string) (dom.User, error) {
	return dom.User{}, errBoom
}
func (failingUserRepo) GetByEmail(context.Context, string) (dom.User, error) {
	return dom.User{}, errBoom
}
func (failingUserRepo) GetByID(context.Context, int64) (dom.User, error) {
	return dom.User{}, errBoom
}
func (failingUserRepo) Update(context.Context, int64, string, string) (dom.User, error) {
	return dom.User{}, errBoom
}

func newAuthRouter(repo *memUserRepo) (*gin.Engine, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	svc := service.NewUserService(repo, auth.NewPasswordHasher(4), tokens)
	h := NewAuthHandler(svc)
	uh := NewUserHandler(svc)

	r := gin.New()
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	protected := r.Group("", auth.RequireAuth(tokens))
	protected.GET("/api/v1/user/profile", uh.GetProfile)
	protected.PUT("/api/v1/user/profile", uh.UpdateProfile)
	return r, tokens
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	repo := newMemUserRepo()
	r, tokens := newAuthRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "Alice@Example.com", "password": "password123",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.NotContains(t, w.Body.String(), "password", "response must not leak the password or its hash")

	id, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err, "email must be stored normalized")
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@b.com", "password": "password123"}},
		{"short name", gin.H{"name": "A", "email": "a@b.com", "password": "password123"}},
		{"bad email", gin.H{"name": "Alice", "email": "nope", "password": "password123"}},
		{"short password", gin.H{"name": "Alice", "email": "a@b.com", "password": "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemUserRepo()
			r, _ := newAuthRouter(repo)

			w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Empty(t, repo.byID, "no account may be created")
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	r, _ := newAuthRouter(repo)

	first := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, first.Code)

	// Same email modulo case and whitespace.
	second := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice Again", "email": "  ALICE@example.com ", "password": "password456",
	}, "")
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "already exists")
	assert.Len(t, repo.byID, 1)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newMemUserRepo()
	r, _ := newAuthRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	unknown := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "nobody@example.com", "password": "password123",
	}, "")
	wrongPw := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	}, "")

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, http.StatusBadRequest, wrongPw.Code)
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String(),
		"unknown email and wrong password must produce identical responses")
}

func TestLogin_Success(t *testing.T) {
	repo := newMemUserRepo()
	r, tokens := newAuthRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	login := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "Alice@Example.COM", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)

	_, err := tokens.Verify(resp.Token)
	assert.NoError(t, err)
}

func TestProfile_RequiresToken(t *testing.T) {
	r, _ := newAuthRouter(newMemUserRepo())

	w := doJSON(t, r, http.MethodGet, "/api/v1/user/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	repo := newMemUserRepo()
	r, _ := newAuthRouter(repo)

	reg := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, reg.Code)
	var regResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &regResp))

	get := doJSON(t, r, http.MethodGet, "/api/v1/user/profile", nil, regResp.Token)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), "alice@example.com")
	assert.NotContains(t, get.Body.String(), "password")

	// Only the name is sent; the email must survive.
	upd := doJSON(t, r, http.MethodPut, "/api/v1/user/profile", gin.H{"name": "Alice B"}, regResp.Token)
	require.Equal(t, http.StatusOK, upd.Code, upd.Body.String())

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestProfile_TokenForDeletedAccount(t *testing.T) {
	repo := newMemUserRepo()
	r, tokens := newAuthRouter(repo)

	// Token resolves statelessly even though the account never existed.
	token, err := tokens.Issue(999)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/v1/user/profile", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister_InternalErrorIsOpaque(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	svc := service.NewUserService(failingUserRepo{}, auth.NewPasswordHasher(4), tokens)
	r := gin.New()
	r.POST("/api/v1/auth/register", NewAuthHandler(svc).Register)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom", "internal error text must not leak")
}
