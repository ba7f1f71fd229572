package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/service"
)

func newAdminHandler(t *testing.T, repo *mockAdminRepo, secret string) *AdminHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash secret: %v", err)
	}
	return NewAdminHandler(service.NewAdminService(service.AdminServiceConfig{
		Repo:          repo,
		BootstrapHash: string(hash),
	}))
}

func TestAdminHandler_Init_Success(t *testing.T) {
	t.Parallel()
	h := newAdminHandler(t, &mockAdminRepo{}, "s3cret")

	req := newRequest(t, http.MethodPost, "/v1/admin",
		map[string]interface{}{"bootstrap_secret": "s3cret", "admin_id": testAdminID}, "", "")
	rr := httptest.NewRecorder()

	h.Init(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var settings model.AdminSettings
	decodeData(t, rr, &settings)
	assert.Equal(t, testAdminID, settings.AdminID)
}

func TestAdminHandler_Init_WrongSecret(t *testing.T) {
	t.Parallel()
	h := newAdminHandler(t, &mockAdminRepo{}, "s3cret")

	req := newRequest(t, http.MethodPost, "/v1/admin",
		map[string]interface{}{"bootstrap_secret": "guess", "admin_id": testAdminID}, "", "")
	rr := httptest.NewRecorder()

	h.Init(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminHandler_Init_AlreadyInitialized(t *testing.T) {
	t.Parallel()
	repo := &mockAdminRepo{settings: &model.AdminSettings{AdminID: testAdminID}}
	h := newAdminHandler(t, repo, "s3cret")

	req := newRequest(t, http.MethodPost, "/v1/admin",
		map[string]interface{}{"bootstrap_secret": "s3cret", "admin_id": "user:other"}, "", "")
	rr := httptest.NewRecorder()

	h.Init(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAdminHandler_Set_Success(t *testing.T) {
	t.Parallel()
	repo := &mockAdminRepo{settings: &model.AdminSettings{AdminID: testAdminID}}
	h := newAdminHandler(t, repo, "s3cret")

	req := newRequest(t, http.MethodPut, "/v1/admin",
		map[string]interface{}{"admin_id": "user:next"}, testAdminID, "")
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var settings model.AdminSettings
	decodeData(t, rr, &settings)
	assert.Equal(t, "user:next", settings.AdminID)
}

func TestAdminHandler_Set_NotCurrentAdmin(t *testing.T) {
	t.Parallel()
	repo := &mockAdminRepo{settings: &model.AdminSettings{AdminID: testAdminID}}
	h := newAdminHandler(t, repo, "s3cret")

	req := newRequest(t, http.MethodPut, "/v1/admin",
		map[string]interface{}{"admin_id": "user:rando"}, "user:rando", "")
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminHandler_Get_Success(t *testing.T) {
	t.Parallel()
	repo := &mockAdminRepo{settings: &model.AdminSettings{AdminID: testAdminID}}
	h := newAdminHandler(t, repo, "s3cret")

	req := newRequest(t, http.MethodGet, "/v1/admin", nil, "", "")
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var settings model.AdminSettings
	decodeData(t, rr, &settings)
	assert.Equal(t, testAdminID, settings.AdminID)
}
