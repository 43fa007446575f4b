package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/service"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type fakeAccountSrv struct {
	query       dto.AccountQuery
	created     *dto.CreateAccountRequest
	createErr   error
	deactivated string
	meta        service.RequestMeta
}

func (f *fakeAccountSrv) List(_ context.Context, query dto.AccountQuery, _ *models.JWTClaims) ([]models.User, *models.Pagination, error) {
	f.query = query
	return []models.User{{ID: "p1", Role: models.RolePatient}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeAccountSrv) Create(_ context.Context, req dto.CreateAccountRequest, _ *models.JWTClaims, meta service.RequestMeta) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created, f.meta = &req, meta
	return &models.User{ID: "new-1", Email: req.Email, Role: req.Role, Active: true, PasswordHash: "secret-hash"}, nil
}

func (f *fakeAccountSrv) Deactivate(_ context.Context, id string, _ *models.JWTClaims, _ service.RequestMeta) error {
	f.deactivated = id
	return nil
}

func TestAccountHandlerList(t *testing.T) {
	srv := &fakeAccountSrv{}
	handler := NewAccountHandler(srv)

	c, w := newGinContext(http.MethodGet, "/accounts?role=PATIENT&active=true&search=pat&page=2&pageSize=5", nil)
	asProvider(c)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PATIENT", srv.query.Role)
	require.NotNil(t, srv.query.Active)
	assert.True(t, *srv.query.Active)
	assert.Equal(t, 2, srv.query.Page)
	assert.Equal(t, 5, srv.query.PageSize)
}

func TestAccountHandlerCreateHidesPasswordHash(t *testing.T) {
	srv := &fakeAccountSrv{}
	handler := NewAccountHandler(srv)

	c, w := newGinContext(http.MethodPost, "/accounts", mustJSON(t, dto.CreateAccountRequest{
		Email: "pat@example.com", FullName: "Pat", Role: models.RolePatient, Password: "correct-horse",
	}))
	c.Request.Header.Set("User-Agent", "admin-console")
	asProvider(c)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, srv.created)
	assert.Equal(t, "admin-console", srv.meta.UserAgent)
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestAccountHandlerCreateConflict(t *testing.T) {
	handler := NewAccountHandler(&fakeAccountSrv{createErr: appErrors.ErrConflict})

	c, w := newGinContext(http.MethodPost, "/accounts", []byte(`{"email":"pat@example.com"}`))
	asProvider(c)
	handler.Create(c)

	assertErrorCode(t, w, http.StatusConflict, appErrors.ErrConflict.Code)
}

func TestAccountHandlerDeactivate(t *testing.T) {
	srv := &fakeAccountSrv{}
	handler := NewAccountHandler(srv)

	c, _ := newGinContext(http.MethodDelete, "/accounts/p1", nil)
	c.Params = append(c.Params, ginParam("id", "p1"))
	asProvider(c)
	handler.Deactivate(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "p1", srv.deactivated)
}
