package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type mockAccountRepo struct {
	users      map[string]*models.User
	listFilter models.UserFilter
	listErr    error
	revoked    []string
	deactivate []string
}

func (m *mockAccountRepo) List(_ context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.listFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var users []models.User
	for _, u := range m.users {
		if filter.Role == nil || u.Role == *filter.Role {
			users = append(users, *u)
		}
	}
	return users, len(users), nil
}

func (m *mockAccountRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(_ context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockAccountRepo) SetActive(_ context.Context, id string, active bool, _ time.Time) error {
	m.users[id].Active = active
	if !active {
		m.deactivate = append(m.deactivate, id)
	}
	return nil
}

func (m *mockAccountRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func newAccountServiceForTest(repo *mockAccountRepo, audit *auditRecorder) *AccountService {
	var writer AuditWriter
	if audit != nil {
		writer = audit
	}
	svc := NewAccountService(repo, writer, validator.New(), zap.NewNop())
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func accountRequest(role models.UserRole) dto.CreateAccountRequest {
	return dto.CreateAccountRequest{Email: "New.Patient@Example.com", FullName: "New Patient", Role: role, Password: "correct-horse"}
}

func TestAccountServiceCreate(t *testing.T) {
	repo := &mockAccountRepo{}
	audit := &auditRecorder{}
	svc := newAccountServiceForTest(repo, audit)

	user, err := svc.Create(context.Background(), accountRequest(models.RolePatient), providerClaims(), RequestMeta{IP: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, "new.patient@example.com", user.Email)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionAccountCreate, audit.logs[0].Action)
	assert.Equal(t, user.ID, *audit.logs[0].ResourceID)
	assert.Equal(t, "10.0.0.9", audit.logs[0].IPAddress)
}

func TestAccountServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := &mockAccountRepo{users: map[string]*models.User{
		"p1": {ID: "p1", Email: "new.patient@example.com", Role: models.RolePatient},
	}}
	svc := newAccountServiceForTest(repo, nil)

	_, err := svc.Create(context.Background(), accountRequest(models.RolePatient), adminClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestAccountServiceCreateStaffRequiresAdmin(t *testing.T) {
	svc := newAccountServiceForTest(&mockAccountRepo{}, nil)

	_, err := svc.Create(context.Background(), accountRequest(models.RoleProvider), providerClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	user, err := svc.Create(context.Background(), accountRequest("provider"), adminClaims(), RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, user.Role)
}

func TestAccountServiceCreateValidation(t *testing.T) {
	svc := newAccountServiceForTest(&mockAccountRepo{}, nil)

	req := accountRequest(models.RolePatient)
	req.Password = "short"
	_, err := svc.Create(context.Background(), req, adminClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), accountRequest("SUPERUSER"), adminClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAccountServiceListScopesProvidersToPatients(t *testing.T) {
	repo := &mockAccountRepo{users: map[string]*models.User{
		"p1": {ID: "p1", Role: models.RolePatient},
		"d1": {ID: "d1", Role: models.RoleProvider},
	}}
	svc := newAccountServiceForTest(repo, nil)

	users, pagination, err := svc.List(context.Background(), dto.AccountQuery{PageSize: 500}, providerClaims())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "p1", users[0].ID)
	require.NotNil(t, repo.listFilter.Role)
	assert.Equal(t, models.RolePatient, *repo.listFilter.Role)
	assert.Equal(t, maxAccountPageSize, pagination.PageSize)
	assert.Equal(t, 1, pagination.Page)

	_, _, err = svc.List(context.Background(), dto.AccountQuery{Role: "ADMIN"}, providerClaims())
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, _, err = svc.List(context.Background(), dto.AccountQuery{Role: "nurse"}, adminClaims())
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAccountServiceListDataAccessError(t *testing.T) {
	svc := newAccountServiceForTest(&mockAccountRepo{listErr: errors.New("db down")}, nil)

	_, _, err := svc.List(context.Background(), dto.AccountQuery{}, adminClaims())
	require.ErrorIs(t, err, appErrors.ErrDataAccess)
}

func TestAccountServiceDeactivate(t *testing.T) {
	repo := &mockAccountRepo{users: map[string]*models.User{
		"p1": {ID: "p1", Role: models.RolePatient, Active: true},
	}}
	audit := &auditRecorder{}
	svc := newAccountServiceForTest(repo, audit)

	require.NoError(t, svc.Deactivate(context.Background(), "p1", adminClaims(), RequestMeta{}))
	assert.False(t, repo.users["p1"].Active)
	assert.Equal(t, []string{"p1"}, repo.revoked)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionAccountDeactivate, audit.logs[0].Action)

	require.NoError(t, svc.Deactivate(context.Background(), "p1", adminClaims(), RequestMeta{}))
	assert.Len(t, repo.deactivate, 1)
}

func TestAccountServiceDeactivateErrors(t *testing.T) {
	svc := newAccountServiceForTest(&mockAccountRepo{users: map[string]*models.User{}}, nil)

	err := svc.Deactivate(context.Background(), "missing", adminClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	err = svc.Deactivate(context.Background(), "admin-1", adminClaims(), RequestMeta{})
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
