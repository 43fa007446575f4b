package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

const maxAccountPageSize = 100

type accountRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool, ts time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

// RequestMeta identifies the client behind an audited change.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AccountService provisions and deactivates logins. Providers manage patient accounts only.
type AccountService struct {
	repo       accountRepository
	audit      AuditWriter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	bcryptCost int
}

// NewAccountService creates an AccountService.
func NewAccountService(repo accountRepository, audit AuditWriter, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AccountService{
		repo:       repo,
		audit:      audit,
		validator:  validate,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		bcryptCost: bcrypt.DefaultCost,
	}
}

// List returns a page of accounts. Providers only ever see patients.
func (s *AccountService) List(ctx context.Context, query dto.AccountQuery, claims *models.JWTClaims) ([]models.User, *models.Pagination, error) {
	if claims == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	filter := models.UserFilter{Active: query.Active, Search: strings.TrimSpace(query.Search), Page: query.Page, PageSize: query.PageSize}
	if query.Role != "" {
		role := models.UserRole(strings.ToUpper(query.Role))
		if !validRole(role) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		filter.Role = &role
	}
	if claims.Role == models.RoleProvider {
		if filter.Role != nil && *filter.Role != models.RolePatient {
			return nil, nil, appErrors.ErrForbidden
		}
		patient := models.RolePatient
		filter.Role = &patient
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > maxAccountPageSize {
		filter.PageSize = maxAccountPageSize
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to list accounts")
	}
	return users, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create provisions a new active account.
func (s *AccountService) Create(ctx context.Context, req dto.CreateAccountRequest, claims *models.JWTClaims, meta RequestMeta) (*models.User, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req.Role = models.UserRole(strings.ToUpper(string(req.Role)))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}
	if claims.Role != models.RoleAdmin && req.Role != models.RolePatient {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may create staff accounts")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to check email uniqueness")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		Active:       true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to create account")
	}

	s.record(ctx, claims.UserID, models.AuditActionAccountCreate, user.ID, meta, map[string]interface{}{"email": user.Email, "role": user.Role})
	return user, nil
}

// Deactivate blocks future logins for id and revokes its refresh tokens.
func (s *AccountService) Deactivate(ctx context.Context, id string, claims *models.JWTClaims, meta RequestMeta) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if id == claims.UserID {
		return appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to load account")
	}
	if !user.Active {
		return nil
	}

	if err := s.repo.SetActive(ctx, id, false, s.now()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataAccess.Code, appErrors.ErrDataAccess.Status, "failed to deactivate account")
	}
	if err := s.repo.RevokeUserRefreshTokens(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions of deactivated account", zap.String("user_id", id), zap.Error(err))
	}

	s.record(ctx, claims.UserID, models.AuditActionAccountDeactivate, id, meta, map[string]interface{}{"active": false})
	return nil
}

func (s *AccountService) record(ctx context.Context, actorID, action, resourceID string, meta RequestMeta, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(details)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "accounts",
		ResourceID: &resourceID,
		NewValues:  payload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record account audit log", zap.String("action", action), zap.Error(err))
	}
}

func validRole(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleProvider, models.RolePatient:
		return true
	default:
		return false
	}
}
