package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/service"
	"github.com/noah-isme/recovery-api/pkg/response"
)

type accountService interface {
	List(ctx context.Context, query dto.AccountQuery, claims *models.JWTClaims) ([]models.User, *models.Pagination, error)
	Create(ctx context.Context, req dto.CreateAccountRequest, claims *models.JWTClaims, meta service.RequestMeta) (*models.User, error)
	Deactivate(ctx context.Context, id string, claims *models.JWTClaims, meta service.RequestMeta) error
}

// AccountHandler manages patient and staff logins.
type AccountHandler struct {
	accounts accountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List godoc
// @Summary List accounts
// @Description Providers only see patient accounts
// @Tags Accounts
// @Produce json
// @Param role query string false "ADMIN, PROVIDER or PATIENT"
// @Param active query bool false "Active filter"
// @Param search query string false "Email or name fragment"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	var query dto.AccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid account filter"))
		return
	}
	users, pagination, err := h.accounts.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Create godoc
// @Summary Provision an account
// @Description Providers may create patient accounts; admins may create any role
// @Tags Accounts
// @Accept json
// @Produce json
// @Param payload body dto.CreateAccountRequest true "Account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid account payload"))
		return
	}
	user, err := h.accounts.Create(c.Request.Context(), req, claimsFromContext(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Deactivate godoc
// @Summary Deactivate an account
// @Tags Accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	if err := h.accounts.Deactivate(c.Request.Context(), c.Param("id"), claimsFromContext(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}
