package dto

import "github.com/noah-isme/recovery-api/internal/models"

// CreateAccountRequest provisions a patient, provider or admin login.
type CreateAccountRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	FullName string          `json:"fullName" validate:"required,max=255"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN PROVIDER PATIENT"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
}

// AccountQuery filters GET /accounts.
type AccountQuery struct {
	Role     string `form:"role"`
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
