// Package auth authenticates studio employees and issues the access
// tokens the rest of the API trusts.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a studio staff member who can sign in to the portal.
type Employee struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Roles        []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued access token and the signed-in employee.
type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	ExpiresIn   int64            `json:"expiresIn"`
	Employee    EmployeeResponse `json:"employee"`
}

// EmployeeResponse is the API representation of an employee.
type EmployeeResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
	Roles []string  `json:"roles"`
}

func toEmployeeResponse(e *Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:    e.ID,
		Name:  e.Name,
		Email: e.Email,
		Phone: e.Phone,
		Roles: e.Roles,
	}
}
