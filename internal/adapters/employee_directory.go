package adapters

import (
	"context"

	"studio_backend/internal/auth"
	"studio_backend/internal/notification"

	"github.com/google/uuid"
)

// EmployeeDirectory adapts the auth repository to the notification module's
// contact lookup port.
type EmployeeDirectory struct {
	repo *auth.Repository
}

// NewEmployeeDirectory creates a directory backed by the employees table.
func NewEmployeeDirectory(repo *auth.Repository) *EmployeeDirectory {
	return &EmployeeDirectory{repo: repo}
}

func (d *EmployeeDirectory) GetEmployeeContact(ctx context.Context, id uuid.UUID) (*notification.EmployeeContact, error) {
	emp, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &notification.EmployeeContact{
		Name:  emp.Name,
		Email: emp.Email,
		Phone: emp.Phone,
	}, nil
}

var _ notification.EmployeeDirectory = (*EmployeeDirectory)(nil)
