package auth

import (
	"context"
	"strings"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/security"
)

// Register creates a customer account and opens its first session. The
// password confirmation is checked before anything is persisted.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	if input.Password != input.ConfirmPassword {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	return s.openSession(ctx, created)
}
