package brands

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
)

type store interface {
	Create(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, activeOnly bool) ([]models.Brand, error)
}

// BrandDTO is the brand row served to the storefront and back office.
type BrandDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	LogoURL  *string   `json:"logo_url,omitempty"`
	IsActive bool      `json:"is_active"`
}

// CreateInput carries the fields of a new brand.
type CreateInput struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	LogoURL  *string `json:"logo_url" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active"`
}

// UpdateInput carries a partial brand update. Nil fields are untouched.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	LogoURL  *string `json:"logo_url" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active"`
}

// Service exposes brand reads and the admin CRUD surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (BrandDTO, error)
	Get(ctx context.Context, id uuid.UUID) (BrandDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (BrandDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]BrandDTO, error)
}

type service struct {
	repo store
}

func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (BrandDTO, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	name := strings.TrimSpace(input.Name)
	brand := &models.Brand{
		Name:     name,
		Slug:     Slugify(name),
		LogoURL:  input.LogoURL,
		IsActive: active,
	}

	created, err := s.repo.Create(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return BrandDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "a brand with this name already exists")
		}
		return BrandDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return toDTO(*created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (BrandDTO, error) {
	brand, err := s.load(ctx, id)
	if err != nil {
		return BrandDTO{}, err
	}
	return toDTO(*brand), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (BrandDTO, error) {
	brand, err := s.load(ctx, id)
	if err != nil {
		return BrandDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		brand.Name = name
		brand.Slug = Slugify(name)
	}
	if input.LogoURL != nil {
		brand.LogoURL = input.LogoURL
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return BrandDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "a brand with this name already exists")
		}
		return BrandDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
	}
	return toDTO(*updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brand")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]BrandDTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}

	dtos := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return brand, nil
}

func toDTO(brand models.Brand) BrandDTO {
	return BrandDTO{
		ID:       brand.ID,
		Name:     brand.Name,
		Slug:     brand.Slug,
		LogoURL:  brand.LogoURL,
		IsActive: brand.IsActive,
	}
}

// Slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
