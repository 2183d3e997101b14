package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/cart"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

type store interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, string, error)
}

// Service exposes catalog reads and the admin CRUD surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, params pagination.Params) (PageDTO, error)
}

type service struct {
	repo store
}

func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (ProductDTO, error) {
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product := &models.Product{
		BrandID:     input.BrandID,
		Name:        strings.TrimSpace(input.Name),
		Reference:   strings.TrimSpace(input.Reference),
		Description: input.Description,
		Price:       cart.NormalizePrice(input.Price),
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		IsActive:    active,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "product reference already exists")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toDTO(*created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toDTO(*product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}

	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = cart.NormalizePrice(*input.Price)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return toDTO(*updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (PageDTO, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return PageDTO{Products: dtos, NextCursor: next}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
