package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

type stubStore struct {
	products map[uuid.UUID]*models.Product

	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubStore) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	product.ID = uuid.New()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubStore) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.products[id]; !ok {
		return 0, nil
	}
	delete(s.products, id)
	return 1, nil
}

func (s *stubStore) List(_ context.Context, _ ListFilter, _ pagination.Params) ([]models.Product, string, error) {
	var out []models.Product
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, "", nil
}

func TestServiceCreateNormalizesPrice(t *testing.T) {
	store := newStubStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	out, err := svc.Create(context.Background(), CreateInput{
		Name:      "Cuna colecho",
		Reference: "CN-001",
		Price:     "149,95 €",
		Stock:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, "149.95", out.Price.StringFixed(2))
	assert.True(t, out.IsActive)
}

func TestServiceCreateUnparsablePriceFallsBackToZero(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	out, err := svc.Create(context.Background(), CreateInput{
		Name:      "Mordedor",
		Reference: "MD-002",
		Price:     "consultar",
	})
	require.NoError(t, err)
	assert.True(t, out.Price.IsZero())
}

func TestServiceUpdatePartial(t *testing.T) {
	store := newStubStore()
	svc, err := NewService(store)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:      "Saco de dormir",
		Reference: "SD-003",
		Price:     "39.90",
		Stock:     10,
	})
	require.NoError(t, err)

	newStock := 7
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Stock: &newStock})
	require.NoError(t, err)

	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "Saco de dormir", updated.Name)
	assert.Equal(t, "39.90", updated.Price.StringFixed(2))
}

func TestServiceGetUnknown(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceDeleteUnknown(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
