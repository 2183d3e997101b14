package brands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
)

type stubStore struct {
	brands    map[uuid.UUID]*models.Brand
	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{brands: map[uuid.UUID]*models.Brand{}}
}

func (s *stubStore) Create(_ context.Context, brand *models.Brand) (*models.Brand, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	brand.ID = uuid.New()
	s.brands[brand.ID] = brand
	return brand, nil
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, ok := s.brands[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return brand, nil
}

func (s *stubStore) Update(_ context.Context, brand *models.Brand) (*models.Brand, error) {
	s.brands[brand.ID] = brand
	return brand, nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := s.brands[id]; !ok {
		return 0, nil
	}
	delete(s.brands, id)
	return 1, nil
}

func (s *stubStore) List(_ context.Context, activeOnly bool) ([]models.Brand, error) {
	var out []models.Brand
	for _, brand := range s.brands {
		if activeOnly && !brand.IsActive {
			continue
		}
		out = append(out, *brand)
	}
	return out, nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Stokke", want: "stokke"},
		{name: "spaces", in: "Jane Crosswalk", want: "jane-crosswalk"},
		{name: "punctuation", in: "Béaba & Co.", want: "béaba-co"},
		{name: "trailing", in: "Chicco  ", want: "chicco"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestServiceCreateSlugsName(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	out, err := svc.Create(context.Background(), CreateInput{Name: "Done by Deer"})
	require.NoError(t, err)

	assert.Equal(t, "done-by-deer", out.Slug)
	assert.True(t, out.IsActive)
}

func TestServiceCreateDuplicate(t *testing.T) {
	store := newStubStore()
	store.createErr = gorm.ErrDuplicatedKey

	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Stokke"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestServiceUpdateRenameReslugs(t *testing.T) {
	svc, err := NewService(newStubStore())
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Old Name"})
	require.NoError(t, err)

	newName := "New Name"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "new-name", updated.Slug)
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
