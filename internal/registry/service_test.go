package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

type stubListStore struct {
	lists map[uuid.UUID]*models.BirthList
	items map[uuid.UUID][]models.BirthListItem

	replaceCalls int
	deleteRows   int64
}

func newStubListStore() *stubListStore {
	return &stubListStore{
		lists: map[uuid.UUID]*models.BirthList{},
		items: map[uuid.UUID][]models.BirthListItem{},
	}
}

func (s *stubListStore) CreateList(_ context.Context, list *models.BirthList) (*models.BirthList, error) {
	list.ID = uuid.New()
	s.lists[list.ID] = list
	return list, nil
}

func (s *stubListStore) FindListByID(_ context.Context, id uuid.UUID) (*models.BirthList, error) {
	list, ok := s.lists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return list, nil
}

func (s *stubListStore) ListLists(_ context.Context, ownerID *uuid.UUID, _ pagination.Params) ([]models.BirthList, string, error) {
	var out []models.BirthList
	for _, list := range s.lists {
		if ownerID != nil && list.OwnerID != *ownerID {
			continue
		}
		out = append(out, *list)
	}
	return out, "", nil
}

func (s *stubListStore) ListItems(_ context.Context, listID uuid.UUID, pendingOnly bool) ([]models.BirthListItem, error) {
	var out []models.BirthListItem
	for _, item := range s.items[listID] {
		if pendingOnly && !item.State.IsPending() {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *stubListStore) ReplaceItems(_ context.Context, listID uuid.UUID, items []models.BirthListItem) error {
	s.replaceCalls++
	s.items[listID] = items
	return nil
}

func (s *stubListStore) DeleteItem(_ context.Context, listID, itemID uuid.UUID) (int64, error) {
	kept := s.items[listID][:0]
	var affected int64
	for _, item := range s.items[listID] {
		if item.ID == itemID {
			affected++
			continue
		}
		kept = append(kept, item)
	}
	s.items[listID] = kept
	s.deleteRows = affected
	return affected, nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func seedList(store *stubListStore, owner uuid.UUID, items ...models.BirthListItem) *models.BirthList {
	list := &models.BirthList{
		ID:      uuid.New(),
		OwnerID: owner,
		Title:   "Llista de la Mar",
		Status:  enums.ListStatusActive,
	}
	store.lists[list.ID] = list
	for i := range items {
		items[i].ID = uuid.New()
		items[i].ListID = list.ID
	}
	store.items[list.ID] = items
	return list
}

func TestServiceGetItemsProgress(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner,
		models.BirthListItem{ProductID: uuid.New(), Quantity: 3, Reserved: 1},
		models.BirthListItem{ProductID: uuid.New(), Quantity: 1, Reserved: 1},
	)

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	out, err := svc.GetItems(context.Background(), list.ID, false)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 50, out.Progress)
}

func TestServiceGetItemsPendingOnly(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner,
		models.BirthListItem{ProductID: uuid.New(), Quantity: 2, State: enums.ListItemStatePending},
		models.BirthListItem{ProductID: uuid.New(), Quantity: 1, State: enums.ListItemStateGranted},
	)

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	out, err := svc.GetItems(context.Background(), list.ID, true)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	// Progress is computed over the filtered rows that were returned.
	assert.Equal(t, 0, out.Progress)
}

func TestServiceGetItemsUnknownList(t *testing.T) {
	svc, err := NewService(newStubListStore(), &stubProductLoader{})
	require.NoError(t, err)

	_, err = svc.GetItems(context.Background(), uuid.New(), false)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceSetItemsDenormalizesSnapshot(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner)

	brand := &models.Brand{ID: uuid.New(), Name: "Stokke"}
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Tripp Trapp",
		Price: decimal.RequireFromString("199.00"),
		Brand: brand,
	}
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	svc, err := NewService(store, loader)
	require.NoError(t, err)

	out, err := svc.SetItems(context.Background(), list.ID, owner, []ItemInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	item := out.Items[0]
	assert.Equal(t, "Tripp Trapp", item.Product.Name)
	assert.Equal(t, "Stokke", item.Product.Brand)
	assert.Equal(t, "199.00", item.Product.Price)
	assert.Equal(t, defaultPriority, item.Priority)
	assert.Equal(t, 1, store.replaceCalls)
}

func TestServiceSetItemsUnknownProduct(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner)

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	_, err = svc.SetItems(context.Background(), list.ID, owner, []ItemInput{
		{ProductID: uuid.New(), Quantity: 1},
	})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	assert.Zero(t, store.replaceCalls)
}

func TestServiceSetItemsForbiddenForNonOwner(t *testing.T) {
	store := newStubListStore()
	list := seedList(store, uuid.New())

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	_, err = svc.SetItems(context.Background(), list.ID, uuid.New(), nil)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestServiceSetItemsClosedList(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner)
	list.Status = enums.ListStatusClosed

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	_, err = svc.SetItems(context.Background(), list.ID, owner, nil)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestServiceRemoveItem(t *testing.T) {
	store := newStubListStore()
	owner := uuid.New()
	list := seedList(store, owner,
		models.BirthListItem{ProductID: uuid.New(), Quantity: 1},
	)
	itemID := store.items[list.ID][0].ID

	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), list.ID, itemID, owner))
	assert.Empty(t, store.items[list.ID])

	err = svc.RemoveItem(context.Background(), list.ID, itemID, owner)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceCreateListValidation(t *testing.T) {
	svc, err := NewService(newStubListStore(), &stubProductLoader{})
	require.NoError(t, err)

	_, err = svc.CreateList(context.Background(), uuid.New(), CreateListInput{Title: "  "})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
