package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

type stubStore struct {
	orders map[uuid.UUID]*models.Order
}

func newStubStore() *stubStore {
	return &stubStore{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubStore) FindByNumber(_ context.Context, number string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.OrderNumber == number {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	s.orders[id].Status = status
	return nil
}

func (s *stubStore) List(_ context.Context, filter ListFilter, _ pagination.Params) ([]models.Order, string, error) {
	var out []models.Order
	for _, order := range s.orders {
		if filter.UserID != nil && (order.UserID == nil || *order.UserID != *filter.UserID) {
			continue
		}
		out = append(out, *order)
	}
	return out, "", nil
}

type stubNotifier struct {
	receipts []notifications.ReceiptInput
}

func (s *stubNotifier) RecordReceipt(_ context.Context, input notifications.ReceiptInput) error {
	s.receipts = append(s.receipts, input)
	return nil
}

func (s *stubNotifier) RecordGiftReserved(_ context.Context, _ notifications.GiftReservedInput) error {
	return nil
}

func seedOrder(store *stubStore, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	uid := userID
	order := &models.Order{
		ID:             uuid.New(),
		OrderNumber:    "SN-20260829-0001",
		UserID:         &uid,
		Email:          "client@example.com",
		Status:         status,
		DeliveryMethod: enums.DeliveryMethodDelivery,
		ShippingDetails: types.Address{
			Name: "Marta", LastName: "Serra", Address: "Carrer Major 1",
			City: "Barcelona", PostalCode: "08001",
		},
		Subtotal: decimal.RequireFromString("85.00"),
		Shipping: decimal.Zero,
		Tax:      decimal.RequireFromString("17.85"),
		Total:    decimal.RequireFromString("85.00"),
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Name: "Trona evolutiva", Price: decimal.RequireFromString("85.00"), Quantity: 1},
		},
	}
	store.orders[order.ID] = order
	return order
}

func adminViewer() Viewer {
	return Viewer{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	store := newStubStore()
	order := seedOrder(store, uuid.New(), enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	out, err := svc.UpdateStatus(context.Background(), order.ID, StatusInput{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, out.Status)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	store := newStubStore()
	order := seedOrder(store, uuid.New(), enums.OrderStatusDelivered)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusInput{Status: "pending"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	assert.Equal(t, enums.OrderStatusDelivered, store.orders[order.ID].Status)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	store := newStubStore()
	order := seedOrder(store, uuid.New(), enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusInput{Status: "teleported"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGetHidesForeignOrders(t *testing.T) {
	store := newStubStore()
	order := seedOrder(store, uuid.New(), enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), Viewer{UserID: uuid.New(), Role: enums.UserRoleCustomer}, order.ID)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	// Admin view is unrestricted.
	out, err := svc.Get(context.Background(), adminViewer(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, out.OrderNumber)
}

func TestGetByNumberScopesToOwner(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	order := seedOrder(store, userID, enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	out, err := svc.GetByNumber(
		context.Background(),
		Viewer{UserID: userID, Role: enums.UserRoleCustomer},
		order.OrderNumber,
	)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, out.OrderNumber)

	// Someone else's order number resolves to not found, never forbidden.
	_, err = svc.GetByNumber(
		context.Background(),
		Viewer{UserID: uuid.New(), Role: enums.UserRoleCustomer},
		order.OrderNumber,
	)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListPrefillsLastShippingDetails(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	seedOrder(store, userID, enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	page, err := svc.List(
		context.Background(),
		Viewer{UserID: userID, Role: enums.UserRoleCustomer},
		ListFilter{},
		pagination.Params{Limit: 1},
	)
	require.NoError(t, err)
	require.NotNil(t, page.LastShippingDetails)
	assert.Equal(t, "Carrer Major 1", page.LastShippingDetails.Address)
}

func TestInvoiceRendersPDF(t *testing.T) {
	store := newStubStore()
	order := seedOrder(store, uuid.New(), enums.OrderStatusPending)

	svc, err := NewService(store, &stubNotifier{})
	require.NoError(t, err)

	pdf, filename, err := svc.Invoice(context.Background(), adminViewer(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura-SN-20260829-0001.pdf", filename)
	assert.True(t, len(pdf) > 500)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestSendReceiptRecordsNotification(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	order := seedOrder(store, userID, enums.OrderStatusPending)
	notifier := &stubNotifier{}

	svc, err := NewService(store, notifier)
	require.NoError(t, err)

	require.NoError(t, svc.SendReceipt(
		context.Background(),
		Viewer{UserID: userID, Role: enums.UserRoleCustomer},
		order.ID,
	))
	require.Len(t, notifier.receipts, 1)
	assert.Equal(t, "client@example.com", notifier.receipts[0].Email)
	assert.Equal(t, "SN-20260829-0001", notifier.receipts[0].OrderNumber)
	assert.Equal(t, "85.00", notifier.receipts[0].Total)
}
