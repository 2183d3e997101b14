package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

type stubPlacer struct {
	placeCalls  int
	numberCalls int

	lastOrder        *models.Order
	lastReservations []Reservation
	lastDecrements   []StockDecrement
}

func (s *stubPlacer) NextOrderNumber(_ context.Context, prefix string, now time.Time) (string, error) {
	s.numberCalls++
	return prefix + "-" + now.Format("20060102") + "-0001", nil
}

func (s *stubPlacer) PlaceOrder(_ context.Context, order *models.Order, reservations []Reservation, decrements []StockDecrement) (*models.Order, error) {
	s.placeCalls++
	order.ID = uuid.New()
	s.lastOrder = order
	s.lastReservations = reservations
	s.lastDecrements = decrements
	return order, nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type stubLists struct {
	lists map[uuid.UUID]*models.BirthList
	items map[uuid.UUID]*models.BirthListItem
}

func (s *stubLists) FindListByID(_ context.Context, id uuid.UUID) (*models.BirthList, error) {
	list, ok := s.lists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return list, nil
}

func (s *stubLists) FindItem(_ context.Context, listID, itemID uuid.UUID) (*models.BirthListItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.ListID != listID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

type stubUsers struct {
	users map[uuid.UUID]*models.User

	createCalls  int
	addressCalls int
	lastAddress  types.Address
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.createCalls++
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsers) UpdateShippingAddress(_ context.Context, id uuid.UUID, address types.Address) error {
	s.addressCalls++
	s.lastAddress = address
	return nil
}

type stubNotifier struct {
	receipts []notifications.ReceiptInput
	gifts    []notifications.GiftReservedInput
}

func (s *stubNotifier) RecordReceipt(_ context.Context, input notifications.ReceiptInput) error {
	s.receipts = append(s.receipts, input)
	return nil
}

func (s *stubNotifier) RecordGiftReserved(_ context.Context, input notifications.GiftReservedInput) error {
	s.gifts = append(s.gifts, input)
	return nil
}

type fixture struct {
	svc      Service
	placer   *stubPlacer
	products *stubProducts
	lists    *stubLists
	users    *stubUsers
	notifier *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		placer:   &stubPlacer{},
		products: &stubProducts{products: map[uuid.UUID]*models.Product{}},
		lists:    &stubLists{lists: map[uuid.UUID]*models.BirthList{}, items: map[uuid.UUID]*models.BirthListItem{}},
		users:    newStubUsers(),
		notifier: &stubNotifier{},
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		f.placer, f.products, f.lists, f.users, f.notifier,
		config.ShopConfig{ShippingFee: "5.99", FreeShippingFloor: "60", TaxRatePercent: "21", OrderNumberPrefix: "SN"},
		config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		logg,
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addProduct(price string, stock int) *models.Product {
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Producto " + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	f.products.products[product.ID] = product
	return product
}

func (f *fixture) addListItem(price string) (*models.BirthList, *models.BirthListItem, *models.User) {
	owner := &models.User{
		ID: uuid.New(), Email: "owner@example.com",
		Name: "Laia", LastName: "Puig", IsActive: true,
	}
	f.users.users[owner.ID] = owner

	list := &models.BirthList{
		ID: uuid.New(), OwnerID: owner.ID,
		Title: "Llista del Pol", Status: enums.ListStatusActive,
	}
	f.lists.lists[list.ID] = list

	item := &models.BirthListItem{
		ID: uuid.New(), ListID: list.ID, ProductID: uuid.New(),
		Quantity: 2, Reserved: 0,
		Snapshot: types.ProductSnapshot{Name: "Cochecito", Brand: "Bugaboo", Price: price},
	}
	f.lists.items[item.ID] = item
	return list, item, owner
}

func validInput() Input {
	return Input{
		Name:       "Marta",
		LastName:   "Serra",
		Email:      "marta@example.com",
		Phone:      "600123123",
		Address:    "Carrer Major 1",
		City:       "Barcelona",
		PostalCode: "08001",
		Province:   "Barcelona",
	}
}

func TestSubmitDeliveryOrder(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)

	input := validInput()
	input.DeliveryMethod = "delivery"
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 2}}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)

	order := out.Order
	assert.Equal(t, "SN-"+time.Now().Format("20060102")+"-0001", order.OrderNumber)
	assert.Equal(t, enums.DeliveryMethodDelivery, order.DeliveryMethod)
	assert.Equal(t, "60.00", order.Subtotal.StringFixed(2))
	// 60.00 reaches the free shipping floor.
	assert.Equal(t, "0.00", order.Shipping.StringFixed(2))
	assert.Equal(t, "12.60", order.Tax.StringFixed(2))
	assert.Equal(t, "60.00", order.Total.StringFixed(2))

	require.Len(t, f.placer.lastDecrements, 1)
	assert.Equal(t, 2, f.placer.lastDecrements[0].Qty)
	assert.Empty(t, f.placer.lastReservations)

	require.Len(t, f.notifier.receipts, 1)
	assert.Equal(t, "marta@example.com", f.notifier.receipts[0].Email)
}

func TestSubmitMissingEmailHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)

	input := validInput()
	input.Email = ""
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 1}}

	_, err := f.svc.Submit(context.Background(), nil, input)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "email is required")

	assert.Zero(t, f.placer.placeCalls)
	assert.Zero(t, f.placer.numberCalls)
	assert.Zero(t, f.users.createCalls)
	assert.Empty(t, f.notifier.receipts)
}

func TestSubmitAggregatesAllViolations(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)

	input := Input{
		DeliveryMethod: "delivery",
		RegularLines:   []RegularLineInput{{ProductID: product.ID, Quantity: 1}},
	}

	_, err := f.svc.Submit(context.Background(), nil, input)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	msg := appErr.Message()
	for _, want := range []string{"name is required", "last name is required", "email is required", "phone is required", "address is required", "city is required", "postal code is required", "province is required"} {
		assert.Contains(t, msg, want)
	}
}

func TestSubmitDeliveryRequiresProvince(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)

	input := validInput()
	input.Province = ""
	input.DeliveryMethod = "delivery"
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 1}}

	_, err := f.svc.Submit(context.Background(), nil, input)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "province is required")
	assert.Zero(t, f.placer.placeCalls)
}

func TestSubmitGiftOnlyForcesPickupAndSkipsAddressValidation(t *testing.T) {
	f := newFixture(t)
	list, item, owner := f.addListItem("199.00")

	input := Input{
		Name:           "Marta",
		LastName:       "Serra",
		Email:          "marta@example.com",
		Phone:          "600123123",
		DeliveryMethod: "delivery",
		GiftLines: []GiftLineInput{
			{ListID: list.ID, ListItemID: item.ID, Note: "Felicitats!"},
		},
	}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)

	order := out.Order
	assert.Equal(t, enums.DeliveryMethodPickup, order.DeliveryMethod)
	assert.True(t, order.IsGiftOnly)
	assert.Equal(t, "0.00", order.Shipping.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].BuyerInfo)
	assert.Equal(t, "Felicitats!", order.Items[0].BuyerInfo.Note)

	require.Len(t, f.placer.lastReservations, 1)
	assert.Equal(t, item.ID, f.placer.lastReservations[0].ItemID)
	assert.Empty(t, f.placer.lastDecrements)

	require.Len(t, f.notifier.gifts, 1)
	assert.Equal(t, owner.Email, f.notifier.gifts[0].Email)
	assert.Equal(t, "Marta Serra", f.notifier.gifts[0].BuyerName)
}

func TestSubmitMixedCartForcedPickupSkipsAddressValidation(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)
	list, item, _ := f.addListItem("199.00")

	// A mixed cart with gifts is always picked up, so the bare contact
	// fields are enough even when delivery was requested.
	input := Input{
		Name:           "Marta",
		LastName:       "Serra",
		Email:          "marta@example.com",
		Phone:          "600123123",
		DeliveryMethod: "delivery",
		RegularLines:   []RegularLineInput{{ProductID: product.ID, Quantity: 1}},
		GiftLines:      []GiftLineInput{{ListID: list.ID, ListItemID: item.ID}},
	}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)

	order := out.Order
	assert.Equal(t, enums.DeliveryMethodPickup, order.DeliveryMethod)
	assert.False(t, order.IsGiftOnly)
	assert.Equal(t, "0.00", order.Shipping.StringFixed(2))
	require.Len(t, order.Items, 2)
	require.Len(t, f.placer.lastDecrements, 1)
	require.Len(t, f.placer.lastReservations, 1)
}

func TestSubmitGiftAndRegularLineForSameProduct(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 10)
	list, item, _ := f.addListItem("30.00")
	item.ProductID = product.ID

	input := validInput()
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 2}}
	input.GiftLines = []GiftLineInput{{ListID: list.ID, ListItemID: item.ID}}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)

	// Both lines survive: the own purchase and the gift are distinct
	// items even though they reference the same product.
	order := out.Order
	require.Len(t, order.Items, 2)
	assert.Equal(t, "90.00", order.Subtotal.StringFixed(2))

	require.Len(t, f.placer.lastDecrements, 1)
	assert.Equal(t, product.ID, f.placer.lastDecrements[0].ProductID)
	assert.Equal(t, 2, f.placer.lastDecrements[0].Qty)

	require.Len(t, f.placer.lastReservations, 1)
	assert.Equal(t, item.ID, f.placer.lastReservations[0].ItemID)
}

func TestSubmitBelowFloorChargesFlatFee(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("10.00", 5)

	input := validInput()
	input.DeliveryMethod = "delivery"
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 1}}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, "5.99", out.Order.Shipping.StringFixed(2))
	assert.Equal(t, "15.99", out.Order.Total.StringFixed(2))
}

func TestSubmitCreatesAccountWhenRequested(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 5)

	input := validInput()
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 1}}
	input.CreateAccount = &AccountInput{Password: "s3cret-enough", ConfirmPassword: "s3cret-enough"}

	out, err := f.svc.Submit(context.Background(), nil, input)
	require.NoError(t, err)

	assert.True(t, out.AccountCreated)
	assert.Equal(t, 1, f.users.createCalls)
	// The delivery address is saved on the new account for future prefill.
	assert.Equal(t, 1, f.users.addressCalls)
	assert.Equal(t, "Carrer Major 1", f.users.lastAddress.Address)
}

func TestSubmitPasswordMismatchBlocksEverything(t *testing.T) {
	f := newFixture(t)
	product := f.addProduct("30.00", 5)

	input := validInput()
	input.RegularLines = []RegularLineInput{{ProductID: product.ID, Quantity: 1}}
	input.CreateAccount = &AccountInput{Password: "s3cret-enough", ConfirmPassword: "other"}

	_, err := f.svc.Submit(context.Background(), nil, input)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Message(), "passwords do not match")
	assert.Zero(t, f.users.createCalls)
	assert.Zero(t, f.placer.placeCalls)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), nil, validInput())
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSubmitClosedListRejected(t *testing.T) {
	f := newFixture(t)
	list, item, _ := f.addListItem("50.00")
	list.Status = enums.ListStatusClosed

	input := validInput()
	input.GiftLines = []GiftLineInput{{ListID: list.ID, ListItemID: item.ID}}

	_, err := f.svc.Submit(context.Background(), nil, input)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	assert.Zero(t, f.placer.placeCalls)
}
