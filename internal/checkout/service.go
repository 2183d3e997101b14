package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/cart"
	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/internal/orders"
	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/security"
	"github.com/Avannubo/subirananadons-backend/pkg/types"
)

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type listStore interface {
	FindListByID(ctx context.Context, id uuid.UUID) (*models.BirthList, error)
	FindItem(ctx context.Context, listID, itemID uuid.UUID) (*models.BirthListItem, error)
}

type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateShippingAddress(ctx context.Context, id uuid.UUID, address types.Address) error
}

type orderPlacer interface {
	NextOrderNumber(ctx context.Context, prefix string, now time.Time) (string, error)
	PlaceOrder(ctx context.Context, order *models.Order, reservations []Reservation, decrements []StockDecrement) (*models.Order, error)
}

// Service turns a validated checkout submission into a committed order.
type Service interface {
	Submit(ctx context.Context, actorID *uuid.UUID, input Input) (Result, error)
}

type service struct {
	store    orderPlacer
	products productStore
	lists    listStore
	users    userStore
	notifier notifications.Service
	shopCfg  config.ShopConfig
	pwCfg    config.PasswordConfig
	rates    cart.Rates
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(
	store orderPlacer,
	products productStore,
	lists listStore,
	users userStore,
	notifier notifications.Service,
	shopCfg config.ShopConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product store is required")
	}
	if lists == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list store is required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user store is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		store:    store,
		products: products,
		lists:    lists,
		users:    users,
		notifier: notifier,
		shopCfg:  shopCfg,
		pwCfg:    pwCfg,
		rates:    cart.RatesFromConfig(shopCfg),
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Submit validates the whole form first and only then touches storage, so
// a rejected checkout leaves no trace.
func (s *service) Submit(ctx context.Context, actorID *uuid.UUID, input Input) (Result, error) {
	if len(input.RegularLines) == 0 && len(input.GiftLines) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	mode := enums.DeliveryMethodDelivery
	if input.DeliveryMethod != "" {
		parsed, err := enums.ParseDeliveryMethod(input.DeliveryMethod)
		if err != nil {
			return Result{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		mode = parsed
	}

	// Gift lines force pickup, so the address requirement is decided by
	// the effective mode, not the requested one.
	giftOnly := len(input.RegularLines) == 0
	effective := mode
	if len(input.GiftLines) > 0 {
		effective = enums.DeliveryMethodPickup
	}

	if err := s.validate(input, effective, giftOnly); err != nil {
		return Result{}, err
	}

	lines, giftMeta, err := s.priceLines(ctx, input)
	if err != nil {
		return Result{}, err
	}

	ledger := cart.NewLedgerFromLines(lines, effective, s.rates)
	effective = ledger.EffectiveMode(effective)

	order, reservations, decrements := s.buildOrder(input, ledger, effective, giftMeta)

	number, err := s.store.NextOrderNumber(ctx, s.shopCfg.OrderNumberPrefix, s.now())
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
	}
	order.OrderNumber = number

	accountCreated := false
	if actorID != nil {
		order.UserID = actorID
	} else if input.CreateAccount != nil {
		user, err := s.registerAccount(ctx, input)
		if err != nil {
			return Result{}, err
		}
		order.UserID = &user.ID
		accountCreated = true
	}

	placed, err := s.store.PlaceOrder(ctx, order, reservations, decrements)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.afterCommit(ctx, placed, giftMeta)

	return Result{Order: orders.ToDTO(*placed), AccountCreated: accountCreated}, nil
}

// validate aggregates every form problem into one validation error.
func (s *service) validate(input Input, mode enums.DeliveryMethod, giftOnly bool) error {
	var violations error

	requireField := func(value, label string) {
		if strings.TrimSpace(value) == "" {
			violations = multierr.Append(violations, errors.New(label+" is required"))
		}
	}

	requireField(input.Name, "name")
	requireField(input.LastName, "last name")
	requireField(input.Email, "email")
	requireField(input.Phone, "phone")

	if mode == enums.DeliveryMethodDelivery && !giftOnly {
		requireField(input.Address, "address")
		requireField(input.City, "city")
		requireField(input.PostalCode, "postal code")
		requireField(input.Province, "province")
	}

	if input.CreateAccount != nil {
		if input.CreateAccount.Password != input.CreateAccount.ConfirmPassword {
			violations = multierr.Append(violations, errors.New("passwords do not match"))
		} else if len(input.CreateAccount.Password) < 8 {
			violations = multierr.Append(violations, errors.New("password must be at least 8 characters"))
		}
	}

	for _, line := range input.RegularLines {
		if line.Quantity < 1 {
			violations = multierr.Append(violations, errors.New("line quantity must be at least 1"))
			break
		}
	}

	if violations == nil {
		return nil
	}

	parts := make([]string, 0)
	for _, err := range multierr.Errors(violations) {
		parts = append(parts, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(parts, "; "))
}

// giftLineMeta carries list context a gift line needs after pricing.
type giftLineMeta struct {
	Line       cart.Line
	ListID     uuid.UUID
	ListItemID uuid.UUID
	ListTitle  string
	OwnerID    uuid.UUID
	OwnerName  string
	OwnerEmail string
	Note       string
}

func (s *service) priceLines(ctx context.Context, input Input) ([]cart.Line, []giftLineMeta, error) {
	lines := make([]cart.Line, 0, len(input.RegularLines)+len(input.GiftLines))

	for _, in := range input.RegularLines {
		product, err := s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product "+product.Name+" is no longer available")
		}
		lines = append(lines, cart.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  in.Quantity,
		})
	}

	giftMeta := make([]giftLineMeta, 0, len(input.GiftLines))
	for _, in := range input.GiftLines {
		item, err := s.lists.FindItem(ctx, in.ListID, in.ListItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "list item not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list item")
		}

		list, err := s.lists.FindListByID(ctx, in.ListID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "birth list not found")
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load birth list")
		}
		if list.Status != enums.ListStatusActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "birth list is closed")
		}

		owner, err := s.users.FindByID(ctx, list.OwnerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load list owner")
		}

		meta := giftLineMeta{
			ListID:     in.ListID,
			ListItemID: in.ListItemID,
			ListTitle:  list.Title,
			OwnerID:    list.OwnerID,
			Note:       in.Note,
		}
		if owner != nil {
			meta.OwnerName = strings.TrimSpace(owner.Name + " " + owner.LastName)
			meta.OwnerEmail = owner.Email
		}

		line := cart.Line{
			ProductID: item.ProductID,
			Name:      item.Snapshot.Name,
			Price:     cart.NormalizePrice(item.Snapshot.Price),
			Quantity:  1,
			IsGift:    true,
			ListOwner: meta.OwnerName,
			GiftNote:  in.Note,
		}
		meta.Line = line
		lines = append(lines, line)
		giftMeta = append(giftMeta, meta)
	}

	return lines, giftMeta, nil
}

func (s *service) buildOrder(input Input, ledger *cart.Ledger, effective enums.DeliveryMethod, giftMeta []giftLineMeta) (*models.Order, []Reservation, []StockDecrement) {
	order := &models.Order{
		Email:          normalizeEmail(input.Email),
		Status:         enums.OrderStatusPending,
		DeliveryMethod: effective,
		HasGiftItems:   ledger.HasGiftItems(),
		IsGiftOnly:     ledger.IsGiftOnly(),
		Subtotal:       ledger.Subtotal(),
		Shipping:       ledger.ShippingCost(effective),
		Tax:            ledger.Tax(),
		Total:          ledger.Total(effective),
	}

	if effective == enums.DeliveryMethodDelivery {
		order.ShippingDetails = types.Address{
			Name:       strings.TrimSpace(input.Name),
			LastName:   strings.TrimSpace(input.LastName),
			Phone:      strings.TrimSpace(input.Phone),
			Address:    strings.TrimSpace(input.Address),
			City:       strings.TrimSpace(input.City),
			PostalCode: strings.TrimSpace(input.PostalCode),
			Province:   strings.TrimSpace(input.Province),
		}
	}

	var reservations []Reservation
	var decrements []StockDecrement
	buyerName := strings.TrimSpace(input.Name + " " + input.LastName)

	// Gift lines keep the order they were priced in, so giftMeta lines up
	// index for index. Keying by product id would conflate a gift with a
	// regular purchase of the same product.
	giftIdx := 0
	for _, line := range ledger.Lines() {
		item := models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			IsGift:    line.IsGift,
		}
		if line.IsGift {
			meta := giftMeta[giftIdx]
			giftIdx++
			listID := meta.ListID
			itemID := meta.ListItemID
			item.ListID = &listID
			item.ListItemID = &itemID
			if meta.OwnerName != "" {
				owner := meta.OwnerName
				item.ListOwner = &owner
			}
			item.BuyerInfo = &types.BuyerInfo{
				Name:  buyerName,
				Email: normalizeEmail(input.Email),
				Phone: strings.TrimSpace(input.Phone),
				Note:  meta.Note,
			}
			reservations = append(reservations, Reservation{ListID: meta.ListID, ItemID: meta.ListItemID, Qty: 1})
		} else {
			decrements = append(decrements, StockDecrement{ProductID: line.ProductID, Qty: line.Quantity})
		}
		order.Items = append(order.Items, item)
	}

	return order, reservations, decrements
}

// afterCommit runs the best-effort follow-ups. Failures are logged and
// never surface to the buyer; the order is already committed.
func (s *service) afterCommit(ctx context.Context, order *models.Order, giftMeta []giftLineMeta) {
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if order.UserID != nil && order.DeliveryMethod == enums.DeliveryMethodDelivery && !order.ShippingDetails.IsZero() {
		if err := s.users.UpdateShippingAddress(ctx, *order.UserID, order.ShippingDetails); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "save shipping address failed")
		}
	}

	if err := s.notifier.RecordReceipt(ctx, notifications.ReceiptInput{
		UserID:      order.UserID,
		Email:       order.Email,
		OrderNumber: order.OrderNumber,
		Total:       order.Total.StringFixed(2),
	}); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "record receipt failed")
	}

	var buyerName string
	for _, item := range order.Items {
		if item.IsGift && item.BuyerInfo != nil {
			buyerName = item.BuyerInfo.Name
			break
		}
	}

	for _, meta := range giftMeta {
		if meta.OwnerEmail == "" {
			continue
		}
		ownerID := meta.OwnerID
		giftCtx := s.logg.WithListID(ctx, meta.ListID.String())
		if err := s.notifier.RecordGiftReserved(giftCtx, notifications.GiftReservedInput{
			OwnerID:     &ownerID,
			Email:       meta.OwnerEmail,
			ListTitle:   meta.ListTitle,
			ProductName: meta.Line.Name,
			BuyerName:   buyerName,
		}); err != nil {
			s.logg.Warn(s.logg.WithField(giftCtx, "error", err.Error()), "record gift notification failed")
		}
	}
}

func (s *service) registerAccount(ctx context.Context, input Input) (*models.User, error) {
	hash, err := security.HashPassword(input.CreateAccount.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
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
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
