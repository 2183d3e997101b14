package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/notifications"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/pagination"
)

type store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
}

// Viewer identifies who is asking; admins see every order.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service exposes order reads, status management, and document rendering.
type Service interface {
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (OrderDTO, error)
	GetByNumber(ctx context.Context, viewer Viewer, number string) (OrderDTO, error)
	List(ctx context.Context, viewer Viewer, filter ListFilter, params pagination.Params) (PageDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (OrderDTO, error)
	Invoice(ctx context.Context, viewer Viewer, id uuid.UUID) ([]byte, string, error)
	SendReceipt(ctx context.Context, viewer Viewer, id uuid.UUID) error
}

type service struct {
	repo     store
	notifier notifications.Service
}

// NewService builds the order service.
func NewService(repo store, notifier notifications.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification service is required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (OrderDTO, error) {
	order, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return OrderDTO{}, err
	}
	return ToDTO(*order), nil
}

// GetByNumber resolves an order by its human-readable number, the handle
// printed on receipts. Visibility rules match Get.
func (s *service) GetByNumber(ctx context.Context, viewer Viewer, number string) (OrderDTO, error) {
	if number == "" {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if viewer.Role != enums.UserRoleAdmin {
		if order.UserID == nil || *order.UserID != viewer.UserID {
			// Hidden rather than forbidden so order numbers cannot be enumerated.
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return ToDTO(*order), nil
}

// List scopes customers to their own orders. The newest order's address is
// echoed back so checkout forms can prefill delivery details; clients ask
// with limit 1 when that is all they need.
func (s *service) List(ctx context.Context, viewer Viewer, filter ListFilter, params pagination.Params) (PageDTO, error) {
	if viewer.Role != enums.UserRoleAdmin {
		filter.UserID = &viewer.UserID
	}

	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ToDTO(row))
	}

	page := PageDTO{Orders: dtos, NextCursor: next}
	if len(rows) > 0 && filter.UserID != nil && !rows[0].ShippingDetails.IsZero() {
		address := rows[0].ShippingDetails
		page.LastShippingDetails = &address
	}
	return page, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (OrderDTO, error) {
	next, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return OrderDTO{}, err
	}

	if !order.Status.CanTransitionTo(next) {
		return OrderDTO{}, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, next),
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = next
	return ToDTO(*order), nil
}

func (s *service) Invoice(ctx context.Context, viewer Viewer, id uuid.UUID) ([]byte, string, error) {
	order, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return nil, "", err
	}

	pdf, err := renderInvoice(order)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return pdf, fmt.Sprintf("factura-%s.pdf", order.OrderNumber), nil
}

func (s *service) SendReceipt(ctx context.Context, viewer Viewer, id uuid.UUID) error {
	order, err := s.loadVisible(ctx, viewer, id)
	if err != nil {
		return err
	}

	return s.notifier.RecordReceipt(ctx, notifications.ReceiptInput{
		UserID:      order.UserID,
		Email:       order.Email,
		OrderNumber: order.OrderNumber,
		Total:       order.Total.StringFixed(2),
	})
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) loadVisible(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.Role != enums.UserRoleAdmin {
		if order.UserID == nil || *order.UserID != viewer.UserID {
			// Hidden rather than forbidden so order ids cannot be enumerated.
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return order, nil
}
