package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
)

type store interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
}

// ReceiptInput describes an order confirmation message.
type ReceiptInput struct {
	UserID      *uuid.UUID
	Email       string
	OrderNumber string
	Total       string
}

// GiftReservedInput tells a list owner one of their items was bought.
type GiftReservedInput struct {
	OwnerID     *uuid.UUID
	Email       string
	ListTitle   string
	ProductName string
	BuyerName   string
}

// Service records outbound notifications. Actual delivery happens out of
// band; the rows double as an audit trail.
type Service interface {
	RecordReceipt(ctx context.Context, input ReceiptInput) error
	RecordGiftReserved(ctx context.Context, input GiftReservedInput) error
}

type service struct {
	repo store
}

func NewService(repo store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordReceipt(ctx context.Context, input ReceiptInput) error {
	if input.Email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receipt email is required")
	}

	_, err := s.repo.Create(ctx, &models.Notification{
		UserID:  input.UserID,
		Email:   input.Email,
		Kind:    enums.NotificationKindOrderReceipt,
		Subject: fmt.Sprintf("Confirmación de pedido %s", input.OrderNumber),
		Body:    fmt.Sprintf("Hemos recibido tu pedido %s por un total de %s €.", input.OrderNumber, input.Total),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record receipt")
	}
	return nil
}

func (s *service) RecordGiftReserved(ctx context.Context, input GiftReservedInput) error {
	if input.Email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner email is required")
	}

	buyer := input.BuyerName
	if buyer == "" {
		buyer = "Alguien"
	}

	_, err := s.repo.Create(ctx, &models.Notification{
		UserID:  input.OwnerID,
		Email:   input.Email,
		Kind:    enums.NotificationKindGiftReserved,
		Subject: fmt.Sprintf("Regalo reservado en %s", input.ListTitle),
		Body:    fmt.Sprintf("%s ha reservado %s de tu lista %s.", buyer, input.ProductName, input.ListTitle),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record gift reservation")
	}
	return nil
}
