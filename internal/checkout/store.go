package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Avannubo/subirananadons-backend/internal/orders"
	"github.com/Avannubo/subirananadons-backend/internal/products"
	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/db/models"
)

// Reservation marks a birth-list item as bought.
type Reservation struct {
	ListID uuid.UUID
	ItemID uuid.UUID
	Qty    int
}

// StockDecrement records sold stock for a regular line.
type StockDecrement struct {
	ProductID uuid.UUID
	Qty       int
}

// Store commits a checkout in one transaction: the order row with its
// lines, the reserved counters on gifted list items, and the stock
// decrements for own purchases.
type Store struct {
	client      *db.Client
	orderRepo   *orders.Repository
	listRepo    *registry.Repository
	productRepo *products.Repository
}

func NewStore(client *db.Client, orderRepo *orders.Repository, listRepo *registry.Repository, productRepo *products.Repository) *Store {
	return &Store{
		client:      client,
		orderRepo:   orderRepo,
		listRepo:    listRepo,
		productRepo: productRepo,
	}
}

func (s *Store) NextOrderNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	return s.orderRepo.NextOrderNumber(ctx, prefix, now)
}

func (s *Store) PlaceOrder(ctx context.Context, order *models.Order, reservations []Reservation, decrements []StockDecrement) (*models.Order, error) {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		listRepo := s.listRepo.WithTx(tx)
		for _, res := range reservations {
			if err := listRepo.Reserve(ctx, res.ListID, res.ItemID, res.Qty); err != nil {
				return err
			}
		}
		productRepo := s.productRepo.WithTx(tx)
		for _, dec := range decrements {
			if err := productRepo.DecrementStock(ctx, dec.ProductID, dec.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
