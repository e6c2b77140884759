package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

type OrderService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewOrderService(m repomanager.RepositoryManager, logger logging.Logger) *OrderService {
	return &OrderService{repomanager: m, logger: logger.With("module", "orders")}
}

// PlaceOrder turns the user's cart into an order. Reading the cart, writing
// the order, moving stock to sold and emptying the cart happen in one
// transaction. An empty shipping address falls back to the saved address.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, shippingAddress string) (*models.Order, error) {
	var order *models.Order

	err := dbx.WithTx(ctx, s.repomanager.DB(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		items, err := s.repomanager.Carts(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart is empty", common.ErrorValidation)
		}

		address := strings.TrimSpace(shippingAddress)
		if address == "" {
			u, err := s.repomanager.Users(tx).FindByID(ctx, userID)
			if err != nil {
				return err
			}
			address = u.Address
		}

		o := &models.Order{
			UserID:          userID,
			ShippingAddress: address,
			TotalPrice:      cartTotal(items),
			Items:           make([]models.OrderItem, len(items)),
		}
		for i, it := range items {
			o.Items[i] = models.OrderItem{
				ProductID: it.ProductID,
				Color:     it.Color,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
		}

		order, err = s.repomanager.Orders(tx).Create(ctx, o)
		if err != nil {
			return err
		}

		productRepo := s.repomanager.Products(tx)
		for _, it := range items {
			if err := productRepo.RecordSale(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		return s.repomanager.Carts(tx).ClearByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order placed", "order_id", order.ID, "user_id", userID, "total", order.TotalPrice)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.repomanager.Orders(s.repomanager.DB()).ListByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.repomanager.Orders(s.repomanager.DB()).List(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	allowed := make([]any, len(models.OrderStatuses))
	for i, st := range models.OrderStatuses {
		allowed[i] = st
	}
	if err := validation.Validate(status, validation.Required, validation.In(allowed...)); err != nil {
		return nil, fmt.Errorf("%w: status %v", common.ErrorValidation, err)
	}
	if err := checkID("order", orderID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Orders(s.repomanager.DB())
	if err := repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order status updated", "order_id", orderID, "status", status)
	return repo.FindByID(ctx, orderID)
}
