package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddCartItemInput struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (in AddCartItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProductID, validation.Required),
		validation.Field(&in.Quantity, validation.Required, validation.Min(1), validation.Max(maxCartQuantity)),
	)
}

// Cart is a user's cart with its computed total.
type Cart struct {
	Items []models.CartItem `json:"items"`
	Total int64             `json:"cartTotal"`
}

// CartService manages the authenticated user's cart. The user id always
// comes from the authenticated identity, never from the request body.
type CartService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCartService(m repomanager.RepositoryManager, logger logging.Logger) *CartService {
	return &CartService{repomanager: m, logger: logger.With("module", "carts")}
}

// AddItem adds a product line priced at the product's current price.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddCartItemInput) (*models.CartItem, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if err := checkID("product", in.ProductID); err != nil {
		return nil, err
	}

	db := s.repomanager.DB()

	p, err := s.repomanager.Products(db).FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	return s.repomanager.Carts(db).Add(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: p.ID,
		Color:     in.Color,
		Price:     p.Price,
		Quantity:  in.Quantity,
	})
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*Cart, error) {
	items, err := s.repomanager.Carts(s.repomanager.DB()).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Cart{Items: items, Total: cartTotal(items)}, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) error {
	if err := validation.Validate(qty, validation.Required, validation.Min(1), validation.Max(maxCartQuantity)); err != nil {
		return fmt.Errorf("%w: quantity %v", common.ErrorValidation, err)
	}
	if err := checkID("cart item", itemID); err != nil {
		return err
	}
	return s.repomanager.Carts(s.repomanager.DB()).UpdateQuantity(ctx, userID, itemID, qty)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if err := checkID("cart item", itemID); err != nil {
		return err
	}
	return s.repomanager.Carts(s.repomanager.DB()).Remove(ctx, userID, itemID)
}

func (s *CartService) EmptyCart(ctx context.Context, userID string) error {
	return s.repomanager.Carts(s.repomanager.DB()).ClearByUser(ctx, userID)
}

func cartTotal(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
