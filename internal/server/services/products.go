package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// ProductInput is used for both create and update. On update nil fields are
// kept; on create Title and Price are required and Slug defaults to a
// slugified Title.
type ProductInput struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Brand       *string `json:"brand"`
	Quantity    *int    `json:"quantity"`
}

func (in ProductInput) validate(create bool) error {
	titleRules := []validation.Rule{validation.NilOrNotEmpty, validation.Length(1, 200)}
	priceRules := []validation.Rule{validation.Min(int64(0)), validation.Max(maxPrice)}
	if create {
		titleRules = append(titleRules, validation.NotNil)
		priceRules = append(priceRules, validation.NotNil)
	}

	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, titleRules...),
		validation.Field(&in.Slug, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Price, priceRules...),
		validation.Field(&in.Quantity, validation.Min(0), validation.Max(maxStock)),
	)
}

type ProductService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewProductService(m repomanager.RepositoryManager, logger logging.Logger) *ProductService {
	return &ProductService{repomanager: m, logger: logger.With("module", "products")}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(true); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	p := &models.Product{
		Title: strings.TrimSpace(*in.Title),
		Price: *in.Price,
	}
	if in.Slug != nil {
		p.Slug = Slugify(*in.Slug)
	} else {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("%w: slug: cannot be derived from title", common.ErrorValidation)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}

	created, err := s.repomanager.Products(s.repomanager.DB()).Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product created", "product_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := checkID("product", id); err != nil {
		return nil, err
	}
	if err := in.validate(false); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	patch := products.Patch{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Quantity:    in.Quantity,
	}
	if in.Slug != nil {
		slug := Slugify(*in.Slug)
		patch.Slug = &slug
	}

	return s.repomanager.Products(s.repomanager.DB()).Update(ctx, id, patch)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := checkID("product", id); err != nil {
		return err
	}
	if err := s.repomanager.Products(s.repomanager.DB()).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID("product", id); err != nil {
		return nil, err
	}
	return s.repomanager.Products(s.repomanager.DB()).FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f products.Filter) ([]models.Product, error) {
	return s.repomanager.Products(s.repomanager.DB()).List(ctx, f)
}

// Slugify lowercases s and joins its letter/digit runs with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
