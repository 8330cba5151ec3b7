package service

import (
	"context"
	"fmt"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService reads products and categories. The boundary fetches
// whole collections; filtering and searching happen here, in memory,
// after the fetch. Fine at this catalog's size, revisit if it grows.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ProductFilter narrows the in-memory product list
type ProductFilter struct {
	Category string
	Status   string
	Search   string
}

// Products returns the catalog filtered in memory
func (cs *CatalogService) Products(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Products")
	defer span.End()

	products, err := cs.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchesSearch(&p, filter.Search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func matchesSearch(p *models.Product, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// GetProduct returns one product by id
func (cs *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return cs.store.GetProductByID(ctx, id)
}

// Categories returns the full category collection
func (cs *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cs.store.ListCategories(ctx)
}

// CreateProduct validates and inserts a product
func (cs *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	if err := cs.store.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	cs.logger.Info("Product created", zap.String("product_id", product.ID))
	return nil
}

// UpdateProduct rewrites a product record
func (cs *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := cs.store.UpdateProduct(ctx, product); err != nil {
		return err
	}
	cs.logger.Info("Product updated", zap.String("product_id", product.ID))
	return nil
}

// DeleteProduct removes a product
func (cs *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return cs.store.DeleteProduct(ctx, id)
}

// CreateCategory inserts a category
func (cs *CatalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := cs.store.CreateCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	cs.logger.Info("Category created", zap.String("category_id", category.ID))
	return nil
}

// UpdateCategory updates a category
func (cs *CatalogService) UpdateCategory(ctx context.Context, category *models.Category) error {
	return cs.store.UpdateCategory(ctx, category)
}

// DeleteCategory removes a category
func (cs *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return cs.store.DeleteCategory(ctx, id)
}
