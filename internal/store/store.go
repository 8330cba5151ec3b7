package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// ListProducts retrieves the entire product collection. Filtering and
// sorting happen in memory after the fetch; the boundary exposes no
// server-side queries.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY name"); err != nil {
		return nil, err
	}

	for i := range products {
		images, err := s.listProductImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images
	}
	return products, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	images, err := s.listProductImages(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images
	return &product, nil
}

func (s *Store) listProductImages(ctx context.Context, productID string) ([]string, error) {
	var images []string
	err := s.db.SelectContext(ctx, &images,
		"SELECT url FROM product_images WHERE product_id = $1 ORDER BY position", productID)
	return images, err
}

// CreateProduct inserts a product and its image references
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, name, description, price, category, stock, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	if err := tx.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Category, product.Stock, product.Status,
	).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if err := replaceProductImagesTx(ctx, tx, product.ID, product.Images); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateProduct rewrites a product record and its image references
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4,
		    stock = $5, status = $6, updated_at = NOW()
		WHERE id = $7`,
		product.Name, product.Description, product.Price, product.Category,
		product.Stock, product.Status, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product not found: %s", product.ID)
	}

	if err := replaceProductImagesTx(ctx, tx, product.ID, product.Images); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceProductImagesTx(ctx context.Context, tx *sqlx.Tx, productID string, images []string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM product_images WHERE product_id = $1", productID); err != nil {
		return fmt.Errorf("failed to clear product images: %w", err)
	}
	for i, url := range images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, position, url) VALUES ($1, $2, $3)",
			productID, i, url); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}

// DeleteProduct removes a product and its image references
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// ListCategories retrieves the entire category collection
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, err
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, image)
		VALUES ($1, $2, $3)
		RETURNING created_at`
	return s.db.QueryRowxContext(ctx, query,
		category.ID, category.Name, category.Image).Scan(&category.CreatedAt)
}

// UpdateCategory updates a category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, image = $2 WHERE id = $3",
		category.Name, category.Image, category.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category not found: %s", category.ID)
	}
	return nil
}

// DeleteCategory removes a category
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return err
}
