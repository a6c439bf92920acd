package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"magazzino/internal/filters"
	"magazzino/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a new product; GORM assigns ID and CreatedAt.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Update persists a full record. GORM's Save writes all fields, so callers
// must pass a record loaded from the store with the changes applied.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so
		// check RowsAffected.
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product by ID, reporting whether a row was removed.
func (r *GORMProductRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of products matching the filter spec.
func (r *GORMProductRepository) Count(spec filters.Spec) (int64, error) {
	var total int64
	if err := r.filtered(spec).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// List applies the filter spec, orders newest first and returns the
// requested slice plus the total matching count.
func (r *GORMProductRepository) List(spec filters.Spec, offset, limit int) ([]models.Product, int64, error) {
	query := r.filtered(spec)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// filtered builds the ANDed predicate query for a filter spec. The name
// match lowers both sides so behaviour is identical on sqlite and postgres.
func (r *GORMProductRepository) filtered(spec filters.Spec) *gorm.DB {
	query := r.db.Model(&models.Product{})
	if spec.Query != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(spec.Query)+"%")
	}
	if spec.MinPrice != nil {
		query = query.Where("price_eur >= ?", *spec.MinPrice)
	}
	if spec.MaxPrice != nil {
		query = query.Where("price_eur <= ?", *spec.MaxPrice)
	}
	if spec.InStock {
		query = query.Where("stock > ?", 0)
	}
	return query
}
