package repositories

import (
	"errors"

	"magazzino/internal/filters"
	"magazzino/internal/models"
)

// ErrProductNotFound is returned when an id resolves to no product.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	Update(product *models.Product) error
	// Delete reports whether a row was actually removed; deleting an
	// absent id is not an error.
	Delete(id uint) (bool, error)
	// Count returns the number of products matching the filter spec.
	Count(spec filters.Spec) (int64, error)
	// List returns one slice of the filtered catalog, newest first, plus
	// the total matching count independent of the slice.
	List(spec filters.Spec, offset, limit int) ([]models.Product, int64, error)
}
