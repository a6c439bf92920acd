package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"magazzino/internal/filters"
	"magazzino/internal/models"
	"magazzino/internal/repositories"
)

// ProductService handles business logic related to products. All writes are
// validated before any field is assigned, so a rejected write never leaves a
// half-mutated record behind.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// List returns one page of the filtered catalog plus the total match count.
func (s *ProductService) List(spec filters.Spec, offset, limit int) ([]models.Product, int64, error) {
	return s.repo.List(spec, offset, limit)
}

// Count returns the number of products matching the filter spec.
func (s *ProductService) Count(spec filters.Spec) (int64, error) {
	return s.repo.Count(spec)
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create validates and persists a new product. Stock defaults to 0 at the
// callers when omitted; a negative price is deliberately not rejected.
func (s *ProductService) Create(name string, price decimal.Decimal, stock int) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProduct(name, stock); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:     name,
		PriceEUR: price,
		Stock:    stock,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Replace overwrites name, price and stock wholesale, as the edit form does.
// The record is loaded first so CreatedAt survives the save untouched.
func (s *ProductService) Replace(id uint, name string, price decimal.Decimal, stock int) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProduct(name, stock); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = name
	product.PriceEUR = price
	product.Stock = stock
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ProductChanges is a partial update: nil fields are left untouched.
type ProductChanges struct {
	Name     *string
	PriceEUR *decimal.Decimal
	Stock    *int
}

// Patch applies the present fields of changes to an existing product.
func (s *ProductService) Patch(id uint, changes ProductChanges) (*models.Product, error) {
	name := ""
	if changes.Name != nil {
		name = strings.TrimSpace(*changes.Name)
	}
	verr := newValidationError()
	if changes.Name != nil && name == "" {
		verr.Fields["name"] = "name must not be empty"
	}
	if changes.Name != nil && len(name) > 120 {
		verr.Fields["name"] = "name must be at most 120 characters"
	}
	if changes.Stock != nil && *changes.Stock < 0 {
		verr.Fields["stock"] = "stock must not be negative"
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if changes.Name != nil {
		product.Name = name
	}
	if changes.PriceEUR != nil {
		product.PriceEUR = *changes.PriceEUR
	}
	if changes.Stock != nil {
		product.Stock = *changes.Stock
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product, reporting whether a row was removed. Deleting an
// already-deleted id is not an error.
func (s *ProductService) Delete(id uint) (bool, error) {
	return s.repo.Delete(id)
}

func validateProduct(name string, stock int) error {
	verr := newValidationError()
	if name == "" {
		verr.Fields["name"] = "name must not be empty"
	} else if len(name) > 120 {
		verr.Fields["name"] = "name must be at most 120 characters"
	}
	if stock < 0 {
		verr.Fields["stock"] = "stock must not be negative"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
