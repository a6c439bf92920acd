package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"magazzino/internal/filters"
	"magazzino/internal/models"
	"magazzino/internal/repositories"
	"magazzino/internal/services"
)

// APIProductHandler serves the JSON surface of the catalog. Query-parameter
// parsing is strict: any malformed field rejects the whole request.
type APIProductHandler struct {
	products *services.ProductService
	validate *validator.Validate
}

// NewAPIProductHandler creates a new APIProductHandler.
func NewAPIProductHandler(products *services.ProductService) *APIProductHandler {
	return &APIProductHandler{
		products: products,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product API routes with the Fiber app.
func (h *APIProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleList)
	router.Get("/products/:id", h.HandleGet)
	router.Post("/products", h.HandleCreate)
	router.Patch("/products/:id", h.HandlePatch)
	router.Delete("/products/:id", h.HandleDelete)
}

// productResponse is the wire form of a product. The price is a
// decimal-preserving string rather than a JSON number so that "9.99" comes
// back as "9.99", and the timestamp is RFC 3339.
type productResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PriceEUR  string `json:"price_eur"`
	Stock     int    `json:"stock"`
	CreatedAt string `json:"created_at"`
}

func newProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		PriceEUR:  p.PriceEUR.String(),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// HandleList returns one slice of the filtered catalog together with the
// total match count, so clients can do their own pagination math.
func (h *APIProductHandler) HandleList(c *fiber.Ctx) error {
	spec, fieldErrs := filters.Parse(filters.Values{
		Query:    c.Query("q"),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		InStock:  c.Query("in_stock"),
		Limit:    c.Query("limit"),
		Offset:   c.Query("offset"),
	}, filters.Strict)
	if len(fieldErrs) > 0 {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field] = fe.Message
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"errors":  details,
		})
	}

	products, total, err := h.products.List(spec, spec.Offset, spec.Limit)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}

	items := make([]productResponse, len(products))
	for i := range products {
		items[i] = newProductResponse(&products[i])
	}
	return c.JSON(fiber.Map{
		"total":  total,
		"limit":  spec.Limit,
		"offset": spec.Offset,
		"items":  items,
	})
}

// HandleGet returns a single product by ID.
func (h *APIProductHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFoundResponse(c)
	}
	product, err := h.products.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFoundResponse(c)
		}
		log.Printf("Error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(newProductResponse(product))
}

// createProductRequest uses pointers so that "absent" and "zero" are
// distinguishable; decimal.Decimal accepts both JSON numbers and strings.
type createProductRequest struct {
	Name     string           `json:"name" validate:"required,max=120"`
	PriceEUR *decimal.Decimal `json:"price_eur" validate:"required"`
	Stock    *int             `json:"stock" validate:"omitempty,gte=0"`
}

// HandleCreate creates a product from a JSON body.
func (h *APIProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailedResponse(c, err)
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	product, err := h.products.Create(req.Name, *req.PriceEUR, stock)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		}
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(newProductResponse(product))
}

// updateProductRequest carries a partial update; nil fields are untouched.
type updateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,max=120"`
	PriceEUR *decimal.Decimal `json:"price_eur"`
	Stock    *int             `json:"stock" validate:"omitempty,gte=0"`
}

// HandlePatch overwrites only the fields present in the JSON body.
func (h *APIProductHandler) HandlePatch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFoundResponse(c)
	}
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailedResponse(c, err)
	}

	product, err := h.products.Patch(id, services.ProductChanges{
		Name:     req.Name,
		PriceEUR: req.PriceEUR,
		Stock:    req.Stock,
	})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		case errors.Is(err, repositories.ErrProductNotFound):
			return notFoundResponse(c)
		default:
			log.Printf("Error updating product %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update product",
			})
		}
	}
	return c.JSON(newProductResponse(product))
}

// HandleDelete removes a product. 204 when a row was removed, 404 when there
// was nothing to remove.
func (h *APIProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return notFoundResponse(c)
	}
	removed, err := h.products.Delete(id)
	if err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
		})
	}
	if !removed {
		return notFoundResponse(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func notFoundResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Product not found",
	})
}

func validationFailedResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
