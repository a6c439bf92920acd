package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"magazzino/internal/filters"
	"magazzino/internal/models"
	"magazzino/internal/repositories"
	"magazzino/internal/services"
)

// UIProductHandler serves the server-rendered surface: listing with a create
// form, edit form and delete confirmation. Filter parsing is lenient here: a
// malformed filter is dropped with a message instead of failing the page.
type UIProductHandler struct {
	products *services.ProductService
}

// NewUIProductHandler creates a new UIProductHandler.
func NewUIProductHandler(products *services.ProductService) *UIProductHandler {
	return &UIProductHandler{
		products: products,
	}
}

// RegisterRoutes registers the form UI routes with the Fiber app.
func (h *UIProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/", h.HandleList)
	router.Post("/products/", h.HandleCreate)
	router.Get("/products/:id/edit/", h.HandleEditForm)
	router.Post("/products/:id/edit/", h.HandleEdit)
	router.Get("/products/:id/delete/", h.HandleDeleteConfirm)
	router.Post("/products/:id/delete/", h.HandleDelete)
}

// HandleList renders one page of the filtered catalog plus the create form.
func (h *UIProductHandler) HandleList(c *fiber.Ctx) error {
	return h.renderList(c, "", nil)
}

// HandleCreate handles the create form POST. Success redirects back to the
// listing so a refresh cannot resubmit; failure re-renders the listing with
// the message and the entered values.
func (h *UIProductHandler) HandleCreate(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	priceRaw := strings.TrimSpace(c.FormValue("price_eur"))
	stockRaw := strings.TrimSpace(c.FormValue("stock"))

	form := fiber.Map{
		"FormName":  name,
		"FormPrice": priceRaw,
		"FormStock": stockRaw,
	}

	if name == "" || priceRaw == "" {
		return h.renderList(c, "Name and price are required.", form)
	}
	price, stock, ok := parsePriceStock(priceRaw, stockRaw)
	if !ok {
		return h.renderList(c, "Invalid price or stock.", form)
	}

	if _, err := h.products.Create(name, price, stock); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return h.renderList(c, verr.Error(), form)
		}
		log.Printf("Error creating product: %v", err)
		return fiber.ErrInternalServerError
	}
	return c.Redirect("/products/", fiber.StatusSeeOther)
}

// HandleEditForm renders the edit form for one product.
func (h *UIProductHandler) HandleEditForm(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}
	return c.Render("product_form", fiber.Map{
		"Product":   product,
		"FormName":  product.Name,
		"FormPrice": product.PriceEUR.String(),
		"FormStock": strconv.Itoa(product.Stock),
	})
}

// HandleEdit replaces name, price and stock wholesale. All fields are parsed
// and validated before anything is assigned, so a bad price cannot leave a
// partially updated record behind.
func (h *UIProductHandler) HandleEdit(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(c.FormValue("name"))
	priceRaw := strings.TrimSpace(c.FormValue("price_eur"))
	stockRaw := strings.TrimSpace(c.FormValue("stock"))

	renderError := func(msg string) error {
		return c.Render("product_form", fiber.Map{
			"Product":   product,
			"Error":     msg,
			"FormName":  name,
			"FormPrice": priceRaw,
			"FormStock": stockRaw,
		})
	}

	if name == "" || priceRaw == "" {
		return renderError("Name and price are required.")
	}
	price, stock, ok := parsePriceStock(priceRaw, stockRaw)
	if !ok {
		return renderError("Invalid price or stock.")
	}

	if _, err := h.products.Replace(product.ID, name, price, stock); err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return renderError(verr.Error())
		case errors.Is(err, repositories.ErrProductNotFound):
			return fiber.ErrNotFound
		default:
			log.Printf("Error updating product %d: %v", product.ID, err)
			return fiber.ErrInternalServerError
		}
	}
	return c.Redirect("/products/", fiber.StatusSeeOther)
}

// HandleDeleteConfirm renders the confirmation prompt; the actual deletion
// only happens on POST.
func (h *UIProductHandler) HandleDeleteConfirm(c *fiber.Ctx) error {
	product, err := h.loadProduct(c)
	if err != nil {
		return err
	}
	return c.Render("product_confirm_delete", fiber.Map{
		"Product": product,
	})
}

// HandleDelete performs the deletion and redirects to the listing.
func (h *UIProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.ErrNotFound
	}
	removed, err := h.products.Delete(uint(id))
	if err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return fiber.ErrInternalServerError
	}
	if !removed {
		return fiber.ErrNotFound
	}
	return c.Redirect("/products/", fiber.StatusSeeOther)
}

// renderList runs the lenient filter pipeline and renders the listing.
// formError/formValues carry a failed create submission back into the page.
func (h *UIProductHandler) renderList(c *fiber.Ctx, formError string, formValues fiber.Map) error {
	spec, fieldErrs := filters.Parse(filters.Values{
		Query:    c.Query("q"),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		InStock:  c.Query("in_stock"),
	}, filters.Lenient)

	errMsg := formError
	if errMsg == "" && len(fieldErrs) > 0 {
		errMsg = fieldErrs[0].Message
	}

	total, err := h.products.Count(spec)
	if err != nil {
		log.Printf("Error counting products: %v", err)
		return fiber.ErrInternalServerError
	}
	page := filters.ClampPage(c.Query("page"), total, filters.UIPageSize)

	products, _, err := h.products.List(spec, page.Offset, page.Size)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return fiber.ErrInternalServerError
	}

	data := fiber.Map{
		"Products":  products,
		"Page":      page,
		"Error":     errMsg,
		"Query":     spec.Query,
		"MinPrice":  c.Query("min_price"),
		"MaxPrice":  c.Query("max_price"),
		"InStock":   spec.InStock,
		"FormName":  "",
		"FormPrice": "",
		"FormStock": "",
	}
	for k, v := range formValues {
		data[k] = v
	}
	return c.Render("products", data)
}

// parsePriceStock converts the raw form fields. An empty stock defaults to
// 0, matching the create form's optional field.
func parsePriceStock(priceRaw, stockRaw string) (decimal.Decimal, int, bool) {
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return decimal.Decimal{}, 0, false
	}
	stock := 0
	if stockRaw != "" {
		stock, err = strconv.Atoi(stockRaw)
		if err != nil {
			return decimal.Decimal{}, 0, false
		}
	}
	return price, stock, true
}

func (h *UIProductHandler) loadProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	product, err := h.products.Get(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, fiber.ErrNotFound
		}
		log.Printf("Error loading product %d: %v", id, err)
		return nil, fiber.ErrInternalServerError
	}
	return product, nil
}
