package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// AdminController handles the back-office writes: catalog CRUD, order
// management, image uploads and admin account creation.
type AdminController struct {
	auth     *services.AuthService
	catalog  *services.CatalogService
	products *services.ProductService
	orders   *services.OrderService
	disk     storage.Disk
}

func NewAdminController(
	auth *services.AuthService,
	catalog *services.CatalogService,
	products *services.ProductService,
	orders *services.OrderService,
	disk storage.Disk,
) *AdminController {
	return &AdminController{
		auth:     auth,
		catalog:  catalog,
		products: products,
		orders:   orders,
		disk:     disk,
	}
}

// RegisterAdmin creates another admin account.
// POST /api/admin/register
func (a *AdminController) RegisterAdmin(c *ctx.Context) {
	var in services.RegisterInput
	if !c.Bind(&in) {
		return
	}
	user, err := a.auth.RegisterAdmin(c.Ctx(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(user)
}

// ── Categories ───────────────────────────────────────────────────────────────

// CreateCategory creates a category.
// POST /api/admin/categories
func (a *AdminController) CreateCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.Bind(&in) {
		return
	}
	category, err := a.catalog.CreateCategory(c.Ctx(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(category)
}

// UpdateCategory replaces a category's fields.
// PUT /api/admin/categories/{id}
func (a *AdminController) UpdateCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Category not found")
		return
	}
	var in services.CategoryInput
	if !c.Bind(&in) {
		return
	}
	category, err := a.catalog.UpdateCategory(c.Ctx(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(category)
}

// DeleteCategory removes a category with its subcategories and products.
// DELETE /api/admin/categories/{id}
func (a *AdminController) DeleteCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Category not found")
		return
	}
	if err := a.catalog.DeleteCategory(c.Ctx(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Category deleted")
}

// ── Subcategories ────────────────────────────────────────────────────────────

// CreateSubcategory creates a subcategory.
// POST /api/admin/subcategories
func (a *AdminController) CreateSubcategory(c *ctx.Context) {
	var in services.SubcategoryInput
	if !c.Bind(&in) {
		return
	}
	sub, err := a.catalog.CreateSubcategory(c.Ctx(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(sub)
}

// UpdateSubcategory replaces a subcategory's fields.
// PUT /api/admin/subcategories/{id}
func (a *AdminController) UpdateSubcategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Subcategory not found")
		return
	}
	var in services.SubcategoryInput
	if !c.Bind(&in) {
		return
	}
	sub, err := a.catalog.UpdateSubcategory(c.Ctx(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(sub)
}

// DeleteSubcategory removes a subcategory with its products.
// DELETE /api/admin/subcategories/{id}
func (a *AdminController) DeleteSubcategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Subcategory not found")
		return
	}
	if err := a.catalog.DeleteSubcategory(c.Ctx(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Subcategory deleted")
}

// ── Products ─────────────────────────────────────────────────────────────────

// CreateProduct creates a product.
// POST /api/admin/products
func (a *AdminController) CreateProduct(c *ctx.Context) {
	var in services.ProductInput
	if !c.Bind(&in) {
		return
	}
	product, err := a.products.Create(c.Ctx(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

// PatchProduct applies a partial update.
// PATCH /api/admin/products/{id}
func (a *AdminController) PatchProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var patch services.ProductPatch
	if !c.Bind(&patch) {
		return
	}
	product, err := a.products.Patch(c.Ctx(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

// DeleteProduct removes a product with its ratings and comments.
// DELETE /api/admin/products/{id}
func (a *AdminController) DeleteProduct(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	if err := a.products.Delete(c.Ctx(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted")
}

// ── Orders ───────────────────────────────────────────────────────────────────

// ListOrders pages through every order.
// GET /api/admin/orders
func (a *AdminController) ListOrders(c *ctx.Context) {
	orders, page, err := a.orders.ListAll(c.Ctx(), c.QueryInt("page", 1), c.QueryInt("per_page", 15))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(orders, page)
}

// UpdateOrderStatus moves an order to a new status.
// PUT /api/admin/orders/{id}/status
func (a *AdminController) UpdateOrderStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	var in services.UpdateStatusInput
	if !c.Bind(&in) {
		return
	}
	order, err := a.orders.UpdateStatus(c.Ctx(), id, in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

// DeleteOrder removes an order and its items.
// DELETE /api/admin/orders/{id}
func (a *AdminController) DeleteOrder(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	if err := a.orders.Delete(c.Ctx(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Order deleted")
}

// ── Uploads ──────────────────────────────────────────────────────────────────

// Upload stores a product image and returns its public URL.
// POST /api/admin/uploads (multipart, field "file")
func (a *AdminController) Upload(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxUploadBytes)
	if err := c.R.ParseMultipartForm(maxUploadBytes); err != nil {
		c.Error(http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := c.R.FormFile("file")
	if err != nil {
		c.Error(http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		c.Error(http.StatusUnprocessableEntity, "Unsupported image type")
		return
	}

	contentType := header.Header.Get("Content-Type")
	path := fmt.Sprintf("products/%s/%s%s",
		time.Now().Format("2006/01"), reqid.New(), ext)

	url, err := a.disk.Put(c.Ctx(), path, file, contentType)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(map[string]string{"url": url, "path": path})
}
