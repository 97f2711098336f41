package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

// ProductController serves public product reads plus the authenticated
// rating and comment writes.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List returns a filtered product page.
// GET /api/products
func (pc *ProductController) List(c *ctx.Context) {
	filter := repositories.ProductFilter{
		CategoryID:    uint(c.QueryInt("category_id", 0)),
		SubcategoryID: uint(c.QueryInt("subcategory_id", 0)),
		Brand:         c.Query("brand"),
		Search:        c.Query("search"),
		Page:          c.QueryInt("page", 1),
		PerPage:       c.QueryInt("per_page", 15),
	}
	products, page, err := pc.products.List(c.Ctx(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(products, page)
}

// Get returns one product with its comments.
// GET /api/products/{id}
func (pc *ProductController) Get(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	product, err := pc.products.Get(c.Ctx(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

// Brands returns the distinct brand names.
// GET /api/products/brands
func (pc *ProductController) Brands(c *ctx.Context) {
	brands, err := pc.products.Brands(c.Ctx())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(brands)
}

type rateInput struct {
	Rating int `json:"rating" validate:"required,integer"`
}

// Rate stores the caller's rating and returns the product with its
// refreshed average.
// POST /api/products/{id}/rate
func (pc *ProductController) Rate(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var in rateInput
	if !c.Bind(&in) {
		return
	}
	product, err := pc.products.Rate(c.Ctx(), id, c.UserID(), in.Rating)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

// Comment appends a comment and returns the product with comments
// resolved.
// POST /api/products/{id}/comments
func (pc *ProductController) Comment(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Product not found")
		return
	}
	var in services.CommentInput
	if !c.Bind(&in) {
		return
	}
	product, err := pc.products.Comment(c.Ctx(), id, c.UserID(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}
