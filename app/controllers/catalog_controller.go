package controllers

import (
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

// CatalogController serves the public category/subcategory reads.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListCategories returns all categories with their subcategories.
// GET /api/categories
func (cc *CatalogController) ListCategories(c *ctx.Context) {
	cs, err := cc.catalog.ListCategories(c.Ctx())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cs)
}

// GetCategory returns one category.
// GET /api/categories/{id}
func (cc *CatalogController) GetCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Category not found")
		return
	}
	category, err := cc.catalog.GetCategory(c.Ctx(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(category)
}

// ListSubcategories returns subcategories, optionally scoped to a
// category via ?category_id=.
// GET /api/subcategories
func (cc *CatalogController) ListSubcategories(c *ctx.Context) {
	categoryID := uint(c.QueryInt("category_id", 0))
	subs, err := cc.catalog.ListSubcategories(c.Ctx(), categoryID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(subs)
}
