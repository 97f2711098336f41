package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestCategoryCRUD(t *testing.T) {
	f := newFixtures(t)
	svc := NewCatalogService(f.catalog)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{
		Name: "Electronics", Image: "https://example.com/e.png",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, created.ID, CategoryInput{
		Name: "Gadgets", Image: "https://example.com/g.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gadgets", updated.Name)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), apperr.ErrNotFound)
}

func TestSubcategoryRequiresParent(t *testing.T) {
	f := newFixtures(t)
	svc := NewCatalogService(f.catalog)
	ctx := context.Background()

	_, err := svc.CreateSubcategory(ctx, SubcategoryInput{
		Name: "Phones", Image: "https://example.com/p.png", CategoryID: 999,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCategoryLeavesProducts(t *testing.T) {
	f := newFixtures(t)
	svc := NewCatalogService(f.catalog)
	ctx := context.Background()

	// seedProduct builds a category -> subcategory -> product chain.
	product := f.seedProduct(t, "widget", 10)

	require.NoError(t, svc.DeleteCategory(ctx, product.CategoryID))

	// Subcategories go with the category; products stay behind with a
	// dangling category reference.
	var subs, products int64
	f.db.Model(&models.Subcategory{}).Where("category_id = ?", product.CategoryID).Count(&subs)
	f.db.Model(&models.Product{}).Where("category_id = ?", product.CategoryID).Count(&products)
	assert.Zero(t, subs)
	assert.EqualValues(t, 1, products)
}

func TestDeleteSubcategoryLeavesProducts(t *testing.T) {
	f := newFixtures(t)
	svc := NewCatalogService(f.catalog)
	ctx := context.Background()

	product := f.seedProduct(t, "widget", 10)

	require.NoError(t, svc.DeleteSubcategory(ctx, product.SubcategoryID))

	var products int64
	f.db.Model(&models.Product{}).Where("subcategory_id = ?", product.SubcategoryID).Count(&products)
	assert.EqualValues(t, 1, products)

	// The parent category survives.
	_, err := svc.GetCategory(ctx, product.CategoryID)
	assert.NoError(t, err)
}
