// Package graph exposes a read-only GraphQL view of the catalog.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
)

// NewSchema builds the catalog query schema over the given services.
func NewSchema(catalog *services.CatalogService, products *services.ProductService) (graphql.Schema, error) {
	subcategoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subcategory",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"name":       &graphql.Field{Type: graphql.String},
			"image":      &graphql.Field{Type: graphql.String},
			"categoryId": &graphql.Field{Type: graphql.Int},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"name":          &graphql.Field{Type: graphql.String},
			"image":         &graphql.Field{Type: graphql.String},
			"subcategories": &graphql.Field{Type: graphql.NewList(subcategoryType)},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"name":          &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"brand":         &graphql.Field{Type: graphql.String},
			"price":         &graphql.Field{Type: graphql.Float},
			"stock":         &graphql.Field{Type: graphql.Int},
			"images":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			"averageRating": &graphql.Field{Type: graphql.Float},
			"categoryId":    &graphql.Field{Type: graphql.Int},
			"subcategoryId": &graphql.Field{Type: graphql.Int},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.ListCategories(p.Context)
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId":    &graphql.ArgumentConfig{Type: graphql.Int},
					"subcategoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"brand":         &graphql.ArgumentConfig{Type: graphql.String},
					"search":        &graphql.ArgumentConfig{Type: graphql.String},
					"page":          &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 15},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := repositories.ProductFilter{
						Page:    intArg(p, "page", 1),
						PerPage: intArg(p, "perPage", 15),
					}
					filter.CategoryID = uint(intArg(p, "categoryId", 0))
					filter.SubcategoryID = uint(intArg(p, "subcategoryId", 0))
					if b, ok := p.Args["brand"].(string); ok {
						filter.Brand = b
					}
					if s, ok := p.Args["search"].(string); ok {
						filter.Search = s
					}
					items, _, err := products.List(p.Context, filter)
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.Get(p.Context, uint(intArg(p, "id", 0)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func intArg(p graphql.ResolveParams, name string, fallback int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return fallback
}
