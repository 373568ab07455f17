package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/floraapp/flora-gateway/internal/catalog"
)

func (s *Server) registerTaxonomyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every taxonomic category as stored by the catalog service",
		Tags:        []string{"Taxonomy"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "listClassifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/classifications",
		Summary:     "List classifications",
		Description: "Returns every angiosperm classification (plant type)",
		Tags:        []string{"Taxonomy"},
	}, s.handleListClassifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOrigins",
		Method:      http.MethodGet,
		Path:        "/api/v1/origins",
		Summary:     "List origins",
		Description: "Returns every plant origin",
		Tags:        []string{"Taxonomy"},
	}, s.handleListOrigins)
}

// ListCategoriesOutput contains the category list.
type ListCategoriesOutput struct {
	Body []catalog.Category
}

// ListClassificationsOutput contains the classification list.
type ListClassificationsOutput struct {
	Body []catalog.Classification
}

// ListOriginsOutput contains the origin list.
type ListOriginsOutput struct {
	Body []catalog.Origin
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	items, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &ListCategoriesOutput{Body: items}, nil
}

func (s *Server) handleListClassifications(ctx context.Context, _ *struct{}) (*ListClassificationsOutput, error) {
	items, err := s.catalog.GetClassifications(ctx)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &ListClassificationsOutput{Body: items}, nil
}

func (s *Server) handleListOrigins(ctx context.Context, _ *struct{}) (*ListOriginsOutput, error) {
	items, err := s.catalog.GetOrigins(ctx)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &ListOriginsOutput{Body: items}, nil
}
