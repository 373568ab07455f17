package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/floraapp/flora-gateway/internal/catalog"
)

func (s *Server) registerPlantRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPlants",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants",
		Summary:     "List plants",
		Description: "Returns plants with their first image, filtered by category, type, and edibility",
		Tags:        []string{"Plants"},
	}, s.handleListPlants)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchPlants",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/search",
		Summary:     "Search plants",
		Description: "Returns plants whose name matches the query, as decided by the catalog service",
		Tags:        []string{"Plants"},
	}, s.handleSearchPlants)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlant",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Get plant",
		Description: "Returns a single plant. The image is empty if the image list is unavailable",
		Tags:        []string{"Plants"},
	}, s.handleGetPlant)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlant",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Delete plant",
		Description: "Deletes a plant from the catalog",
		Tags:        []string{"Plants"},
	}, s.handleDeletePlant)
}

// ListPlantsInput contains the browse filters.
type ListPlantsInput struct {
	Category  string `query:"category" doc:"Case-insensitive substring of the category name"`
	Type      string `query:"type" doc:"Case-insensitive substring of the type (classification) name"`
	Edibility string `query:"edibility" doc:"comestiveis or nao-comestiveis; other values are ignored"`
}

// SearchPlantsInput contains the search query.
type SearchPlantsInput struct {
	Query string `query:"q" doc:"Name to search for"`
}

// PlantIDInput identifies a plant.
type PlantIDInput struct {
	ID int `path:"id" minimum:"1" doc:"Plant ID"`
}

// PlantListOutput contains a list of plants.
type PlantListOutput struct {
	Body []catalog.PlantView
}

// PlantOutput contains a single plant.
type PlantOutput struct {
	Body catalog.PlantView
}

// MutationResponse acknowledges a write.
type MutationResponse struct {
	ID      int    `json:"id,omitempty" doc:"Plant ID, when known"`
	Message string `json:"message" doc:"What happened"`
}

// MutationOutput wraps MutationResponse for Huma.
type MutationOutput struct {
	Body MutationResponse
}

func (s *Server) handleListPlants(ctx context.Context, input *ListPlantsInput) (*PlantListOutput, error) {
	views, err := s.catalog.ListPlants(ctx, catalog.Filter{
		Category:  input.Category,
		Type:      input.Type,
		Edibility: input.Edibility,
	})
	if err != nil {
		return nil, fromDomain(err)
	}
	return &PlantListOutput{Body: views}, nil
}

func (s *Server) handleSearchPlants(ctx context.Context, input *SearchPlantsInput) (*PlantListOutput, error) {
	views, err := s.catalog.SearchPlants(ctx, input.Query)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &PlantListOutput{Body: views}, nil
}

func (s *Server) handleGetPlant(ctx context.Context, input *PlantIDInput) (*PlantOutput, error) {
	view, err := s.catalog.GetPlantDetails(ctx, input.ID)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &PlantOutput{Body: view}, nil
}

func (s *Server) handleDeletePlant(ctx context.Context, input *PlantIDInput) (*MutationOutput, error) {
	if err := s.catalog.DeletePlant(ctx, input.ID); err != nil {
		return nil, fromDomain(err)
	}
	return &MutationOutput{Body: MutationResponse{ID: input.ID, Message: "plant deleted"}}, nil
}
