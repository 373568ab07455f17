package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/floraapp/flora-gateway/internal/form"
)

func (s *Server) registerFormRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCreateForm",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/form",
		Summary:     "Get create form",
		Description: "Returns an empty plant form with the options of every taxonomy picker",
		Tags:        []string{"Forms"},
	}, s.handleGetCreateForm)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEditForm",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}/form",
		Summary:     "Get edit form",
		Description: "Returns the plant's editable values with each taxonomy preselected by name",
		Tags:        []string{"Forms"},
	}, s.handleGetEditForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPlant",
		Method:        http.MethodPost,
		Path:          "/api/v1/plants",
		Summary:       "Create plant",
		Description:   "Validates the form and creates the plant in the catalog",
		Tags:          []string{"Plants"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePlant)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePlant",
		Method:      http.MethodPut,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Update plant",
		Description: "Validates the form and replaces the plant in the catalog",
		Tags:        []string{"Plants"},
	}, s.handleUpdatePlant)
}

// FormOutput contains a plant form.
type FormOutput struct {
	Body *form.Form
}

// CreatePlantInput contains the create request.
type CreatePlantInput struct {
	Body form.Input
}

// UpdatePlantInput contains the update request.
type UpdatePlantInput struct {
	ID   int `path:"id" minimum:"1" doc:"Plant ID"`
	Body form.Input
}

func (s *Server) handleGetCreateForm(ctx context.Context, _ *struct{}) (*FormOutput, error) {
	f, err := s.forms.Blank(ctx)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &FormOutput{Body: f}, nil
}

func (s *Server) handleGetEditForm(ctx context.Context, input *PlantIDInput) (*FormOutput, error) {
	f, err := s.forms.Edit(ctx, input.ID)
	if err != nil {
		return nil, fromDomain(err)
	}
	return &FormOutput{Body: f}, nil
}

func (s *Server) handleCreatePlant(ctx context.Context, input *CreatePlantInput) (*MutationOutput, error) {
	if err := s.forms.Create(ctx, input.Body); err != nil {
		return nil, fromDomain(err)
	}
	return &MutationOutput{Body: MutationResponse{Message: "plant created"}}, nil
}

func (s *Server) handleUpdatePlant(ctx context.Context, input *UpdatePlantInput) (*MutationOutput, error) {
	if err := s.forms.Update(ctx, input.ID, input.Body); err != nil {
		return nil, fromDomain(err)
	}
	return &MutationOutput{Body: MutationResponse{ID: input.ID, Message: "plant updated"}}, nil
}
