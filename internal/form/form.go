// Package form implements the plant create and edit forms: taxonomy pickers,
// prefill from an existing plant, required-field checks, and conversion to
// the catalog write request.
package form

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/floraapp/flora-gateway/internal/catalog"
	domainerrors "github.com/floraapp/flora-gateway/internal/errors"
	"github.com/floraapp/flora-gateway/internal/validation"
)

// DefaultStatus is sent when the input does not set a status.
const DefaultStatus = 1

// Catalog is the subset of catalog.Client the forms use.
type Catalog interface {
	GetPlantDetails(ctx context.Context, id int) (catalog.PlantView, error)
	GetCategories(ctx context.Context) ([]catalog.Category, error)
	GetClassifications(ctx context.Context) ([]catalog.Classification, error)
	GetOrigins(ctx context.Context) ([]catalog.Origin, error)
	CreatePlant(ctx context.Context, req catalog.PlantRequest) error
	UpdatePlant(ctx context.Context, id int, req catalog.PlantRequest) error
}

// Input holds the editable fields of a plant.
type Input struct {
	PopularName      string `json:"popular" validate:"notblank" doc:"Popular name"`
	ScientificName   string `json:"cientifico" validate:"notblank" doc:"Scientific name"`
	Edible           bool   `json:"comestivel" doc:"Whether the plant is edible"`
	CategoryID       int    `json:"categoriaTaxonomicaId" validate:"gt=0" doc:"Selected category id"`
	ClassificationID int    `json:"classificacaoAngiospermaId" validate:"gt=0" doc:"Selected classification id"`
	OriginID         string `json:"origemId" validate:"required,numeric" doc:"Selected origin id"`
	Status           *int   `json:"status,omitempty" validate:"omitempty,oneof=0 1" doc:"Record status, defaults to 1"`
}

// Form is a plant form ready to render: current values plus the options of
// each taxonomy picker.
type Form struct {
	PlantID         int              `json:"id,omitempty"`
	Values          Input            `json:"values"`
	Categories      []catalog.Option `json:"categories"`
	Classifications []catalog.Option `json:"classifications"`
	Origins         []catalog.Option `json:"origins"`

	// Unmatched lists the taxonomy kinds whose current label had no option.
	Unmatched []catalog.TaxonKind `json:"unmatched,omitempty"`
}

// Service loads and submits plant forms.
type Service struct {
	catalog   Catalog
	validator *validation.Validator
	logger    *slog.Logger
}

// NewService creates a form service.
func NewService(c Catalog, v *validation.Validator, logger *slog.Logger) *Service {
	return &Service{
		catalog:   c,
		validator: v,
		logger:    logger,
	}
}

type pickers struct {
	categories      *catalog.Picker[catalog.Category]
	classifications *catalog.Picker[catalog.Classification]
	origins         *catalog.Picker[catalog.Origin]
}

func (p pickers) form() *Form {
	return &Form{
		Categories:      p.categories.Options(),
		Classifications: p.classifications.Options(),
		Origins:         p.origins.Options(),
	}
}

// fetchTaxonomies runs the three taxonomy fetches on g.
func (s *Service) fetchTaxonomies(ctx context.Context, g *errgroup.Group, p *pickers) {
	g.Go(func() error {
		items, err := s.catalog.GetCategories(ctx)
		p.categories = catalog.NewPicker(items)
		return err
	})
	g.Go(func() error {
		items, err := s.catalog.GetClassifications(ctx)
		p.classifications = catalog.NewPicker(items)
		return err
	})
	g.Go(func() error {
		items, err := s.catalog.GetOrigins(ctx)
		p.origins = catalog.NewPicker(items)
		return err
	})
}

// Blank returns an empty create form with all picker options.
func (s *Service) Blank(ctx context.Context) (*Form, error) {
	var p pickers
	g, gctx := errgroup.WithContext(ctx)
	s.fetchTaxonomies(gctx, g, &p)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p.form(), nil
}

// Edit loads the plant and the three taxonomy lists concurrently and
// preselects each picker by exact label match against the plant's names.
func (s *Service) Edit(ctx context.Context, id int) (*Form, error) {
	var (
		p    pickers
		view catalog.PlantView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view, err = s.catalog.GetPlantDetails(gctx, id)
		return err
	})
	s.fetchTaxonomies(gctx, g, &p)
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load plant form", "id", id, "error", err)
		return nil, err
	}

	var unmatched []catalog.TaxonKind
	if !p.categories.SelectByLabel(view.CategoryName) {
		unmatched = append(unmatched, catalog.KindCategory)
	}
	if !p.classifications.SelectByLabel(view.TypeName) {
		unmatched = append(unmatched, catalog.KindClassification)
	}
	if !p.origins.SelectByLabel(view.OriginName) {
		unmatched = append(unmatched, catalog.KindOrigin)
	}

	f := p.form()
	f.PlantID = view.ID
	f.Unmatched = unmatched
	f.Values = Input{
		PopularName:    view.Name,
		ScientificName: view.ScientificName,
		Edible:         view.Edible,
	}
	if c, ok := p.categories.Selected(); ok {
		f.Values.CategoryID = c.ID
	}
	if c, ok := p.classifications.Selected(); ok {
		f.Values.ClassificationID = c.ID
	}
	if o, ok := p.origins.Selected(); ok {
		f.Values.OriginID = string(o.ID)
	}

	return f, nil
}

// Request validates in and converts it to a catalog write request.
func (s *Service) Request(in Input) (catalog.PlantRequest, error) {
	if err := s.validator.Validate(in); err != nil {
		return catalog.PlantRequest{}, err
	}

	originID, err := catalog.OriginID(in.OriginID).Int()
	if err != nil {
		return catalog.PlantRequest{}, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"origemId": "must be numeric"})
	}

	status := DefaultStatus
	if in.Status != nil {
		status = *in.Status
	}

	return catalog.PlantRequest{
		ScientificName:   in.ScientificName,
		PopularName:      in.PopularName,
		CategoryID:       in.CategoryID,
		ClassificationID: in.ClassificationID,
		OriginID:         originID,
		EdibleFlag:       catalog.EdibleFlag(in.Edible),
		Status:           status,
	}, nil
}

// Create validates in and creates the plant.
func (s *Service) Create(ctx context.Context, in Input) error {
	req, err := s.Request(in)
	if err != nil {
		return err
	}
	return s.catalog.CreatePlant(ctx, req)
}

// Update validates in and replaces the plant with the given id.
func (s *Service) Update(ctx context.Context, id int, in Input) error {
	req, err := s.Request(in)
	if err != nil {
		return err
	}
	return s.catalog.UpdatePlant(ctx, id, req)
}
