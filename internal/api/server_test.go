package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraapp/flora-gateway/internal/catalog"
	"github.com/floraapp/flora-gateway/internal/catalog/catalogtest"
	"github.com/floraapp/flora-gateway/internal/form"
	"github.com/floraapp/flora-gateway/internal/logger"
	"github.com/floraapp/flora-gateway/internal/validation"
)

// testEnvelope mirrors APIEnvelope with a typed payload.
type testEnvelope[T any] struct {
	Version int       `json:"v"`
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
}

type testServer struct {
	*Server
	api     humatest.TestAPI
	catalog *catalogtest.Service
}

// recordingCatalog captures the request id seen by catalog calls.
type recordingCatalog struct {
	*catalog.Client
	requestID string
}

func (c *recordingCatalog) GetCategories(ctx context.Context) ([]catalog.Category, error) {
	c.requestID = catalog.RequestIDFrom(ctx)
	return c.Client.GetCategories(ctx)
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	svc := catalogtest.New()
	log := logger.Discard()
	client := catalog.New(svc, log)
	forms := form.NewService(client, validation.New(), log)

	s := NewServer(client, forms, Options{Title: "Flora Gateway Test"}, log)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		catalog: svc,
	}
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	assert.Equal(t, EnvelopeVersion, env.Version)
	return env
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["catalog"].Status)
}

func TestHealthCheck_CatalogDown(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.Fail(http.MethodGet, "/categoria_taxonomica/listar", http.StatusServiceUnavailable)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "unhealthy", env.Data.Status)
	assert.Equal(t, "catalog service unreachable", env.Data.Components["catalog"].Message)
}

func TestTaxonomyRoutes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, resp.Code)
	categories := decodeEnvelope[[]catalog.Category](t, resp.Body.Bytes())
	assert.Len(t, categories.Data, 4)

	resp = ts.api.Get("/api/v1/classifications")
	require.Equal(t, http.StatusOK, resp.Code)
	classifications := decodeEnvelope[[]catalog.Classification](t, resp.Body.Bytes())
	assert.Len(t, classifications.Data, 2)

	resp = ts.api.Get("/api/v1/origins")
	require.Equal(t, http.StatusOK, resp.Code)
	origins := decodeEnvelope[[]catalog.Origin](t, resp.Body.Bytes())
	require.Len(t, origins.Data, 2)
	assert.Equal(t, catalog.OriginID("2"), origins.Data[1].ID)
}

func TestListPlants(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantNames []string
	}{
		{"all", "/api/v1/plants", []string{"Goiabeira", "Milho", "Samambaia"}},
		{"category", "/api/v1/plants?category=angiospermas", []string{"Goiabeira", "Milho"}},
		{"type", "/api/v1/plants?category=Angiospermas&type=mono", []string{"Milho"}},
		{"inedible", "/api/v1/plants?edibility=nao-comestiveis", []string{"Samambaia"}},
		{"unknown edibility", "/api/v1/plants?edibility=qualquer", []string{"Goiabeira", "Milho", "Samambaia"}},
		{"no match", "/api/v1/plants?category=fungos", []string{}},
	}

	ts := setupTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decodeEnvelope[[]catalog.PlantView](t, resp.Body.Bytes())
			require.True(t, env.Success)
			require.NotNil(t, env.Data, "empty results are an empty list, not null")

			names := make([]string, 0, len(env.Data))
			for _, v := range env.Data {
				names = append(names, v.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestListPlants_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.Fail(http.MethodGet, "/imagem/listar", http.StatusInternalServerError)

	resp := ts.api.Get("/api/v1/plants")
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UPSTREAM", env.Error.Code)
}

func TestSearchPlants(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/plants/search?q=milh")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[[]catalog.PlantView](t, resp.Body.Bytes())
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Zea mays", env.Data[0].ScientificName)
	assert.Equal(t, "https://img.example.com/milho.jpg", env.Data[0].ImageURL)
}

func TestGetPlant(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/plants/1")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[catalog.PlantView](t, resp.Body.Bytes())
	assert.Equal(t, "Goiabeira", env.Data.Name)
	assert.Equal(t, "Angiospermas", env.Data.CategoryName)
	assert.Equal(t, "Eudicotiledôneas", env.Data.TypeName)
	assert.Equal(t, "Nativa", env.Data.OriginName)
	assert.True(t, env.Data.Edible)
	assert.Equal(t, catalog.DescriptionUnavailable, env.Data.Description)
}

func TestGetPlant_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/plants/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "plant 999 not found", env.Error.Message)
}

func TestGetPlant_InvalidID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/plants/0")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestForms(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/plants/form")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	blank := decodeEnvelope[form.Form](t, resp.Body.Bytes())
	assert.Zero(t, blank.Data.PlantID)
	assert.Len(t, blank.Data.Categories, 4)

	resp = ts.api.Get("/api/v1/plants/2/form")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	edit := decodeEnvelope[form.Form](t, resp.Body.Bytes())
	assert.Equal(t, 2, edit.Data.PlantID)
	assert.Equal(t, "Milho", edit.Data.Values.PopularName)
	assert.Equal(t, 1, edit.Data.Values.CategoryID)
	assert.Equal(t, "2", edit.Data.Values.OriginID)

	resp = ts.api.Get("/api/v1/plants/77/form")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreatePlant(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/plants", map[string]any{
		"popular":                    "Bananeira",
		"cientifico":                 "Musa paradisiaca",
		"comestivel":                 true,
		"categoriaTaxonomicaId":      1,
		"classificacaoAngiospermaId": 1,
		"origemId":                   "2",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decodeEnvelope[MutationResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "plant created", env.Data.Message)

	resp = ts.api.Get("/api/v1/plants?edibility=comestiveis&type=mono")
	list := decodeEnvelope[[]catalog.PlantView](t, resp.Body.Bytes())
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Bananeira", list.Data[1].Name)
	assert.Equal(t, "Exótica", list.Data[1].OriginName)
}

func TestCreatePlant_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/plants", map[string]any{
		"popular":                    "   ",
		"cientifico":                 "Musa paradisiaca",
		"comestivel":                 false,
		"categoriaTaxonomicaId":      0,
		"classificacaoAngiospermaId": 1,
		"origemId":                   "2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)

	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok, "details: %#v", env.Error.Details)
	assert.Equal(t, "is required", details["popular"])
	assert.Equal(t, "must be greater than 0", details["categoriaTaxonomicaId"])

	assert.NotContains(t, ts.catalog.Calls(), "POST /planta/criar")
}

func TestCreatePlant_MissingFieldsRejectedBySchema(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/plants", map[string]any{"popular": "Bananeira"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestUpdatePlant(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Put("/api/v1/plants/3", map[string]any{
		"popular":                    "Samambaia-de-boston",
		"cientifico":                 "Nephrolepis exaltata",
		"comestivel":                 false,
		"categoriaTaxonomicaId":      3,
		"classificacaoAngiospermaId": 2,
		"origemId":                   "2",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/plants/3")
	env := decodeEnvelope[catalog.PlantView](t, resp.Body.Bytes())
	assert.Equal(t, "Samambaia-de-boston", env.Data.Name)
	assert.Equal(t, "Eudicotiledôneas", env.Data.TypeName)
}

func TestUpdatePlant_UpstreamRejects(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.Fail(http.MethodPut, "/planta/atualizar/1", http.StatusBadRequest)

	resp := ts.api.Put("/api/v1/plants/1", map[string]any{
		"popular":                    "Goiabeira",
		"cientifico":                 "Psidium guajava",
		"comestivel":                 true,
		"categoriaTaxonomicaId":      1,
		"classificacaoAngiospermaId": 2,
		"origemId":                   "1",
	})
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "failed to update plant: Bad Request", env.Error.Message)
}

func TestDeletePlant(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Delete("/api/v1/plants/2")
	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[MutationResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, env.Data.ID)

	resp = ts.api.Get("/api/v1/plants/2")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/plants/2")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/fungi")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	svc := catalogtest.New()
	log := logger.Discard()
	rec := &recordingCatalog{Client: catalog.New(svc, log)}
	s := NewServer(rec, form.NewService(rec.Client, validation.New(), log), Options{}, log)
	api := humatest.Wrap(t, s.API())

	resp := api.Get("/api/v1/categories", "X-Request-Id: req-from-client")
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, "req-from-client", rec.requestID)
	assert.Equal(t, "req-from-client", resp.Header().Get("X-Request-Id"))
}
