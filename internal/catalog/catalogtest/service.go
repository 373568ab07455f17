// Package catalogtest provides an in-memory catalog service that implements
// catalog.Transport, for tests of code built on catalog.Client.
package catalogtest

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/floraapp/flora-gateway/internal/catalog"
)

// Service is a stateful fake of the catalog service.
type Service struct {
	mu sync.Mutex

	plants          []catalog.PlantRecord
	images          []catalog.ImageRecord
	categories      []catalog.Category
	classifications []catalog.Classification
	origins         []catalog.Origin
	nextID          int

	failures map[string]int // "METHOD /path" -> status code
	calls    []string
}

// New returns a service seeded with a small catalog.
func New() *Service {
	s := &Service{
		categories: []catalog.Category{
			{ID: 1, Name: "Angiospermas", Status: 1},
			{ID: 2, Name: "Gimnospermas", Status: 1},
			{ID: 3, Name: "Pteridófitas", Status: 1},
			{ID: 4, Name: "Briófitas", Status: 1},
		},
		classifications: []catalog.Classification{
			{ID: 1, Name: "Monocotiledôneas", Status: 1},
			{ID: 2, Name: "Eudicotiledôneas", Status: 1},
		},
		origins: []catalog.Origin{
			{ID: "1", Kind: "Nativa", Status: 1},
			{ID: "2", Kind: "Exótica", Status: 1},
		},
		failures: make(map[string]int),
		nextID:   1,
	}

	s.mustAdd(catalog.PlantRequest{ScientificName: "Psidium guajava", PopularName: "Goiabeira", CategoryID: 1, ClassificationID: 2, OriginID: 1, EdibleFlag: 1, Status: 1})
	s.mustAdd(catalog.PlantRequest{ScientificName: "Zea mays", PopularName: "Milho", CategoryID: 1, ClassificationID: 1, OriginID: 2, EdibleFlag: 1, Status: 1})
	s.mustAdd(catalog.PlantRequest{ScientificName: "Nephrolepis exaltata", PopularName: "Samambaia", CategoryID: 3, OriginID: 2, EdibleFlag: 0, Status: 1})
	s.AddImage(1, "https://img.example.com/goiabeira.jpg")
	s.AddImage(2, "https://img.example.com/milho.jpg")

	return s
}

func (s *Service) mustAdd(req catalog.PlantRequest) {
	if _, err := s.create(req); err != nil {
		panic(err)
	}
}

// AddImage attaches an image to a plant.
func (s *Service) AddImage(plantID int, imageURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img := catalog.ImageRecord{ID: len(s.images) + 100, Kind: "foto", URL: imageURL, Status: 1}
	if i := s.plantIndex(plantID); i >= 0 {
		p := s.plants[i]
		img.Plant = &p
	}
	s.images = append(s.images, img)
}

// Fail makes every later call to method and path answer with statusCode.
func (s *Service) Fail(method, path string, statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = statusCode
}

// Calls returns the "METHOD /path" of every request received, in order.
func (s *Service) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Plant returns the stored record with the given id.
func (s *Service) Plant(id int) (catalog.PlantRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.plantIndex(id); i >= 0 {
		return s.plants[i], true
	}
	return catalog.PlantRecord{}, false
}

// Get implements catalog.Transport.
func (s *Service) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := s.enter(ctx, http.MethodGet, path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch path {
	case "/planta/listar":
		return json.Marshal(s.plants)
	case "/imagem/listar":
		return json.Marshal(s.images)
	case "/categoria_taxonomica/listar":
		return json.Marshal(s.categories)
	case "/classificacaoangiosperma/listar":
		return json.Marshal(s.classifications)
	case "/origem/listar":
		return json.Marshal(s.origins)
	case "/planta/buscar":
		name := strings.ToLower(query.Get("nome"))
		matches := make([]catalog.PlantRecord, 0)
		for _, p := range s.plants {
			if strings.Contains(strings.ToLower(p.PopularName), name) {
				matches = append(matches, p)
			}
		}
		return json.Marshal(matches)
	}

	if rest, ok := strings.CutPrefix(path, "/planta/"); ok {
		id, err := strconv.Atoi(rest)
		if err == nil {
			if i := s.plantIndex(id); i >= 0 {
				return json.Marshal(s.plants[i])
			}
		}
	}
	return nil, statusError(http.MethodGet, path, http.StatusNotFound)
}

// Post implements catalog.Transport.
func (s *Service) Post(ctx context.Context, path string, body any) error {
	if err := s.enter(ctx, http.MethodPost, path); err != nil {
		return err
	}
	if path != "/planta/criar" {
		return statusError(http.MethodPost, path, http.StatusNotFound)
	}

	req, err := decodeRequest(body)
	if err != nil {
		return statusError(http.MethodPost, path, http.StatusBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.create(req); err != nil {
		return statusError(http.MethodPost, path, http.StatusBadRequest)
	}
	return nil
}

// Put implements catalog.Transport.
func (s *Service) Put(ctx context.Context, path string, body any) error {
	if err := s.enter(ctx, http.MethodPut, path); err != nil {
		return err
	}

	id, ok := pathID(path, "/planta/atualizar/")
	if !ok {
		return statusError(http.MethodPut, path, http.StatusNotFound)
	}
	req, err := decodeRequest(body)
	if err != nil {
		return statusError(http.MethodPut, path, http.StatusBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.plantIndex(id)
	if i < 0 {
		return statusError(http.MethodPut, path, http.StatusNotFound)
	}
	record, err := s.record(id, req)
	if err != nil {
		return statusError(http.MethodPut, path, http.StatusBadRequest)
	}
	s.plants[i] = record
	return nil
}

// Delete implements catalog.Transport.
func (s *Service) Delete(ctx context.Context, path string) error {
	if err := s.enter(ctx, http.MethodDelete, path); err != nil {
		return err
	}

	id, ok := pathID(path, "/planta/deletar/")
	if !ok {
		return statusError(http.MethodDelete, path, http.StatusNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.plantIndex(id)
	if i < 0 {
		return statusError(http.MethodDelete, path, http.StatusNotFound)
	}
	s.plants = slices.Delete(s.plants, i, i+1)
	return nil
}

func (s *Service) enter(ctx context.Context, method, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + " " + path
	s.calls = append(s.calls, key)
	if code, ok := s.failures[key]; ok {
		return statusError(method, path, code)
	}
	return nil
}

// create must be called with mu held, or before the service is shared.
func (s *Service) create(req catalog.PlantRequest) (catalog.PlantRecord, error) {
	record, err := s.record(s.nextID, req)
	if err != nil {
		return catalog.PlantRecord{}, err
	}
	s.nextID++
	s.plants = append(s.plants, record)
	return record, nil
}

// record resolves the request's taxonomy ids into a stored record.
func (s *Service) record(id int, req catalog.PlantRequest) (catalog.PlantRecord, error) {
	record := catalog.PlantRecord{
		ID:             id,
		ScientificName: req.ScientificName,
		PopularName:    req.PopularName,
		EdibleFlag:     req.EdibleFlag,
		Status:         req.Status,
	}

	if req.CategoryID != 0 {
		i := slices.IndexFunc(s.categories, func(c catalog.Category) bool { return c.ID == req.CategoryID })
		if i < 0 {
			return record, fmt.Errorf("unknown category %d", req.CategoryID)
		}
		c := s.categories[i]
		record.Category = &c
	}
	if req.ClassificationID != 0 {
		i := slices.IndexFunc(s.classifications, func(c catalog.Classification) bool { return c.ID == req.ClassificationID })
		if i < 0 {
			return record, fmt.Errorf("unknown classification %d", req.ClassificationID)
		}
		c := s.classifications[i]
		record.Classification = &c
	}
	if req.OriginID != 0 {
		want := strconv.Itoa(req.OriginID)
		i := slices.IndexFunc(s.origins, func(o catalog.Origin) bool { return string(o.ID) == want })
		if i < 0 {
			return record, fmt.Errorf("unknown origin %d", req.OriginID)
		}
		o := s.origins[i]
		record.Origin = &o
	}
	return record, nil
}

func (s *Service) plantIndex(id int) int {
	return slices.IndexFunc(s.plants, func(p catalog.PlantRecord) bool { return p.ID == id })
}

func decodeRequest(body any) (catalog.PlantRequest, error) {
	if req, ok := body.(catalog.PlantRequest); ok {
		return req, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return catalog.PlantRequest{}, err
	}
	var req catalog.PlantRequest
	err = json.Unmarshal(data, &req)
	return req, err
}

func pathID(path, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	return id, err == nil
}

func statusError(method, path string, code int) error {
	return &catalog.StatusError{
		Method:     method,
		Path:       path,
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
	}
}

var _ catalog.Transport = (*Service)(nil)
