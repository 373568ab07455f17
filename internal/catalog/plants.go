package catalog

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	domainerrors "github.com/floraapp/flora-gateway/internal/errors"
)

// ListPlants fetches every plant and image, joins and projects them, then
// applies f. Both fetches are required; if either fails the call fails.
func (c *Client) ListPlants(ctx context.Context, f Filter) ([]PlantView, error) {
	var (
		plants []PlantRecord
		images []ImageRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if plants, err = fetchList[PlantRecord](gctx, c, pathPlants, nil); err != nil {
			return fmt.Errorf("fetch plants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if images, err = fetchList[ImageRecord](gctx, c, pathImages, nil); err != nil {
			return fmt.Errorf("fetch images: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, c.fail("list plants", err)
	}

	views := f.Apply(ProjectAll(plants, images))

	c.logger.Debug("plants listed",
		"fetched", len(plants),
		"returned", len(views),
		"category", f.Category,
		"type", f.Type,
		"edibility", f.Edibility,
	)
	return views, nil
}

// GetPlantDetails fetches one plant. Any non-success status is reported as
// not found. The image list is optional: if it cannot be fetched the view is
// returned with an empty ImageURL.
func (c *Client) GetPlantDetails(ctx context.Context, id int) (PlantView, error) {
	var (
		plant  PlantRecord
		images []ImageRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plant, err = c.fetchPlant(gctx, id)
		return err
	})
	g.Go(func() error {
		images = c.fetchImagesTolerant(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("plant detail failed", "id", id, "error", err)
		return PlantView{}, err
	}

	return Project(plant, indexImages(images)), nil
}

func (c *Client) fetchPlant(ctx context.Context, id int) (PlantRecord, error) {
	body, err := c.transport.Get(ctx, plantPath(pathPlant, id), nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return PlantRecord{}, domainerrors.NotFoundf("plant %d not found", id).
				WithCause(err).
				WithUpstreamStatus(statusErr.StatusCode)
		}
		return PlantRecord{}, upstreamError(fmt.Sprintf("fetch plant %d", id), err)
	}

	// An empty or null 200 body means the service has no such plant.
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return PlantRecord{}, domainerrors.NotFoundf("plant %d not found", id)
	}

	var plant PlantRecord
	if err := json.Unmarshal(body, &plant); err != nil {
		return PlantRecord{}, domainerrors.Wrapf(err, domainerrors.CodeInternal, "decode plant %d", id)
	}
	if plant.ID == 0 {
		return PlantRecord{}, domainerrors.NotFoundf("plant %d not found", id)
	}
	return plant, nil
}

// SearchPlants returns the plants the catalog service matches by name. No
// client-side filtering is applied. Like GetPlantDetails, the image list is
// optional.
func (c *Client) SearchPlants(ctx context.Context, query string) ([]PlantView, error) {
	var (
		plants []PlantRecord
		images []ImageRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plants, err = fetchList[PlantRecord](gctx, c, pathSearch, url.Values{"nome": {query}})
		return err
	})
	g.Go(func() error {
		images = c.fetchImagesTolerant(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, c.fail("search plants", err)
	}

	c.logger.Debug("plants searched", "query", query, "returned", len(plants))
	return ProjectAll(plants, images), nil
}

// CreatePlant creates a plant.
func (c *Client) CreatePlant(ctx context.Context, req PlantRequest) error {
	if err := c.transport.Post(ctx, pathCreate, req); err != nil {
		return c.failWrite("create", err)
	}
	c.logger.Info("plant created", "popular", req.PopularName)
	return nil
}

// UpdatePlant replaces the plant with the given id.
func (c *Client) UpdatePlant(ctx context.Context, id int, req PlantRequest) error {
	if err := c.transport.Put(ctx, plantPath(pathUpdate, id), req); err != nil {
		return c.failWrite("update", err)
	}
	c.logger.Info("plant updated", "id", id)
	return nil
}

// DeletePlant deletes the plant with the given id.
func (c *Client) DeletePlant(ctx context.Context, id int) error {
	if err := c.transport.Delete(ctx, plantPath(pathDelete, id)); err != nil {
		return c.failWrite("delete", err)
	}
	c.logger.Info("plant deleted", "id", id)
	return nil
}
