package catalog

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	domainerrors "github.com/floraapp/flora-gateway/internal/errors"
)

// Catalog service paths.
const (
	pathPlants          = "/planta/listar"
	pathPlant           = "/planta/%d"
	pathSearch          = "/planta/buscar"
	pathCreate          = "/planta/criar"
	pathUpdate          = "/planta/atualizar/%d"
	pathDelete          = "/planta/deletar/%d"
	pathImages          = "/imagem/listar"
	pathCategories      = "/categoria_taxonomica/listar"
	pathClassifications = "/classificacaoangiosperma/listar"
	pathOrigins         = "/origem/listar"
)

// Client is the single boundary to the catalog service. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	transport Transport
	logger    *slog.Logger
}

// New creates a catalog client over the given transport.
func New(transport Transport, logger *slog.Logger) *Client {
	return &Client{
		transport: transport,
		logger:    logger,
	}
}

// fetchList GETs path and decodes a JSON array. A null body yields an empty slice.
func fetchList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, err := c.transport.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "decode %s", path)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// fetchImagesTolerant returns the image list, or nil if it cannot be fetched.
func (c *Client) fetchImagesTolerant(ctx context.Context) []ImageRecord {
	images, err := fetchList[ImageRecord](ctx, c, pathImages, nil)
	if err != nil {
		c.logger.Warn("image list unavailable, continuing without images", "error", err)
		return nil
	}
	return images
}

// fail logs err and converts it to a domain error. Errors that are already
// coded pass through with their code intact.
func (c *Client) fail(op string, err error) error {
	out := err
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		out = upstreamError(op, err)
	}

	c.logger.Error("catalog request failed", "op", op, "code", domainerrors.CodeOf(out), "error", err)
	return out
}

// failWrite is fail for write calls. The message carries the HTTP status text.
func (c *Client) failWrite(verb string, err error) error {
	c.logger.Error("catalog write failed", "op", verb, "error", err)

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return domainerrors.Wrapf(err, domainerrors.CodeUpstream, "failed to %s plant: %s", verb, statusErr.StatusText()).
			WithUpstreamStatus(statusErr.StatusCode)
	}
	return domainerrors.Wrapf(err, domainerrors.CodeUpstream, "failed to %s plant", verb)
}

func upstreamError(op string, err error) error {
	e := domainerrors.Wrap(err, domainerrors.CodeUpstream, op)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		e = e.WithUpstreamStatus(statusErr.StatusCode)
	}
	return e
}

// GetCategories returns the raw category list.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	items, err := fetchList[Category](ctx, c, pathCategories, nil)
	if err != nil {
		return nil, c.fail("failed to fetch categories", err)
	}
	return items, nil
}

// GetClassifications returns the raw classification list.
func (c *Client) GetClassifications(ctx context.Context) ([]Classification, error) {
	items, err := fetchList[Classification](ctx, c, pathClassifications, nil)
	if err != nil {
		return nil, c.fail("failed to fetch classifications", err)
	}
	return items, nil
}

// GetOrigins returns the raw origin list.
func (c *Client) GetOrigins(ctx context.Context) ([]Origin, error) {
	items, err := fetchList[Origin](ctx, c, pathOrigins, nil)
	if err != nil {
		return nil, c.fail("failed to fetch origins", err)
	}
	return items, nil
}

func plantPath(format string, id int) string {
	return fmt.Sprintf(format, id)
}
