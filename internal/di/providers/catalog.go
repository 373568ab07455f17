package providers

import (
	"github.com/samber/do/v2"

	"github.com/floraapp/flora-gateway/internal/catalog"
	"github.com/floraapp/flora-gateway/internal/config"
	"github.com/floraapp/flora-gateway/internal/form"
	"github.com/floraapp/flora-gateway/internal/logger"
	"github.com/floraapp/flora-gateway/internal/validation"
)

// CatalogTransportHandle wraps the HTTP transport with shutdown capability.
type CatalogTransportHandle struct {
	*catalog.HTTPTransport
}

// Shutdown implements do.Shutdownable.
func (h *CatalogTransportHandle) Shutdown() error {
	h.HTTPTransport.Close()
	return nil
}

// ProvideCatalogTransport provides the rate-limited transport to the catalog service.
func ProvideCatalogTransport(i do.Injector) (*CatalogTransportHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	transport, err := catalog.NewHTTPTransport(catalog.HTTPTransportConfig{
		BaseURL:   cfg.Catalog.BaseURL,
		Timeout:   cfg.Catalog.Timeout,
		RPS:       cfg.Catalog.RPS,
		Burst:     cfg.Catalog.Burst,
		UserAgent: cfg.Catalog.UserAgent,
	}, log.Component("catalog"))
	if err != nil {
		return nil, err
	}

	log.Info("Catalog transport initialized",
		"base_url", cfg.Catalog.BaseURL,
		"rps", cfg.Catalog.RPS,
		"burst", cfg.Catalog.Burst,
	)

	return &CatalogTransportHandle{HTTPTransport: transport}, nil
}

// ProvideCatalogClient provides the catalog client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	transportHandle := do.MustInvoke[*CatalogTransportHandle](i)

	return catalog.New(transportHandle.HTTPTransport, log.Component("catalog")), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideFormService provides the plant form service.
func ProvideFormService(i do.Injector) (*form.Service, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*catalog.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)

	return form.NewService(client, validator, log.Component("form")), nil
}
