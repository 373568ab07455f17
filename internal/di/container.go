// Package di provides dependency injection configuration for the Flora gateway.
package di

import (
	"github.com/samber/do/v2"

	"github.com/floraapp/flora-gateway/internal/catalog"
	"github.com/floraapp/flora-gateway/internal/config"
	"github.com/floraapp/flora-gateway/internal/di/providers"
	"github.com/floraapp/flora-gateway/internal/form"
	"github.com/floraapp/flora-gateway/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Catalog
	do.Provide(injector, providers.ProvideCatalogTransport)
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideFormService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.CatalogTransportHandle](injector)
	_ = do.MustInvoke[*catalog.Client](injector)
	_ = do.MustInvoke[*form.Service](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
