package server

import (
	"net/http"

	coreservices "github.com/lumen-rp/cadhub/modules/core/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/configuration"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
	"github.com/lumen-rp/cadhub/pkg/middleware"
	"github.com/lumen-rp/cadhub/pkg/server"
)

// Default assembles the HTTP server with the standard middleware stack. The
// order matters: the pool and logger come first, then identity, then rate
// limiting, so every later stage can rely on the earlier ones.
func Default(app application.Application) (*server.HTTPServer, error) {
	conf := configuration.Use()
	auth := app.Service(coreservices.AuthService{}).(*coreservices.AuthService)

	app.RegisterMiddleware(
		middleware.WithPool(app.DB()),
		middleware.RequestParams(),
		middleware.WithLogger(app.Logger()),
		middleware.ProvideLocalizer(app.Bundle()),
		middleware.TokenAuth(auth),
		middleware.WithTenant(conf.TenantHeader),
		middleware.WithUser(conf.AuthUserHeader, auth),
	)
	if conf.RateLimit.Enabled {
		limiter, err := middleware.RateLimit(conf.RateLimit)
		if err != nil {
			return nil, err
		}
		app.RegisterMiddleware(limiter)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", "route not found", nil)
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "INVALID_FIELD", "method not allowed", nil)
	})
	return server.NewHTTPServer(app, notFound, notAllowed), nil
}
