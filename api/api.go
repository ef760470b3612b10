// Package api serves the dashboard and collection endpoints.
package api

import (
	"context"
	"net/http"

	"github.com/dreamerjackson/salesintel/collect"
	"github.com/dreamerjackson/salesintel/store"
	"github.com/dreamerjackson/salesintel/template"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// LatestFeedItems is how many records the intelligence feed returns.
const LatestFeedItems = 20

// App is the state shared by every handler.
type App struct {
	mux *runtime.ServeMux
	options
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

func New(opts ...Option) (*App, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.registry == nil {
		options.registry = template.NewRegistry()
	}
	if options.store == nil {
		options.store = store.New(store.WithLogger(options.logger))
	}
	if options.collector == nil {
		c, err := collect.New(collect.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
		options.collector = c
	}

	a := &App{options: options}
	a.mux = runtime.NewServeMux(
		runtime.WithRoutingErrorHandler(a.routingError),
	)

	for _, r := range a.routes() {
		if err := a.mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *App) routes() []route {
	return []route{
		{http.MethodGet, "/api/dashboard/overview", a.overview},
		{http.MethodGet, "/api/intelligence/feed", a.intelligenceFeed},
		{http.MethodGet, "/api/deals/pipeline", a.dealsPipeline},
		{http.MethodGet, "/api/companies/{id}/intelligence", a.companyIntelligence},
		{http.MethodPost, "/api/collect/template", a.collectTemplate},
		{http.MethodGet, "/api/templates", a.listTemplates},
		{http.MethodPost, "/api/templates", a.putTemplate},
		{http.MethodGet, "/health", a.health},
	}
}

// Handler returns the mux wrapped with request logging and panic recovery.
func (a *App) Handler() http.Handler {
	return logRequests(a.logger, recovery(a.logger, a.mux))
}

func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) routingError(ctx context.Context, mux *runtime.ServeMux, m runtime.Marshaler, w http.ResponseWriter, r *http.Request, code int) {
	a.logger.Debug("no route",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
	)
	a.writeError(w, code, http.StatusText(code))
}
