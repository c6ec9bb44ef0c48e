package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/toydev/grantd/internal/oauth/service"
	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthorizeService *service.AuthorizeService
	TokenService     *service.TokenService
	BearerService    *service.BearerService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerResources()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	authorizeHandler := &AuthorizeHandler{AuthorizeService: r.AuthorizeService}

	// GET /authorize validates the request and renders the consent form.
	r.Mux.Handle("GET /v1/oauth2/authorize", http.HandlerFunc(authorizeHandler.HandleGet))

	// POST /authorize authenticates the resource owner and issues the code.
	r.Mux.Handle("POST /v1/oauth2/authorize", http.HandlerFunc(authorizeHandler.HandlePost))

	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/token", tokenHandler)
}

func (r *Router) registerResources() {
	h := &ResourceHandler{Store: r.store}

	authn := AuthnMiddleware(r.BearerService)

	r.Mux.Handle("GET /v1/api/me", httpx.Chain(http.HandlerFunc(h.HandleMe), authn))
	r.Mux.Handle("GET /v1/api/profile", httpx.Chain(http.HandlerFunc(h.HandleProfile), authn))
	r.Mux.Handle("GET /v1/api/posts", httpx.Chain(http.HandlerFunc(h.HandlePosts), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}", RootHandler(r.buildVersion))
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
