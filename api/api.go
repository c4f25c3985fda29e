package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/marble-store/api/middleware"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/backend"
	"github.com/irsalhamdi/marble-store/core/auth"
	"github.com/irsalhamdi/marble-store/core/cart"
	"github.com/irsalhamdi/marble-store/core/comment"
	"github.com/irsalhamdi/marble-store/core/locale"
	"github.com/irsalhamdi/marble-store/core/order"
	"github.com/irsalhamdi/marble-store/core/product"
	"github.com/irsalhamdi/marble-store/rate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	Session          *scs.SessionManager
	Backend          *backend.Client
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	Catalog          product.ListConfig

	// Limiter throttles login, registration, checkout and comment
	// posting. Nil disables throttling.
	Limiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Metrics())
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	a.mw = append(a.mw, auth.Identify(cfg.Session))

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	a.Router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)

	var limit web.Middleware
	if cfg.Limiter != nil {
		limit = middleware.RateLimit(cfg.Limiter)
	}

	be := cfg.Backend

	a.Handle(http.MethodPost, "/auth/register", auth.HandleRegister(cfg.Session, be), limit)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Session, be), limit)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/me", auth.HandleShowCurrent(cfg.Session), authen)
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.Session, cfg.Providers, be, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/locale", locale.HandleShow(cfg.Session))
	a.Handle(http.MethodPut, "/locale", locale.HandleUpdate(cfg.Session))

	a.Handle(http.MethodGet, "/products/tags", product.HandleTags(be))
	a.Handle(http.MethodPost, "/products/images", product.HandleUploadImage(be), admin)
	a.Handle(http.MethodGet, "/products/{id}/comments", comment.HandleList(be))
	a.Handle(http.MethodPost, "/products/{id}/comments", comment.HandleCreate(be), authen, limit)
	a.Handle(http.MethodGet, "/products/{id}/rating", comment.HandleRating(be))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(be))
	a.Handle(http.MethodGet, "/products", product.HandleList(be, cfg.Catalog))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(be), admin)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(be), admin)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(be), admin)

	a.Handle(http.MethodPatch, "/comments/{id}", comment.HandleUpdate(be), authen)
	a.Handle(http.MethodDelete, "/comments/{id}", comment.HandleDelete(be), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Session, cfg.Log))
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.Session, cfg.Log))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(cfg.Session, be, cfg.Log))
	a.Handle(http.MethodPatch, "/cart/items/{product_id}", cart.HandleUpdateItem(cfg.Session, cfg.Log))
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(cfg.Session, cfg.Log))

	a.Handle(http.MethodPost, "/orders", order.HandleCheckout(cfg.Session, be, cfg.Log), limit)
	a.Handle(http.MethodGet, "/orders", order.HandleList(be), admin)
	a.Handle(http.MethodPut, "/orders/{id}/validate", order.HandleValidate(be), admin)
	a.Handle(http.MethodDelete, "/orders/{id}", order.HandleDelete(be), admin)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
