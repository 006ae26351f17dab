package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"go.uber.org/zap"
)

// Banner is what GET / answers.
const Banner = "Hello from Wind House Server.."

// Router 使用标准库 http.ServeMux（Go 1.22+ 方法/路径参数模式）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// API groups the handlers the router serves.
type API struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Agreements    *AgreementHandler
	Apartments    *ApartmentHandler
	Coupons       *CouponHandler
	Payments      *PaymentHandler
	Announcements *AnnouncementHandler
	Guard         *Guard
	// Ping backs /healthz.
	Ping func(ctx context.Context) error
}

// RegisterRoutes 注册全部路由
func (r *Router) RegisterRoutes(api *API) {
	g := api.Guard

	r.Handle("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Banner))
	})
	r.Handle("GET /healthz", r.healthz(api.Ping))

	// auth
	r.Handle("POST /jwt", api.Auth.IssueToken)
	r.Handle("GET /logout", api.Auth.Logout)

	// apartments
	r.Handle("GET /apartments", api.Apartments.ListAll)
	r.Handle("GET /apartment", api.Apartments.ListPage)

	// users
	r.Handle("GET /user/{email}", api.Users.GetByEmail)
	r.Handle("GET /users", api.Users.List)
	r.Handle("PUT /user", api.Users.Save)
	r.Handle("PUT /user/role", g.Authenticated(api.Users.SetRole))
	r.Handle("PUT /user/{id}", api.Users.Update)
	r.Handle("GET /profile", g.Authenticated(api.Users.Profile))
	r.Handle("GET /admin-profile", g.Role(domain.RoleAdmin, api.Users.AdminProfile))

	// agreements
	r.Handle("POST /agreement", api.Agreements.Submit)
	r.Handle("GET /agreements", api.Agreements.ListPending)
	r.Handle("PUT /agreement/status", g.Authenticated(api.Agreements.SetStatus))
	r.Handle("GET /accepted-agreements/{userEmail}", g.Authenticated(api.Agreements.ListAccepted))

	// coupons
	r.Handle("POST /validate-coupon", g.Authenticated(api.Coupons.Validate))
	r.Handle("POST /coupon", g.Role(domain.RoleAdmin, api.Coupons.Upsert))
	r.Handle("GET /coupons", api.Coupons.List)
	r.Handle("DELETE /coupon/{id}", g.Role(domain.RoleAdmin, api.Coupons.Delete))

	// payments
	r.Handle("POST /make-payment", g.Authenticated(api.Payments.Store))
	r.Handle("POST /store-payment", g.Authenticated(api.Payments.Store))
	r.Handle("GET /payments/{userEmail}", g.Authenticated(api.Payments.ListByEmail))
	r.Handle("GET /payment/{id}", g.Authenticated(api.Payments.Get))
	r.Handle("GET /payments", g.Role(domain.RoleAdmin, api.Payments.List))
	r.Handle("GET /payments/export", g.Role(domain.RoleAdmin, api.Payments.Export))
	r.Handle("POST /create-payment-intent", g.Authenticated(api.Payments.CreateIntent))

	// announcements
	r.Handle("POST /announcements", api.Announcements.Create)
	r.Handle("GET /announcements", api.Announcements.List)
}

func (r *Router) healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				r.logger.Warn("health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
