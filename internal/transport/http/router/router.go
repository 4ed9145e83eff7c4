package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	RegisterStaff(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	VerifyStaff(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	ChangeRole(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ImageHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	DeleteBySlug(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetBySlug(w http.ResponseWriter, r *http.Request)
	Categories(w http.ResponseWriter, r *http.Request)
	ListByCategory(w http.ResponseWriter, r *http.Request)
	ListByTag(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)

	Like(w http.ResponseWriter, r *http.Request)
	Unlike(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Share(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Accounts AccountHandler
	Images   ImageHandler

	AuthMW func(http.Handler) http.Handler

	// Per-route rate limiters. Any of them may be nil, which leaves the
	// route unthrottled (redis down, tests).
	RLRegister func(http.Handler) http.Handler
	RLLogin    func(http.Handler) http.Handler
	RLRefresh  func(http.Handler) http.Handler

	WriteErr middleware.WriteErrFunc
}

// withOptional applies mw when it is non-nil.
func withOptional(r chi.Router, mw func(http.Handler) http.Handler) chi.Router {
	if mw == nil {
		return r
	}
	return r.With(mw)
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("nil Accounts handler")
	}
	if deps.Images == nil {
		return nil, fmt.Errorf("nil Images handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.WriteErr == nil {
		return nil, fmt.Errorf("nil WriteErr func")
	}

	superAdminOnly := middleware.RequireRoles(deps.WriteErr, domain.RoleSuperAdmin)
	contentAdmins := middleware.RequireRoles(deps.WriteErr, domain.RoleSuperAdmin, domain.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth/v1", func(r chi.Router) {
		withOptional(r, deps.RLRegister).Post("/register", deps.Auth.Register)
		withOptional(r, deps.RLLogin).Post("/login", deps.Auth.Login)
		withOptional(r, deps.RLRefresh).Post("/refresh", deps.Auth.Refresh)

		r.With(deps.AuthMW).Post("/logout", deps.Auth.Logout)
		r.With(deps.AuthMW).Get("/me", deps.Accounts.Me)

		// Staff onboarding: anyone may apply, approval is a separate
		// super-admin step.
		withOptional(r, deps.RLRegister).Post("/register-staff", deps.Auth.RegisterStaff)
		r.Get("/verify-staff", deps.Auth.VerifyStaff) // ?token=...
	})

	r.Route("/users/v1", func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.Get("/me", deps.Accounts.Me)
		r.Put("/me", deps.Accounts.UpdateMe)
		r.Put("/me/password", deps.Accounts.ChangePassword)

		r.Route("/admin", func(r chi.Router) {
			r.Use(superAdminOnly)

			r.Get("/users", deps.Accounts.List)
			r.Get("/users/pending", deps.Accounts.ListPending)
			r.Get("/users/{id}", deps.Accounts.Get)
			r.Post("/users/{id}/approve", deps.Accounts.Approve)
			r.Put("/users/{id}/role", deps.Accounts.ChangeRole)
			r.Delete("/users/{id}", deps.Accounts.Delete)
		})
	})

	r.Route("/images/v1", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/", deps.Images.List)
		r.Get("/categories", deps.Images.Categories)
		r.Get("/category/{category}", deps.Images.ListByCategory)
		r.Get("/tag/{tag}", deps.Images.ListByTag)
		r.Get("/search", deps.Images.Search)
		r.Get("/slug/{slug}", deps.Images.GetBySlug)
		r.Get("/{id}", deps.Images.Get)

		// Catalog writes: content staff only.
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW, contentAdmins)

			r.Post("/", deps.Images.Upload)
			r.Put("/{id}", deps.Images.Update)
			r.Delete("/{id}", deps.Images.Delete)
			r.Delete("/slug/{slug}", deps.Images.DeleteBySlug)
		})

		// Engagement: any signed-in account.
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Post("/{id}/like", deps.Images.Like)
			r.Delete("/{id}/like", deps.Images.Unlike)
			r.Get("/{id}/download", deps.Images.Download)
			r.Post("/{id}/share", deps.Images.Share)
		})
	})

	return r, nil
}
