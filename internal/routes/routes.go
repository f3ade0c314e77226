package routes

import (
	"net/http"
	"strings"

	"campusnews/internal/handlers"
	"campusnews/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers — все HTTP-обработчики портала.
type Handlers struct {
	Feed       *handlers.FeedHandler
	Engagement *handlers.EngagementHandler
	Articles   *handlers.ArticleHandler
	Categories *handlers.CategoryHandler
	Dashboard  *handlers.DashboardHandler
	Users      *handlers.UserHandler
	Auth       *handlers.AuthHandler
	Site       *handlers.SiteHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	Authenticator middleware.Authenticator
	Limiter       *middleware.RateLimiter
	MediaDir      string
}

var pageMethods = []string{http.MethodGet, http.MethodPost}

func InitRoutes(router *mux.Router, h Handlers, opts Options) {
	router.StrictSlash(true)
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Authenticate(opts.Authenticator),
		middleware.Logging,
	)

	limited := func(fn http.HandlerFunc) http.Handler {
		if opts.Limiter == nil {
			return fn
		}
		return opts.Limiter.Limit(fn)
	}

	// --- Служебные ---
	router.HandleFunc("/healthz", h.Health.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", mediaFiles(opts.MediaDir))).Methods(http.MethodGet)

	// --- Публичные ---
	router.HandleFunc("/", h.Feed.Home).Methods(http.MethodGet)
	router.Handle("/login/", limited(h.Auth.Login)).Methods(pageMethods...)
	router.Handle("/register/", limited(h.Auth.Register)).Methods(pageMethods...)
	router.HandleFunc("/logout/", h.Auth.Logout).Methods(pageMethods...)
	router.HandleFunc("/about/", h.Site.About).Methods(http.MethodGet)
	router.Handle("/contact/", limited(h.Site.Contact)).Methods(pageMethods...)

	// --- XHR-удаление комментария: без логина сразу 401 JSON ---
	ajax := router.PathPrefix("/comments/delete").Subrouter()
	ajax.Use(middleware.RequireLoginJSON)
	ajax.HandleFunc("/{id:[0-9]+}/", h.Engagement.AjaxDeleteComment)

	// --- Требуют входа ---
	member := router.PathPrefix("").Subrouter()
	member.Use(middleware.RequireLogin)
	member.HandleFunc("/article/{slug}/", h.Feed.Detail).Methods(pageMethods...)
	member.HandleFunc("/article/{slug}/like/", h.Engagement.Like).Methods(pageMethods...)
	member.HandleFunc("/article/{slug}/comment/", h.Engagement.CreateComment).Methods(pageMethods...)
	member.HandleFunc("/comments/{id:[0-9]+}/edit/", h.Engagement.EditComment).Methods(pageMethods...)
	member.HandleFunc("/comments/{id:[0-9]+}/delete/", h.Engagement.DeleteComment).Methods(pageMethods...)
	member.HandleFunc("/profile/", h.Site.Profile).Methods(pageMethods...)

	// --- Администрирование ---
	admin := router.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/dashboard/", h.Dashboard.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/settings/", h.Site.Settings).Methods(http.MethodGet)

	admin.HandleFunc("/articles/", h.Articles.List).Methods(http.MethodGet)
	admin.HandleFunc("/articles/create/", h.Articles.Create).Methods(pageMethods...)
	admin.HandleFunc("/articles/{slug}/edit/", h.Articles.Edit).Methods(pageMethods...)
	admin.HandleFunc("/articles/{slug}/delete/", h.Articles.Delete).Methods(pageMethods...)

	admin.HandleFunc("/categories/", h.Categories.List).Methods(http.MethodGet)
	admin.HandleFunc("/categories/create/", h.Categories.Create).Methods(pageMethods...)
	admin.HandleFunc("/categories/{id:[0-9]+}/edit/", h.Categories.Edit).Methods(pageMethods...)
	admin.HandleFunc("/categories/{id:[0-9]+}/delete/", h.Categories.Delete).Methods(pageMethods...)

	admin.HandleFunc("/comments/{id:[0-9]+}/approve/", h.Engagement.Moderate(true)).Methods(http.MethodPost)
	admin.HandleFunc("/comments/{id:[0-9]+}/disapprove/", h.Engagement.Moderate(false)).Methods(http.MethodPost)

	admin.HandleFunc("/users/", h.Users.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}/", h.Users.Detail).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}/toggle-staff/", h.Users.ToggleStaff).Methods(pageMethods...)
	admin.HandleFunc("/users/{id:[0-9]+}/toggle-active/", h.Users.ToggleActive).Methods(pageMethods...)
	admin.HandleFunc("/users/{id:[0-9]+}/delete/", h.Users.Delete).Methods(pageMethods...)
}

// mediaFiles раздаёт загруженные картинки без листинга каталога.
func mediaFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
