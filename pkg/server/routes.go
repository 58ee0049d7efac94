package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wineraise.dev/WineRaise/pkg/auth"
)

type Servers struct {
	Users     *UserServer
	Wines     *WineServer
	Libraries *LibraryServer
	Tags      *TagServer
}

// NewRouter mounts the API. Registration and token issuance are open;
// everything else requires a Bearer access token.
func NewRouter(servers Servers, authManager *auth.Manager) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Group(func(public chi.Router) {
		public.Post("/user/create/", servers.Users.Create)
		public.Post("/user/token/", servers.Users.Token)
		public.Post("/user/token/refresh/", servers.Users.TokenRefresh)
	})

	router.Group(func(private chi.Router) {
		private.Use(authManager.Middleware)

		private.Get("/user/me/", servers.Users.Me)
		private.Put("/user/me/", servers.Users.UpdateMe)
		private.Patch("/user/me/", servers.Users.UpdateMe)

		private.Route("/wine", func(wine chi.Router) {
			wine.Get("/wines/", servers.Wines.List)
			wine.Post("/wines/", servers.Wines.Create)
			wine.Get("/wines/find/", servers.Wines.Find)
			wine.Get("/wines/{id}/", servers.Wines.Get)
			wine.Put("/wines/{id}/", servers.Wines.Update)
			wine.Patch("/wines/{id}/", servers.Wines.Update)
			wine.Delete("/wines/{id}/", servers.Wines.Delete)
			wine.Post("/wines/{id}/add-review/", servers.Wines.AddReview)

			wine.Get("/libraries/", servers.Libraries.List)
			wine.Post("/libraries/", servers.Libraries.Create)
			wine.Get("/libraries/{id}/", servers.Libraries.Get)
			wine.Put("/libraries/{id}/", servers.Libraries.Update)
			wine.Patch("/libraries/{id}/", servers.Libraries.Update)
			wine.Delete("/libraries/{id}/", servers.Libraries.Delete)

			wine.Get("/tags/", servers.Tags.List)
			wine.Post("/tags/", servers.Tags.Create)
		})
	})

	return router
}
