// internal/app/features/directory/routes.go
package directory

import (
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.Serve)
	return r
}
