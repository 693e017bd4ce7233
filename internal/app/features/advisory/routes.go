// internal/app/features/advisory/routes.go
package advisory

import (
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/weather", h.ServeWeather)
	return r
}
