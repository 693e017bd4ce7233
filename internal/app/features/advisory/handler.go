// internal/app/features/advisory/handler.go
package advisory

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/httpjson"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type Handler struct {
	Provider WeatherProvider
	Log      *zap.Logger
}

func NewHandler(provider WeatherProvider, logger *zap.Logger) *Handler {
	return &Handler{Provider: provider, Log: logger}
}

type weatherResponse struct {
	Weather    *Weather   `json:"weather"`
	Advisories []Advisory `json:"advisories"`
}

// upstream calls get their own deadline, independent of any DB timeouts.
const providerTimeout = 12 * time.Second

// ServeWeather handles GET /api/advisory/weather.
func (h *Handler) ServeWeather(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(query.Get(r, "state"))
	district := strings.TrimSpace(query.Get(r, "district"))
	if state == "" || district == "" {
		httpjson.Error(w, http.StatusBadRequest, "state and district query parameters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	wx, err := h.Provider.Current(ctx, state, district)
	if err != nil {
		h.Log.Warn("weather provider call failed",
			zap.Error(err),
			zap.String("state", state),
			zap.String("district", district))
		httpjson.Error(w, http.StatusBadGateway, "weather service is temporarily unavailable")
		return
	}

	httpjson.OK(w, weatherResponse{Weather: wx, Advisories: Advisories(*wx)})
}
