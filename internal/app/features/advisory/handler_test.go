package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheTrueCuriousChild/krishiseva/internal/testutil"
	"go.uber.org/zap"
)

type stubProvider struct {
	weather *Weather
	err     error
}

func (s *stubProvider) Current(_ context.Context, _, _ string) (*Weather, error) {
	return s.weather, s.err
}

func newTestHandler(p WeatherProvider) *Handler {
	return NewHandler(p, zap.NewNop())
}

func TestServeWeather_ReturnsWeatherAndAdvisories(t *testing.T) {
	h := newTestHandler(&stubProvider{weather: &Weather{
		Location: "Mandya",
		TempC:    41,
		Humidity: 30,
	}})

	r := httptest.NewRequest("GET", "/api/advisory/weather?state=Karnataka&district=Mandya", nil)
	rec := httptest.NewRecorder()
	h.ServeWeather(rec, r)

	testutil.AssertStatus(t, rec, http.StatusOK)
	env := testutil.DecodeEnvelopeBody(t, rec)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var data struct {
		Weather    Weather    `json:"weather"`
		Advisories []Advisory `json:"advisories"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Weather.Location != "Mandya" {
		t.Errorf("location = %q, want Mandya", data.Weather.Location)
	}
	if len(data.Advisories) == 0 {
		t.Error("expected at least one advisory for 41C heat")
	}
}

func TestServeWeather_MissingParams(t *testing.T) {
	h := newTestHandler(&stubProvider{weather: &Weather{}})

	r := httptest.NewRequest("GET", "/api/advisory/weather?state=Karnataka", nil)
	rec := httptest.NewRecorder()
	h.ServeWeather(rec, r)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeWeather_ProviderFailure(t *testing.T) {
	h := newTestHandler(&stubProvider{err: errors.New("connection refused")})

	r := httptest.NewRequest("GET", "/api/advisory/weather?state=Karnataka&district=Mandya", nil)
	rec := httptest.NewRecorder()
	h.ServeWeather(rec, r)

	testutil.AssertStatus(t, rec, http.StatusBadGateway)
	env := testutil.DecodeEnvelopeBody(t, rec)
	if env.Success {
		t.Error("expected failure envelope")
	}
	if env.Message == "" || env.Message == "connection refused" {
		t.Errorf("message should be opaque, got %q", env.Message)
	}
}

func TestOpenWeatherClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Mandya,Karnataka,IN" {
			t.Errorf("q = %q", got)
		}
		if r.URL.Query().Get("appid") == "" {
			t.Error("appid missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Mandya",
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 24.5, "humidity": 88},
			"wind": {"speed": 5.0},
			"rain": {"1h": 2.2}
		}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("test-key")
	c.BaseURL = srv.URL

	wx, err := c.Current(context.Background(), "Karnataka", "Mandya")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if wx.Condition != "light rain" {
		t.Errorf("condition = %q", wx.Condition)
	}
	if wx.TempC != 24.5 || wx.Humidity != 88 || wx.RainMM != 2.2 {
		t.Errorf("unexpected snapshot: %+v", wx)
	}
	if wx.WindKph != 18 {
		t.Errorf("wind = %v kph, want 18 (5 m/s)", wx.WindKph)
	}
}

func TestOpenWeatherClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("bad-key")
	c.BaseURL = srv.URL

	if _, err := c.Current(context.Background(), "Karnataka", "Mandya"); err == nil {
		t.Fatal("expected error on non-200 upstream response")
	}
}
