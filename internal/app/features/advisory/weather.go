// internal/app/features/advisory/weather.go

// Package advisory turns current weather for a farmer's district into
// plain-language crop advisories.
package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Weather is the provider-independent snapshot the rule table runs on.
type Weather struct {
	Location  string  `json:"location"`
	Condition string  `json:"condition"`
	TempC     float64 `json:"temp_c"`
	Humidity  float64 `json:"humidity"`
	WindKph   float64 `json:"wind_kph"`
	RainMM    float64 `json:"rain_mm"` // last hour
}

// WeatherProvider fetches current conditions for an Indian district.
// Implementations must respect ctx cancellation.
type WeatherProvider interface {
	Current(ctx context.Context, state, district string) (*Weather, error)
}

// OpenWeatherClient implements WeatherProvider against the OpenWeatherMap
// current-weather endpoint.
type OpenWeatherClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// NewOpenWeatherClient builds a client with a bounded request timeout.
func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// owmResponse covers just the fields the rule table needs.
type owmResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
}

func (c *OpenWeatherClient) Current(ctx context.Context, state, district string) (*Weather, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s,IN", district, state))
	q.Set("units", "metric")
	q.Set("appid", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather upstream returned %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	w := &Weather{
		Location: body.Name,
		TempC:    body.Main.Temp,
		Humidity: body.Main.Humidity,
		WindKph:  body.Wind.Speed * 3.6,
		RainMM:   body.Rain.OneH,
	}
	if len(body.Weather) > 0 {
		w.Condition = body.Weather[0].Description
	}
	return w, nil
}
