// Package ingest pulls environmental measurements from Open-Meteo (a
// keyless weather and soil API) and maps them into engine input shape.
package ingest

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// #endregion

// #region types

// CurrentConditions holds the instantaneous measurements.
type CurrentConditions struct {
	Temperature  float64 `json:"temperature_2m"`
	Humidity     float64 `json:"relative_humidity_2m"`
	Precip       float64 `json:"precipitation"`
	SoilTemp     float64 `json:"soil_temperature_6cm"`
	SoilMoisture float64 `json:"soil_moisture_3_to_9cm"`
	ET           float64 `json:"et0_fao_evapotranspiration"`
}

// HourlySeries holds the forecast arrays, index 0 being the first hour.
type HourlySeries struct {
	Temperature  []float64 `json:"temperature_2m"`
	Humidity     []float64 `json:"relative_humidity_2m"`
	Precip       []float64 `json:"precipitation"`
	SoilTemp     []float64 `json:"soil_temperature_6cm"`
	SoilMoisture []float64 `json:"soil_moisture_3_to_9cm"`
}

// Snapshot is one environmental reading: current conditions plus the
// hourly forecast for the same location.
type Snapshot struct {
	Current CurrentConditions `json:"current"`
	Hourly  HourlySeries      `json:"hourly"`
}

// #endregion types

// #region config

// Config holds the ingestion endpoint and timeout.
// Env overrides: OPEN_METEO_URL, OPEN_METEO_TIMEOUT (seconds).
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns the public Open-Meteo forecast endpoint with a
// 15 second timeout.
func DefaultConfig() Config {
	cfg := Config{
		BaseURL: "https://api.open-meteo.com/v1/forecast",
		Timeout: 15 * time.Second,
	}
	if v := os.Getenv("OPEN_METEO_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OPEN_METEO_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Timeout = time.Duration(sec) * time.Second
		}
	}
	return cfg
}

// #endregion config

// #region client

const (
	hourlyVars  = "temperature_2m,relative_humidity_2m,precipitation,soil_temperature_6cm,soil_moisture_3_to_9cm,et0_fao_evapotranspiration"
	currentVars = "temperature_2m,relative_humidity_2m,precipitation,soil_temperature_6cm,soil_moisture_3_to_9cm"
)

// Client fetches environmental snapshots over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a client with the config's timeout applied to every
// request.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchSnapshot retrieves current and hourly measurements for a location.
// Transport failures and non-200 responses surface as errors; there is no
// retry, the caller decides.
func (c *Client) FetchSnapshot(ctx context.Context, lat, lon float64) (Snapshot, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("hourly", hourlyVars)
	q.Set("current", currentVars)
	q.Set("timezone", "auto")
	q.Set("forecast_days", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Snapshot{}, fmt.Errorf("fetch snapshot: status %d: %s", resp.StatusCode, body)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// #endregion client
