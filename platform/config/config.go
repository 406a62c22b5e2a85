// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Routing provider identifiers accepted by ROUTING_PROVIDER.
const (
	RoutingProviderGoogle = "google"
	RoutingProviderOSRM   = "osrm"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SessionStoreConfig provides settings for the map view session store.
type SessionStoreConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
}

// RoutingConfig provides settings for the driving directions provider.
type RoutingConfig interface {
	GetRoutingProvider() string
	GetGoogleMapsAPIKey() string
	GetGoogleDirectionsURL() string
	GetOSRMURL() string
	GetRoutingTimeout() time.Duration
}

// GeocoderConfig provides settings for the address lookup provider.
type GeocoderConfig interface {
	GetNominatimURL() string
	GetNominatimCountryCodes() string
	GetNominatimUserAgent() string
}

// CommuteConfig provides settings for the map view itself.
type CommuteConfig interface {
	GetDefaultCenter() (lat, lng float64)
	GetHouseSeed() uint64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	RedisURL              string
	SessionTTL            time.Duration
	RoutingProvider       string
	GoogleMapsAPIKey      string
	GoogleDirectionsURL   string
	OSRMURL               string
	RoutingTimeout        time.Duration
	NominatimURL          string
	NominatimCountryCodes string
	NominatimUserAgent    string
	DefaultCenterLat      float64
	DefaultCenterLng      float64
	HouseSeed             uint64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// SessionStoreConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

// RoutingConfig implementation
func (c *Config) GetRoutingProvider() string       { return c.RoutingProvider }
func (c *Config) GetGoogleMapsAPIKey() string      { return c.GoogleMapsAPIKey }
func (c *Config) GetGoogleDirectionsURL() string   { return c.GoogleDirectionsURL }
func (c *Config) GetOSRMURL() string               { return c.OSRMURL }
func (c *Config) GetRoutingTimeout() time.Duration { return c.RoutingTimeout }

// GeocoderConfig implementation
func (c *Config) GetNominatimURL() string          { return c.NominatimURL }
func (c *Config) GetNominatimCountryCodes() string { return c.NominatimCountryCodes }
func (c *Config) GetNominatimUserAgent() string    { return c.NominatimUserAgent }

// CommuteConfig implementation
func (c *Config) GetDefaultCenter() (float64, float64) { return c.DefaultCenterLat, c.DefaultCenterLng }
func (c *Config) GetHouseSeed() uint64                 { return c.HouseSeed }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	googleKey := getEnv("GOOGLE_MAPS_API_KEY", "")
	defaultProvider := RoutingProviderOSRM
	if googleKey != "" {
		defaultProvider = RoutingProviderGoogle
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:              getEnv("REDIS_URL", ""),
		RoutingProvider:       strings.ToLower(strings.TrimSpace(getEnv("ROUTING_PROVIDER", defaultProvider))),
		GoogleMapsAPIKey:      googleKey,
		GoogleDirectionsURL:   getEnv("GOOGLE_DIRECTIONS_URL", "https://maps.googleapis.com/maps/api/directions/json"),
		OSRMURL:               strings.TrimRight(getEnv("OSRM_URL", "https://router.project-osrm.org"), "/"),
		NominatimURL:          getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		NominatimCountryCodes: getEnv("NOMINATIM_COUNTRY_CODES", ""),
		NominatimUserAgent:    getEnv("NOMINATIM_USER_AGENT", "CommuteMap/1.0"),
	}

	var err error
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.RoutingTimeout, err = parseDuration("ROUTING_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", "10"); err != nil {
		return nil, err
	}
	burst, err := parseFloat("RATE_LIMIT_BURST", "20")
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)
	if cfg.DefaultCenterLat, err = parseFloat("DEFAULT_CENTER_LAT", "36.6485258"); err != nil {
		return nil, err
	}
	if cfg.DefaultCenterLng, err = parseFloat("DEFAULT_CENTER_LNG", "138.1950371"); err != nil {
		return nil, err
	}
	seed, err := strconv.ParseUint(getEnv("HOUSE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("HOUSE_SEED must be an unsigned integer: %w", err)
	}
	cfg.HouseSeed = seed

	switch cfg.RoutingProvider {
	case RoutingProviderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required when ROUTING_PROVIDER is google")
		}
	case RoutingProviderOSRM:
	default:
		return nil, fmt.Errorf("ROUTING_PROVIDER must be %q or %q, got %q", RoutingProviderGoogle, RoutingProviderOSRM, cfg.RoutingProvider)
	}
	if cfg.DefaultCenterLat < -90 || cfg.DefaultCenterLat > 90 || cfg.DefaultCenterLng < -180 || cfg.DefaultCenterLng > 180 {
		return nil, fmt.Errorf("DEFAULT_CENTER_LAT/DEFAULT_CENTER_LNG out of range")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(getEnv(key, fallback)), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
