package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"commute_backend/platform/apperr"
	"commute_backend/platform/config"
	"commute_backend/platform/geo"
	"commute_backend/platform/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	providerName  = "nominatim"
	maxSuggestion = 5
)

// Service looks up addresses through a Nominatim search endpoint.
type Service struct {
	client       *http.Client
	limiter      *rate.Limiter
	baseURL      string
	countryCodes string
	userAgent    string
	log          *logger.Logger
}

// NewService creates a lookup client. Requests are throttled to one per
// second, the public Nominatim usage policy.
func NewService(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return &Service{
		client: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		baseURL:      cfg.GetNominatimURL(),
		countryCodes: cfg.GetNominatimCountryCodes(),
		userAgent:    cfg.GetNominatimUserAgent(),
		log:          log,
	}
}

// SearchAddress returns up to five suggestions for query.
func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	rawResults, err := s.search(ctx, query, maxSuggestion)
	if err != nil {
		return nil, apperr.Unavailable("address lookup service unavailable", err).WithOp("maps.SearchAddress")
	}

	suggestions := make([]AddressSuggestion, 0, len(rawResults))
	for _, raw := range rawResults {
		suggestion, ok := buildSuggestion(raw)
		if !ok {
			continue
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// Geocode resolves an address to the best matching coordinate and its label.
func (s *Service) Geocode(ctx context.Context, address string) (geo.Coordinate, string, error) {
	rawResults, err := s.search(ctx, address, 1)
	if err != nil {
		return geo.Coordinate{}, "", apperr.Unavailable("address lookup service unavailable", err).WithOp("maps.Geocode")
	}

	for _, raw := range rawResults {
		if suggestion, ok := buildSuggestion(raw); ok {
			return geo.Coordinate{Lat: suggestion.Lat, Lng: suggestion.Lng}, suggestion.Label, nil
		}
	}
	return geo.Coordinate{}, "", apperr.NotFound("address not found")
}

func (s *Service) search(ctx context.Context, query string, limit int) ([]nominatimResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(limit))
	if s.countryCodes != "" {
		params.Add("countrycodes", s.countryCodes)
	}

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.UpstreamError(providerName, "search", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		s.log.UpstreamError(providerName, "search", err)
		return nil, err
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		s.log.UpstreamError(providerName, "decode", err)
		return nil, err
	}
	return rawResults, nil
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	lat, errLat := strconv.ParseFloat(raw.Lat, 64)
	lng, errLng := strconv.ParseFloat(raw.Lon, 64)
	if errLat != nil || errLng != nil {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Street:      raw.Address.Road,
		HouseNumber: raw.Address.HouseNumber,
		ZipCode:     raw.Address.Postcode,
		City:        pickCity(raw.Address),
		Lat:         lat,
		Lng:         lng,
	}

	if suggestion.Street != "" && suggestion.City != "" {
		suggestion.Label = buildLabel(suggestion)
	} else {
		suggestion.Label = raw.DisplayName
	}
	if suggestion.Label == "" {
		return AddressSuggestion{}, false
	}

	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

func buildLabel(suggestion AddressSuggestion) string {
	parts := []string{suggestion.Street}
	if suggestion.HouseNumber != "" {
		parts = append(parts, suggestion.HouseNumber)
	}
	parts = append(parts, ",")
	if suggestion.ZipCode != "" {
		parts = append(parts, suggestion.ZipCode)
	}
	parts = append(parts, suggestion.City)

	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, " ,", ",")
	return strings.TrimSpace(label)
}
