package domain

import (
	"testing"

	"commute_backend/platform/apperr"
	"commute_backend/platform/geo"
)

var tokyo = geo.Coordinate{Lat: 35.6762, Lng: 139.6503}

// fixedHouses returns the same three houses next to any center.
type fixedHouses struct {
	calls int
}

func (f *fixedHouses) Generate(center geo.Coordinate) []House {
	f.calls++
	return []House{
		NewHouse(center.Offset(0.01, 0.01)),
		NewHouse(northOf(center, 25)),
		NewHouse(northOf(center, 48)),
	}
}

func TestNewView_HousesAroundCenterWithoutOffice(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)

	if v.Office != nil {
		t.Fatalf("expected no office")
	}
	if v.Zoom != DefaultZoom {
		t.Fatalf("expected zoom %d, got %d", DefaultZoom, v.Zoom)
	}
	if len(v.Houses) != 3 || src.calls != 1 {
		t.Fatalf("expected houses generated once around the center")
	}
	if len(v.Visible()) != 0 {
		t.Fatalf("expected nothing visible without an office")
	}
	if v.ActiveBands() != nil {
		t.Fatalf("expected no bands without an office")
	}
}

func TestView_SetOfficeRegeneratesHouses(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)

	if err := v.SetOffice(tokyo, "Tokyo", src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("expected regeneration, got %d calls", src.calls)
	}
	if *v.Office != tokyo || v.Center != tokyo {
		t.Fatalf("expected office and center at tokyo")
	}
	if got := geo.DistanceKm(tokyo, v.Houses[0].Position); got > 2 {
		t.Fatalf("expected houses around the office, first is %v km away", got)
	}
	if len(v.Visible()) != 3 {
		t.Fatalf("expected all houses visible at threshold 0")
	}
	if len(v.ActiveBands()) != 3 {
		t.Fatalf("expected three bands")
	}
}

func TestView_SetOfficeRejectsInvalid(t *testing.T) {
	v := NewView(defaultCenter, &fixedHouses{})
	err := v.SetOffice(geo.Coordinate{Lat: 91}, "", &fixedHouses{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Office != nil {
		t.Fatalf("expected office to stay unset")
	}
}

func TestView_SetThreshold(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)
	_ = v.SetOffice(tokyo, "", src)

	for _, bad := range []int{-10, 5, 15, 60} {
		if err := v.SetThreshold(bad); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("threshold %d: expected validation error, got %v", bad, err)
		}
	}

	if err := v.SetThreshold(30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(v.Visible()); got != 2 {
		t.Fatalf("expected 2 houses within 30 km, got %d", got)
	}
	if err := v.SetThreshold(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(v.Visible()); got != 3 {
		t.Fatalf("expected 3 houses within 50 km, got %d", got)
	}
}

func TestView_BeginRouteRequiresOfficeAndHouse(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)

	if _, err := v.BeginRoute(v.Houses[0].ID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict without office, got %v", err)
	}

	_ = v.SetOffice(tokyo, "", src)
	if _, err := v.BeginRoute("nope"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown house, got %v", err)
	}

	req, err := v.BeginRoute(v.Houses[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Origin != v.Houses[1].Position || req.Destination != tokyo || req.Mode != TravelModeDriving {
		t.Fatalf("unexpected request %+v", req)
	}

	next, _ := v.BeginRoute(v.Houses[2].ID)
	if next.Token <= req.Token {
		t.Fatalf("expected increasing tokens, got %d then %d", req.Token, next.Token)
	}
}

func TestView_BeginRouteOnlyForVisibleHouses(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)
	_ = v.SetOffice(tokyo, "", src)
	if err := v.SetThreshold(10); err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	far := v.Houses[2]
	if _, ok := FindHouse(v.Visible(), far.ID); ok {
		t.Fatalf("expected the 48 km house to be hidden at 10 km")
	}
	token := v.RouteToken
	if _, err := v.BeginRoute(far.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for a hidden house, got %v", err)
	}
	if v.RouteToken != token {
		t.Fatalf("rejected request must not issue a token")
	}

	if _, err := v.BeginRoute(v.Houses[0].ID); err != nil {
		t.Fatalf("expected the nearby house to be routable, got %v", err)
	}
}

func TestView_ApplyRouteOnlyForLatestToken(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)
	_ = v.SetOffice(tokyo, "", src)

	first, _ := v.BeginRoute(v.Houses[0].ID)
	second, _ := v.BeginRoute(v.Houses[1].ID)

	if v.ApplyRoute(first.Token, Route{HouseID: first.HouseID}) {
		t.Fatalf("expected stale token to be discarded")
	}
	if v.Route != nil {
		t.Fatalf("expected no route after stale response")
	}

	if !v.ApplyRoute(second.Token, Route{HouseID: second.HouseID}) {
		t.Fatalf("expected latest token to be applied")
	}
	if v.Route == nil || v.Route.HouseID != second.HouseID || v.Route.Token != second.Token {
		t.Fatalf("unexpected route %+v", v.Route)
	}

	third, _ := v.BeginRoute(v.Houses[2].ID)
	// A failed request never calls ApplyRoute; the stored route must survive.
	if v.Route.HouseID != second.HouseID {
		t.Fatalf("expected previous route to be kept while %d is in flight", third.Token)
	}
}

func TestView_OfficeChangeMakesPendingTokensStale(t *testing.T) {
	src := &fixedHouses{}
	v := NewView(defaultCenter, src)
	_ = v.SetOffice(tokyo, "", src)

	req, _ := v.BeginRoute(v.Houses[0].ID)
	_ = v.SetOffice(defaultCenter, "", src)

	if v.ApplyRoute(req.Token, Route{HouseID: req.HouseID}) {
		t.Fatalf("expected route for the old office to be discarded")
	}
}
