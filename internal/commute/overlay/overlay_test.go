package overlay

import (
	"encoding/json"
	"math"
	"testing"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"
)

var nagano = geo.Coordinate{Lat: 36.6485258, Lng: 138.1950371}

func kinds(t *testing.T, v domain.View) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	for _, f := range Build(v).Features {
		kind, _ := f.Properties["kind"].(string)
		counts[kind]++
	}
	return counts
}

func TestBuild_WithoutOfficeIsEmpty(t *testing.T) {
	v := domain.NewView(nagano, domain.NewGenerator(1))
	if got := len(Build(v).Features); got != 0 {
		t.Fatalf("expected no features without an office, got %d", got)
	}
}

func TestBuild_OfficeBandsHousesRoute(t *testing.T) {
	gen := domain.NewGenerator(1)
	v := domain.NewView(nagano, gen)
	_ = v.SetOffice(nagano, "Nagano", gen)
	_ = v.SetThreshold(20)
	v.Route = &domain.Route{HouseID: "h", Polyline: []geo.Coordinate{nagano, nagano.Offset(0.1, 0.1)}}

	counts := kinds(t, v)
	if counts[KindOffice] != 1 || counts[KindBand] != 3 || counts[KindRoute] != 1 {
		t.Fatalf("unexpected feature counts %v", counts)
	}
	if counts[KindHouse] != len(v.Visible()) {
		t.Fatalf("expected %d houses, got %d", len(v.Visible()), counts[KindHouse])
	}

	raw, err := json.Marshal(Build(v))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.Type != "FeatureCollection" {
		t.Fatalf("expected a FeatureCollection, got %s", raw)
	}
}

func TestCircle_RadiusMatchesHaversine(t *testing.T) {
	poly := Circle(nagano, 15)
	ring := poly[0]
	if len(ring) != circleSegments+1 || ring[0] != ring[len(ring)-1] {
		t.Fatalf("expected closed ring of %d points", circleSegments+1)
	}
	for _, p := range ring {
		d := geo.DistanceKm(nagano, geo.Coordinate{Lat: p.Lat(), Lng: p.Lon()})
		if math.Abs(d-15) > 0.1 {
			t.Fatalf("vertex %v is %.3f km from the center", p, d)
		}
	}
}
