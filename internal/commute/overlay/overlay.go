// Package overlay renders a map view as a GeoJSON FeatureCollection for the
// browser map: office marker, radius bands, visible houses and route line.
package overlay

import (
	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// circleSegments is the number of vertices used to draw a band.
const circleSegments = 64

// Feature kinds, stored in the "kind" property.
const (
	KindOffice = "office"
	KindBand   = "band"
	KindHouse  = "house"
	KindRoute  = "route"
)

func point(c geo.Coordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Build returns the overlay for a view.
func Build(v domain.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if v.Office != nil {
		office := geojson.NewFeature(point(*v.Office))
		office.Properties["kind"] = KindOffice
		office.Properties["label"] = v.OfficeLabel
		fc.Append(office)

		for _, band := range v.ActiveBands() {
			f := geojson.NewFeature(Circle(*v.Office, band.RadiusKm))
			f.Properties["kind"] = KindBand
			f.Properties["radiusKm"] = band.RadiusKm
			f.Properties["stroke"] = band.Color
			f.Properties["fill"] = band.Color
			f.Properties["fill-opacity"] = band.FillOpacity
			f.Properties["stroke-opacity"] = band.StrokeOpacity
			f.Properties["stroke-width"] = band.StrokeWeight
			f.Properties["zIndex"] = band.ZIndex
			fc.Append(f)
		}

		for _, h := range domain.Place(*v.Office, v.Visible()) {
			f := geojson.NewFeature(point(h.Position))
			f.ID = h.ID
			f.Properties["kind"] = KindHouse
			f.Properties["distanceKm"] = h.DistanceKm
			fc.Append(f)
		}
	}

	if r := v.Route; r != nil && len(r.Polyline) > 1 {
		line := make(orb.LineString, 0, len(r.Polyline))
		for _, c := range r.Polyline {
			line = append(line, point(c))
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = KindRoute
		f.Properties["houseId"] = r.HouseID
		f.Properties["stroke"] = domain.DefaultRouteStyle.Color
		f.Properties["stroke-width"] = domain.DefaultRouteStyle.StrokeWeight
		f.Properties["zIndex"] = domain.DefaultRouteStyle.ZIndex
		if leg, ok := r.Summary(); ok {
			f.Properties["distance"] = leg.DistanceText
			f.Properties["duration"] = leg.DurationText
		}
		fc.Append(f)
	}

	return fc
}

// Circle approximates a ring of radiusKm around center as a closed polygon.
func Circle(center geo.Coordinate, radiusKm float64) orb.Polygon {
	c := point(center)
	ring := make(orb.Ring, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		bearing := float64(i) * 360 / circleSegments
		ring = append(ring, orbgeo.PointAtBearingAndDistance(c, bearing, radiusKm*1000))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
