package export

import (
	"bytes"
	"testing"
	"time"

	"commute_backend/internal/commute/domain"
	"commute_backend/platform/geo"

	"github.com/xuri/excelize/v2"
)

func newSession(t *testing.T) *domain.Session {
	t.Helper()
	gen := domain.NewGenerator(21)
	view := domain.NewView(geo.Coordinate{Lat: 36.6485258, Lng: 138.1950371}, gen)
	if err := view.SetOffice(geo.Coordinate{Lat: 36.6485258, Lng: 138.1950371}, "Nagano", gen); err != nil {
		t.Fatalf("set office: %v", err)
	}
	return domain.NewSession(view, time.Now())
}

func readBack(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteHouses_VisibleRowsOnly(t *testing.T) {
	s := newSession(t)
	if err := s.View.SetThreshold(30); err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteHouses(&buf, s); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := readBack(t, &buf)
	rows, err := f.GetRows(HousesSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != len(s.View.Visible())+1 {
		t.Fatalf("expected header plus %d rows, got %d", len(s.View.Visible()), len(rows))
	}
	if rows[0][0] != "House ID" || rows[0][3] != "Distance (km)" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	for _, name := range f.GetSheetList() {
		if name == "Sheet1" {
			t.Fatalf("expected default sheet to be removed")
		}
	}
}

func TestWriteHouses_Summary(t *testing.T) {
	s := newSession(t)
	s.View.Route = &domain.Route{HouseID: "abc", Legs: []domain.Leg{{DistanceText: "7.9 km", DurationText: "14 mins"}}}

	var buf bytes.Buffer
	if err := WriteHouses(&buf, s); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := readBack(t, &buf)
	office, _ := f.GetCellValue(SummarySheet, "B5")
	if office != "Nagano" {
		t.Fatalf("expected office label, got %q", office)
	}
	duration, _ := f.GetCellValue(SummarySheet, "B10")
	if duration != "14 mins" {
		t.Fatalf("expected route duration, got %q", duration)
	}
}

func TestWriteHouses_WithoutOfficeIsHeaderOnly(t *testing.T) {
	view := domain.NewView(geo.Coordinate{Lat: 36.6485258, Lng: 138.1950371}, domain.NewGenerator(3))
	s := domain.NewSession(view, time.Now())

	var buf bytes.Buffer
	if err := WriteHouses(&buf, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, _ := readBack(t, &buf).GetRows(HousesSheet)
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d", len(rows))
	}
}
