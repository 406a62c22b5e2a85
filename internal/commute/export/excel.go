// Package export writes the visible houses of a map view to a spreadsheet.
package export

import (
	"fmt"
	"io"

	"commute_backend/internal/commute/domain"

	"github.com/xuri/excelize/v2"
)

const (
	HousesSheet  = "Houses"
	SummarySheet = "Summary"
)

// WriteHouses writes the houses that pass the filter, with their distance to
// the office, plus a summary sheet.
func WriteHouses(w io.Writer, s *domain.Session) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(HousesSheet)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(HousesSheet)
	if err != nil {
		return err
	}

	headers := []interface{}{"House ID", "Lat", "Lng", "Distance (km)", "Band (km)"}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	visible := s.View.Visible()
	for i, h := range visible {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{h.ID, h.Position.Lat, h.Position.Lng}
		if s.View.Office != nil {
			placed := domain.Place(*s.View.Office, []domain.House{h})[0]
			row = append(row, placed.DistanceKm)
			if band, ok := domain.BandFor(placed.DistanceKm); ok {
				row = append(row, band.RadiusKm)
			}
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	if err := writeSummary(f, s, len(visible)); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_, err = f.WriteTo(w)
	return err
}

func writeSummary(f *excelize.File, s *domain.Session, visible int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Session", s.ID.String()},
		{"Threshold (km)", s.View.ThresholdKm},
		{"Houses", len(s.View.Houses)},
		{"Visible", visible},
	}
	if s.View.Office != nil {
		rows = append(rows,
			[]interface{}{"Office", s.View.OfficeLabel},
			[]interface{}{"Office lat", s.View.Office.Lat},
			[]interface{}{"Office lng", s.View.Office.Lng},
		)
	}
	if r := s.View.Route; r != nil {
		if leg, ok := r.Summary(); ok {
			rows = append(rows,
				[]interface{}{"Route house", r.HouseID},
				[]interface{}{"Route distance", leg.DistanceText},
				[]interface{}{"Route duration", leg.DurationText},
			)
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}
