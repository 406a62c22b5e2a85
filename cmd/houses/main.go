package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"commute_backend/internal/commute/domain"
	"commute_backend/internal/commute/export"
	"commute_backend/internal/maps"
	"commute_backend/platform/config"
	"commute_backend/platform/geo"
	"commute_backend/platform/logger"
)

func main() {
	address := flag.String("address", "", "office address to geocode")
	lat := flag.Float64("lat", 0, "office latitude (used when -address is empty)")
	lng := flag.Float64("lng", 0, "office longitude (used when -address is empty)")
	seed := flag.Uint64("seed", 0, "house generator seed, 0 seeds from the clock")
	km := flag.Int("km", 0, "distance threshold in km (0-50, step 10)")
	xlsx := flag.String("xlsx", "", "write the visible houses to this spreadsheet instead of stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	office := geo.Coordinate{Lat: *lat, Lng: *lng}
	label := office.String()
	if *address != "" {
		mapsService := maps.NewService(cfg, log)
		office, label, err = mapsService.Geocode(ctx, *address)
		if err != nil {
			log.Error("geocode failed", "address", *address, "error", err)
			os.Exit(1)
		}
		log.Info("office geocoded", "address", *address, "lat", office.Lat, "lng", office.Lng)
	}

	gen := domain.NewGenerator(*seed)
	session := domain.NewSession(domain.NewView(office, gen), time.Now().UTC())
	if err := session.View.SetOffice(office, label, gen); err != nil {
		log.Error("invalid office", "error", err)
		os.Exit(1)
	}
	if err := session.View.SetThreshold(*km); err != nil {
		log.Error("invalid threshold", "km", *km, "error", err)
		os.Exit(1)
	}

	if *xlsx != "" {
		if err := writeWorkbook(*xlsx, session); err != nil {
			log.Error("failed to write spreadsheet", "path", *xlsx, "error", err)
			os.Exit(1)
		}
		log.Info("spreadsheet written", "path", *xlsx, "visible", len(session.View.Visible()))
		return
	}

	if err := printTable(session.View); err != nil {
		log.Error("failed to print houses", "error", err)
		os.Exit(1)
	}
}

func writeWorkbook(path string, session *domain.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteHouses(f, session); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printTable(v domain.View) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "office\t%s\t%s\n", v.OfficeLabel, v.Office)
	fmt.Fprintf(w, "threshold\t%d km\t\n\n", v.ThresholdKm)
	fmt.Fprintln(w, "HOUSE\tLAT\tLNG\tDISTANCE")
	for _, h := range domain.Place(*v.Office, v.Visible()) {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.2f km\n", h.ID, h.Position.Lat, h.Position.Lng, h.DistanceKm)
	}
	return w.Flush()
}
