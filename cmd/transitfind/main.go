// Command transitfind predicts satellite transits of the Sun and Moon for a
// ground observer. It fetches current orbital elements from Celestrak (with
// an on-disk cache) and prints events as a table or JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geraldgg/helioselene/internal/tle"
	"github.com/geraldgg/helioselene/internal/transits"
)

// knownSatellite describes a catalog entry selectable by name with -satellites.
type knownSatellite struct {
	name          string
	catalogNumber int
	sizeM         float64
}

var catalog = map[string]knownSatellite{
	"ISS":      {name: "ISS (ZARYA)", catalogNumber: 25544, sizeM: 108},
	"TIANGONG": {name: "TIANGONG", catalogNumber: 48274, sizeM: 55},
	"HUBBLE":   {name: "HUBBLE SPACE TELESCOPE", catalogNumber: 20580, sizeM: 13.2},
}

const cacheMaxAge = 12 * time.Hour

type options struct {
	lat, lon, elev float64
	days           int
	start          string
	altMin         float64
	nearMargin     float64
	coarseStep     time.Duration
	fineStep       time.Duration
	refineWindow   time.Duration
	maxDistance    float64
	satellites     string
	tleFile        string
	jsonOut        bool
	cacheDir       string
	verbose        bool
}

func main() {
	var opts options
	flag.Float64Var(&opts.lat, "lat", 48.8566, "observer latitude, degrees north")
	flag.Float64Var(&opts.lon, "lon", 2.3522, "observer longitude, degrees east")
	flag.Float64Var(&opts.elev, "elev", 35, "observer elevation, meters")
	flag.IntVar(&opts.days, "days", 7, "window length in days")
	flag.StringVar(&opts.start, "start", "", "window start, RFC3339 (default: now)")
	flag.Float64Var(&opts.altMin, "alt-min", 5, "minimum satellite elevation, degrees")
	flag.Float64Var(&opts.nearMargin, "near-margin", 30, "near-event margin beyond the disc, arcminutes")
	flag.DurationVar(&opts.coarseStep, "coarse-step", 20*time.Second, "coarse scan step")
	flag.DurationVar(&opts.fineStep, "fine-step", time.Second, "refinement step")
	flag.DurationVar(&opts.refineWindow, "refine-window", time.Minute, "refinement half-window")
	flag.Float64Var(&opts.maxDistance, "max-distance", 35, "reachable travel distance, km (0 disables)")
	flag.StringVar(&opts.satellites, "satellites", "ISS", "comma-separated satellites: ISS, TIANGONG, HUBBLE")
	flag.StringVar(&opts.tleFile, "tle-file", "", "read elements from a file instead of Celestrak (single satellite)")
	flag.BoolVar(&opts.jsonOut, "json", false, "emit events as JSON")
	flag.StringVar(&opts.cacheDir, "cache-dir", defaultCacheDir(), "element cache directory")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), opts, logger); err != nil {
		fmt.Fprintln(os.Stderr, "transitfind:", err)
		os.Exit(1)
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "transitfind")
	}
	return ".transitfind-cache"
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	start := time.Now().UTC()
	if opts.start != "" {
		t, err := time.Parse(time.RFC3339, opts.start)
		if err != nil {
			return fmt.Errorf("parsing -start: %w", err)
		}
		start = t.UTC()
	}
	end := start.Add(time.Duration(opts.days) * 24 * time.Hour)

	targets, err := resolveTargets(opts)
	if err != nil {
		return err
	}

	entries, err := loadElements(ctx, opts, targets, logger)
	if err != nil {
		return err
	}

	cfg := transits.DefaultConfig()
	cfg.CoarseStep = opts.coarseStep
	cfg.FineStep = opts.fineStep
	cfg.RefineWindow = opts.refineWindow
	cfg.MinAltitudeDeg = opts.altMin
	cfg.NearMarginDeg = opts.nearMargin / 60.0
	cfg.MaxDistanceKm = opts.maxDistance

	var mu sync.Mutex
	var events []transits.Event
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(sat knownSatellite, entry tle.Entry) {
			defer wg.Done()
			satCfg := cfg
			satCfg.SatelliteSizeM = sat.sizeM
			evs := transits.Predict(ctx, transits.Request{
				Line1:         entry.Line1,
				Line2:         entry.Line2,
				SatelliteName: sat.name,
				Latitude:      opts.lat,
				Longitude:     opts.lon,
				AltitudeM:     opts.elev,
				Start:         start,
				End:           end,
				Config:        satCfg,
			}, logger)
			mu.Lock()
			events = append(events, evs...)
			mu.Unlock()
		}(targets[i], entry)
	}
	wg.Wait()

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}
	printTable(events)
	return nil
}

func resolveTargets(opts options) ([]knownSatellite, error) {
	if opts.tleFile != "" {
		// A TLE file names its own satellite; catalog selection is moot.
		return []knownSatellite{{name: "", sizeM: 108}}, nil
	}
	var targets []knownSatellite
	for _, name := range strings.Split(opts.satellites, ",") {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		sat, ok := catalog[key]
		if !ok {
			return nil, fmt.Errorf("unknown satellite %q (known: ISS, TIANGONG, HUBBLE)", name)
		}
		targets = append(targets, sat)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no satellites selected")
	}
	return targets, nil
}

// loadElements returns one parsed entry per target, in target order. A file
// source bypasses fetching; otherwise fresh cache entries are used and
// misses go to Celestrak concurrently.
func loadElements(ctx context.Context, opts options, targets []knownSatellite, logger *slog.Logger) ([]tle.Entry, error) {
	if opts.tleFile != "" {
		data, err := os.ReadFile(opts.tleFile)
		if err != nil {
			return nil, fmt.Errorf("reading -tle-file: %w", err)
		}
		entry, err := tle.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", opts.tleFile, err)
		}
		if targets[0].name == "" {
			targets[0].name = entry.Name
		}
		return []tle.Entry{entry}, nil
	}

	cache := tle.NewCache(opts.cacheDir, 3)
	fetcher := tle.NewFetcher("")

	entries := make([]tle.Entry, len(targets))
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, sat := range targets {
		wg.Add(1)
		go func(i int, sat knownSatellite) {
			defer wg.Done()

			data, ts, err := cache.LoadFresh(sat.catalogNumber, cacheMaxAge)
			if err == nil {
				logger.Debug("using cached elements", "satellite", sat.name, "fetched_at", ts)
			} else {
				data, err = fetcher.Fetch(ctx, sat.catalogNumber)
				if err != nil {
					errs[i] = fmt.Errorf("fetching elements for %s: %w", sat.name, err)
					return
				}
				if werr := cache.Write(sat.catalogNumber, data, time.Now()); werr != nil {
					logger.Warn("caching elements failed", "satellite", sat.name, "error", werr)
				}
			}

			entry, err := tle.Parse(bytes.NewReader(data))
			if err != nil {
				errs[i] = fmt.Errorf("parsing elements for %s: %w", sat.name, err)
				return
			}
			entries[i] = entry
		}(i, sat)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func printTable(events []transits.Event) {
	if len(events) == 0 {
		fmt.Println("no events found")
		return
	}
	fmt.Printf("%-20s  %-22s  %-4s  %-9s  %8s  %8s  %7s  %7s  %8s\n",
		"TIME (UTC)", "SATELLITE", "BODY", "KIND", "SEP '", "RADIUS '", "ALT deg", "AZ deg", "DUR s")
	for _, ev := range events {
		fmt.Printf("%-20s  %-22s  %-4s  %-9s  %8.2f  %8.2f  %7.1f  %7.1f  %8.2f\n",
			ev.Time.UTC().Format("2006-01-02 15:04:05"),
			ev.Satellite,
			ev.Body,
			ev.Kind,
			ev.SeparationArcmin,
			ev.TargetRadiusArcmin,
			ev.SatAltDeg,
			ev.SatAzDeg,
			ev.DurationS,
		)
	}
}
