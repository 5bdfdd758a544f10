package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"

	heron "github.com/utat-ss/HERON-ops-orbit-analysis"
)

// coprop reads an element set (from a file, from space-track, or derived from
// a raw inertial state), propagates it by a number of days, and prints the
// initial and final two-line element sets.

var (
	tlePath   string
	catalogNo int
	stateStr  string
	epochYear int
	epochDay  float64
	days      float64
	step      time.Duration
	verify    bool
	csvPath   string
)

func init() {
	flag.StringVar(&tlePath, "tle", "", "path to a file holding a two- or three-line element set")
	flag.IntVar(&catalogNo, "norad", 0, "catalog number to fetch from space-track (needs credentials in the configuration)")
	flag.StringVar(&stateStr, "state", "", "initial inertial state as x,y,z,vx,vy,vz in metres and metres per second")
	flag.IntVar(&epochYear, "epoch-year", 0, "epoch year for -state (four digits)")
	flag.Float64Var(&epochDay, "epoch-day", 0, "epoch day of year with fraction for -state")
	flag.Float64Var(&days, "days", 1, "days to propagate")
	flag.DurationVar(&step, "step", 0, "integration step (defaults to the configured value)")
	flag.BoolVar(&verify, "verify", false, "verify line checksums before parsing")
	flag.StringVar(&csvPath, "csv", "", "also write the propagated trajectory to this CSV file")
}

func main() {
	flag.Parse()
	logger := kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)), "cmd", "coprop")

	cfg, err := heron.LoadConfig()
	if err != nil {
		log.Fatalf("configuration: %s", err)
	}
	if step == 0 {
		step = time.Duration(cfg.Propagation.Step * float64(time.Second))
	}

	initial, err := initialTLE(cfg, logger)
	if err != nil {
		log.Fatalf("initial element set: %s", err)
	}

	prop := heron.NewRK4Propagator(heron.Earth, step, logger)
	final, ts, y, err := heron.PropagateTLETrajectory(initial, days, prop)
	if err != nil {
		log.Fatalf("propagation: %s", err)
	}
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			log.Fatalf("trajectory export: %s", err)
		}
		if err = heron.WriteTrajectoryCSV(f, initial.Epoch(), ts, y); err != nil {
			log.Fatalf("trajectory export: %s", err)
		}
		if err = f.Close(); err != nil {
			log.Fatalf("trajectory export: %s", err)
		}
	}

	l1, l2 := initial.Lines()
	fmt.Printf("initial epoch %s\n%s\n%s\n", initial.Epoch().Format(time.RFC3339), l1, l2)
	l1, l2 = final.Lines()
	fmt.Printf("final epoch %s\n%s\n%s\n", final.Epoch().Format(time.RFC3339), l1, l2)
}

// initialTLE builds the starting record from whichever input was provided.
func initialTLE(cfg heron.Config, logger kitlog.Logger) (heron.TLE, error) {
	switch {
	case tlePath != "":
		return readTLEFile(tlePath)
	case catalogNo > 0:
		client, err := heron.NewSpaceTrackClient(cfg, logger)
		if err != nil {
			return heron.TLE{}, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return client.LatestTLE(ctx, catalogNo)
	case stateStr != "":
		if epochYear == 0 {
			return heron.TLE{}, fmt.Errorf("-state needs -epoch-year and -epoch-day")
		}
		y0, err := parseState(stateStr)
		if err != nil {
			return heron.TLE{}, err
		}
		return heron.TLEFromCartesianState(y0[:3], y0[3:], heron.NullTLE(), epochYear, epochDay)
	default:
		return heron.TLE{}, fmt.Errorf("one of -tle, -norad or -state is required")
	}
}

func readTLEFile(path string) (heron.TLE, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return heron.TLE{}, err
	}
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) >= 3 && !strings.HasPrefix(lines[0], "1 ") {
		lines = lines[1:] // drop the name line
	}
	if len(lines) < 2 {
		return heron.TLE{}, fmt.Errorf("%s: expected two element lines, got %d", path, len(lines))
	}
	if verify {
		if err := heron.VerifyLines(lines[0], lines[1]); err != nil {
			return heron.TLE{}, err
		}
	}
	return heron.ParseTLE(lines[0], lines[1])
}

func parseState(s string) ([]float64, error) {
	components := strings.Split(s, ",")
	if len(components) != 6 {
		return nil, fmt.Errorf("state must have six components, got %d", len(components))
	}
	y0 := make([]float64, 6)
	for i, comp := range components {
		fl, err := strconv.ParseFloat(strings.TrimSpace(comp), 64)
		if err != nil {
			return nil, fmt.Errorf("state component %d: %w", i, err)
		}
		y0[i] = fl
	}
	return y0, nil
}
