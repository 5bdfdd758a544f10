package heron

import (
	"fmt"
	"io"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// WriteTrajectoryCSV streams a propagated trajectory as CSV rows, one per
// integration step: UTC timestamp, Julian date, inertial position (m) and
// velocity (m/s). The epoch anchors the propagation's zero second; ts and y
// must be the matching slices a Propagator returned.
func WriteTrajectoryCSV(w io.Writer, epoch time.Time, ts []float64, y [][]float64) error {
	if len(ts) != len(y) {
		return fmt.Errorf("export: %d timestamps for %d states", len(ts), len(y))
	}
	if _, err := fmt.Fprintf(w, "# Trajectory start (UTC): %s\n", epoch.UTC().Format("2006-01-02 15:04:05")); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := fmt.Fprintln(w, "time,jd,x,y,z,vx,vy,vz"); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for k, s := range y {
		dt := epoch.Add(time.Duration(int64(ts[k]*1e6)) * time.Microsecond).UTC()
		row := fmt.Sprintf("%s,%.8f,%.3f,%.3f,%.3f,%.6f,%.6f,%.6f",
			dt.Format("2006-01-02 15:04:05"), julian.TimeToJD(dt), s[0], s[1], s[2], s[3], s[4], s[5])
		if _, err := fmt.Fprintln(w, row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}
