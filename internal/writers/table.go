// internal/writers/table.go
package writers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fvsim/pkg/api"
)

func init() {
	RegisterSnapshot("table", writeSnapshotTable)
	RegisterResult("table", writeResultTable)
}

func writeSnapshotTable(w io.Writer, snaps []api.SnapshotV1) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range snaps {
		if _, err := fmt.Fprintf(w, "# field=%s step=%d time=%g residual=%g\n",
			s.Field, s.Step, s.Time, s.Residual); err != nil {
			return err
		}
		if len(s.Y) > 0 {
			fmt.Fprintln(tw, "x\ty\tvalue")
			for i := range s.Values {
				fmt.Fprintf(tw, "%g\t%g\t%.6g\n", s.X[i], s.Y[i], s.Values[i])
			}
		} else {
			fmt.Fprintln(tw, "x\tvalue")
			for i := range s.Values {
				fmt.Fprintf(tw, "%g\t%.6g\n", s.X[i], s.Values[i])
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeResultTable(w io.Writer, results []api.RunResultV1) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "run\tsteps\tresidual\tdt\twall_ms\tstatus")
	for _, r := range results {
		status := "ok"
		if r.Error != "" {
			status = r.Error
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3g\t%.3g\t%d\t%s\n",
			r.ID, r.Steps, r.FinalResidual, r.FinalDt, r.WallMS, status)
	}
	return tw.Flush()
}
