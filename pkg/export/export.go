// Package export renders committed allocations to machine-readable
// formats for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/timegrid/core/planner"
)

// WriteJSON writes the allocations to w as a JSON array.
func WriteJSON(w io.Writer, allocs []planner.Allocation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(allocs)
}

// WriteCSV writes the allocations to w in CSV format, one row per
// reserved span.
func WriteCSV(w io.Writer, allocs []planner.Allocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"request_id", "resource", "lower", "upper"}); err != nil {
		return err
	}
	for _, a := range allocs {
		for _, s := range a.Spans {
			rec := []string{
				a.RequestID,
				a.Resource,
				strconv.FormatFloat(s.Lower, 'f', -1, 64),
				strconv.FormatFloat(s.Upper, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format, which must be "json" or "csv".
func Write(w io.Writer, format string, allocs []planner.Allocation) error {
	switch format {
	case "json":
		return WriteJSON(w, allocs)
	case "csv":
		return WriteCSV(w, allocs)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}
