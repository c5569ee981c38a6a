package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/heart-area-tools/internal/area"
)

// CSV header rows.
var (
	AreasHeader       = []string{"Label Name", "Area"}
	PercentagesHeader = []string{"Label Name", "Percentage"}
)

// WriteAreasCSV writes one "label,area" row per label after the header.
func WriteAreasCSV(w io.Writer, areas area.Areas) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AreasHeader); err != nil {
		return err
	}
	for _, la := range areas {
		if err := cw.Write([]string{la.Label, strconv.Itoa(la.Pixels)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePercentagesCSV writes one "label,percentage" row per label after the
// header. Percentages use the shortest representation that round-trips.
func WritePercentagesCSV(w io.Writer, pct area.Percentages) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PercentagesHeader); err != nil {
		return err
	}
	for _, lp := range pct {
		if err := cw.Write([]string{lp.Label, strconv.FormatFloat(lp.Percent, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAreasCSV parses a file written by WriteAreasCSV. Row order is kept.
func ReadAreasCSV(r io.Reader) (area.Areas, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("areas CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read areas CSV header: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), AreasHeader[0]) {
		return nil, fmt.Errorf("unexpected areas CSV header %q", strings.Join(header, ","))
	}

	var areas area.Areas
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read areas CSV: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid area %q: %w", line, rec[1], err)
		}
		if n < 0 {
			return nil, fmt.Errorf("line %d: negative area %d", line, n)
		}
		areas = append(areas, area.LabelArea{Label: rec[0], Pixels: n})
	}
	return areas, nil
}
