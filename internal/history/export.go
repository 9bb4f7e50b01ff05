package history

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader is the flattened interaction row: one line per complete group.
var csvHeader = []string{"session", "interaction", "timestamp", "question", "response"}

// Flat is one exported interaction row. Timestamp is the question's
// timestamp, the start of the exchange.
type Flat struct {
	SessionID     string
	InteractionID string
	Timestamp     string
	Question      string
	Response      string
}

// ExportCSV writes one row per group. Corrections are not exported; the
// flattening preserves the original exchange only.
func ExportCSV(w io.Writer, groups []Group) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, g := range groups {
		row := []string{
			g.SessionID,
			g.InteractionID,
			g.Question.Timestamp,
			g.Question.Content,
			g.Response.Content,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads rows produced by ExportCSV back into flat records.
func ImportCSV(r io.Reader) ([]Flat, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if len(records[0]) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected header: %v", records[0])
	}

	flats := make([]Flat, 0, len(records)-1)
	for _, rec := range records[1:] {
		flats = append(flats, Flat{
			SessionID:     rec[0],
			InteractionID: rec[1],
			Timestamp:     rec[2],
			Question:      rec[3],
			Response:      rec[4],
		})
	}
	return flats, nil
}
