// Package report writes the dense per-frame statistics table for overlay
// and export consumers.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/rallystats/internal/domain/model"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Header returns the CSV column names in output order.
func Header() []string {
	header := []string{"frame_num"}
	for _, id := range model.Actors {
		p := playerPrefix(id)
		header = append(header,
			p+"number_of_shots",
			p+"total_shot_speed",
			p+"last_shot_speed",
			p+"total_player_speed",
			p+"last_player_speed",
		)
	}
	for _, id := range model.Actors {
		header = append(header, playerPrefix(id)+"average_shot_speed")
	}
	for _, id := range model.Actors {
		header = append(header, playerPrefix(id)+"average_player_speed")
	}
	return header
}

// Record formats one row in Header order. Undefined averages are empty.
func Record(r model.Row) []string {
	rec := make([]string, 0, len(Header()))
	rec = append(rec, strconv.Itoa(r.Frame))
	for _, id := range model.Actors {
		s := r.Of(id)
		rec = append(rec,
			strconv.Itoa(s.ShotCount),
			formatFloat(s.TotalShotSpeed),
			formatFloat(s.LastShotSpeed),
			formatFloat(s.TotalMovementSpeed),
			formatFloat(s.LastMovementSpeed),
		)
	}
	for _, id := range model.Actors {
		rec = append(rec, formatAverage(r.Of(id).AverageShotSpeed))
	}
	for _, id := range model.Actors {
		rec = append(rec, formatAverage(r.Of(id).AverageMovementSpeed))
	}
	return rec
}

// WriteCSV writes a header line followed by one record per row.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrWrite, r.Frame, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteJSON writes rows as a JSON array. Undefined averages are null.
func WriteJSON(w io.Writer, rows []model.Row) error {
	if rows == nil {
		rows = []model.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format string, rows []model.Row) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "":
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func playerPrefix(id model.ActorID) string {
	return "player_" + strconv.Itoa(int(id)) + "_"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAverage(a model.Average) string {
	if !a.Defined {
		return ""
	}
	return formatFloat(a.Value)
}
