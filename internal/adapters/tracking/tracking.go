// Package tracking reads and writes the JSON tracking document that carries
// a match's projected positions and contact frames.
package tracking

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/okian/rallystats/internal/domain/model"
)

// Document is the on-disk shape of a match.
type Document struct {
	MatchID              string     `json:"match_id"`
	ProjectionPixelWidth float64    `json:"projection_pixel_width"`
	ReferenceWidthMeters float64    `json:"reference_width_meters,omitempty"`
	ContactFrames        []int      `json:"contact_frames"`
	Frames               []FrameDoc `json:"frames"`
}

// FrameDoc is one frame. Actor positions are keyed by the decimal actor id.
type FrameDoc struct {
	Actors map[string]model.Position `json:"actors"`
	Object *model.Position           `json:"object"`
}

// Decode parses a tracking document into a Match. Actor keys that are not
// positive integers are rejected; unknown but well-formed ids are kept.
func Decode(r io.Reader) (model.Match, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return model.Match{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc.Match()
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (model.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Match{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()
	return Decode(f)
}

// Match converts the document into the domain type.
func (d *Document) Match() (model.Match, error) {
	m := model.Match{
		ID:                   d.MatchID,
		ContactFrames:        append([]int(nil), d.ContactFrames...),
		ProjectionPixelWidth: d.ProjectionPixelWidth,
		ReferenceWidthMeters: d.ReferenceWidthMeters,
		Frames:               make([]model.Observation, len(d.Frames)),
	}
	for i, f := range d.Frames {
		obs := model.Observation{Actors: make(map[model.ActorID]model.Position, len(f.Actors))}
		for key, pos := range f.Actors {
			id, err := strconv.Atoi(key)
			if err != nil || id < 1 {
				return model.Match{}, fmt.Errorf("%w: %q at frame %d", ErrActorKey, key, i)
			}
			obs.Actors[model.ActorID(id)] = pos
		}
		if f.Object != nil {
			p := *f.Object
			obs.Object = &p
		}
		m.Frames[i] = obs
	}
	return m, nil
}

// FromMatch builds the document form of m.
func FromMatch(m model.Match) Document {
	doc := Document{
		MatchID:              m.ID,
		ProjectionPixelWidth: m.ProjectionPixelWidth,
		ReferenceWidthMeters: m.ReferenceWidthMeters,
		ContactFrames:        append([]int{}, m.ContactFrames...),
		Frames:               make([]FrameDoc, len(m.Frames)),
	}
	for i, obs := range m.Frames {
		ids := make([]int, 0, len(obs.Actors))
		for id := range obs.Actors {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)

		fd := FrameDoc{Actors: make(map[string]model.Position, len(ids))}
		for _, id := range ids {
			fd.Actors[strconv.Itoa(id)] = obs.Actors[model.ActorID(id)]
		}
		if obs.Object != nil {
			p := *obs.Object
			fd.Object = &p
		}
		doc.Frames[i] = fd
	}
	return doc
}

// Encode writes m as an indented tracking document.
func Encode(w io.Writer, m model.Match) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromMatch(m)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
