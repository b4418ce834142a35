package model

import (
	"encoding/json"
	"strconv"
)

// ActorStats holds the running statistics of one actor.
type ActorStats struct {
	ShotCount          int     `json:"shot_count"`
	TotalShotSpeed     float64 `json:"total_shot_speed"`
	LastShotSpeed      float64 `json:"last_shot_speed"`
	TotalMovementSpeed float64 `json:"total_movement_speed"`
	LastMovementSpeed  float64 `json:"last_movement_speed"`
}

// Snapshot is the state of both actors' statistics as of FrameNum.
// It is a plain value: assigning it copies every field, so a derived
// snapshot never aliases its predecessor.
type Snapshot struct {
	FrameNum int           `json:"frame_num"`
	Stats    [2]ActorStats `json:"actors"`
}

// Of returns the statistics of actor id.
func (s Snapshot) Of(id ActorID) ActorStats { return s.Stats[id.index()] }

// With returns a copy of s with actor id's statistics replaced.
func (s Snapshot) With(id ActorID, st ActorStats) Snapshot {
	s.Stats[id.index()] = st
	return s
}

// Average is a derived mean that may be undefined when its denominator is
// zero. The zero value is undefined.
type Average struct {
	Value   float64
	Defined bool
}

// Undefined is the sentinel for a mean over zero samples.
var Undefined = Average{}

// Mean divides total by count, or returns Undefined when count is zero.
func Mean(total float64, count int) Average {
	if count == 0 {
		return Undefined
	}
	return Average{Value: total / float64(count), Defined: true}
}

func (a Average) String() string {
	if !a.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// MarshalJSON encodes an undefined average as null.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts a number or null.
func (a *Average) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Average{Value: v, Defined: true}
	return nil
}

// RowStats is one actor's columns in a dense table row.
type RowStats struct {
	ActorStats
	AverageShotSpeed     Average `json:"average_shot_speed"`
	AverageMovementSpeed Average `json:"average_movement_speed"`
}

// Row is one frame of the dense result table. SnapshotFrame is the
// frame_num of the snapshot the row was filled from.
type Row struct {
	Frame         int         `json:"frame_num"`
	SnapshotFrame int         `json:"snapshot_frame"`
	Stats         [2]RowStats `json:"actors"`
}

// Of returns the columns of actor id.
func (r Row) Of(id ActorID) RowStats { return r.Stats[id.index()] }
