package attribution

import (
	"errors"
	"fmt"

	"github.com/okian/rallystats/internal/domain/model"
)

// ErrMissingActor is the kind of every MissingActorError.
var ErrMissingActor = errors.New("actor position missing")

// MissingActorError reports that an actor had no position at a frame where
// one is required.
type MissingActorError struct {
	Frame int
	Actor model.ActorID
}

func (e *MissingActorError) Error() string {
	return fmt.Sprintf("%v: %s at frame %d", ErrMissingActor, e.Actor, e.Frame)
}

func (e *MissingActorError) Unwrap() error { return ErrMissingActor }
