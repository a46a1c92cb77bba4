package store

import (
	"github.com/nwestbury/lucky-draw-backend/internal/draw"
)

// Store holds the durable copy of the draw state. Save must replace the whole
// aggregate atomically: a Load racing with a Save sees either the old record
// or the new one, never a torn mixture.
type Store interface {
	Load() (draw.State, error)
	Save(draw.State) error
}
