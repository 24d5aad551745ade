package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("flag not found")

// Keys consulted by the dashboard service.
const (
	DuneEnabled     = "source.dune.enabled"
	FlipsideEnabled = "source.flipside.enabled"
	ForceFallback   = "dashboard.force_fallback"
)

// Known lists the recognised keys with their defaults.
var Known = map[string]bool{
	DuneEnabled:     true,
	FlipsideEnabled: true,
	ForceFallback:   false,
}

type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
