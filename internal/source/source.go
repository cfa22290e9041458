package source

import (
	"context"
	"errors"

	"leadgen-engine/internal/domain"
)

// Source turns a (niche, city) pair into normalized places. Implementations
// own their provider credentials, pagination and politeness pacing; a Fetch
// error aborts only that pair, never the whole run.
type Source interface {
	Name() string
	Fetch(ctx context.Context, niche, city string) ([]domain.Place, error)
}

// ErrRateLimited marks provider responses that should be retried with backoff
// rather than skipped.
var ErrRateLimited = errors.New("provider rate limited")

// SkipReason explains why a raw provider record did not become a Place.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipNoID      SkipReason = "no_identity"
	SkipNoName    SkipReason = "no_name"
	SkipNoCoords  SkipReason = "no_coordinates"
	SkipNoAddress SkipReason = "no_address"
	SkipNoWebsite SkipReason = "no_website"
)

// Outcome is the normalization result for a single raw record: either a
// usable Place or an explicit skip reason. Keeps skip-vs-keep a visible
// decision at each call site instead of a silently dropped nil.
type Outcome struct {
	Place   domain.Place
	Skipped SkipReason
}

func (o Outcome) OK() bool { return o.Skipped == SkipNone }

func Keep(p domain.Place) Outcome { return Outcome{Place: p} }
func Skip(why SkipReason) Outcome { return Outcome{Skipped: why} }
