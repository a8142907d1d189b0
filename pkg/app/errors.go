package app

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

var (
	// ErrNoPersistence is returned when the service has no store.
	ErrNoPersistence = errors.New("app: no persistence configured")
	// ErrExists matches every ExistsError.
	ErrExists = errors.New("app: already exists")
	// ErrReferenced matches every ReferencedError.
	ErrReferenced = errors.New("app: clause is referenced")
	// ErrUnknownPreset is returned when a preset name or id does not resolve.
	ErrUnknownPreset = errors.New("app: unknown preset")
	// ErrInvalidSelection is returned for selection requests naming unknown
	// clauses or questions.
	ErrInvalidSelection = errors.New("app: invalid selection")
)

// ExistsError reports a create or update that collides with a stored item.
// ID is the existing item, so callers can redirect to it.
type ExistsError struct {
	Kind store.Kind
	Key  string
	ID   string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("app: %s %q already exists (%s)", e.Kind, e.Key, e.ID)
}

// Is matches ErrExists.
func (e *ExistsError) Is(target error) bool { return target == ErrExists }

// ReferencedError blocks a clause delete while presets still include it.
type ReferencedError struct {
	ClauseID string
	Presets  []clause.Preset
}

func (e *ReferencedError) Error() string {
	names := make([]string, len(e.Presets))
	for i, p := range e.Presets {
		names[i] = p.Name
	}
	return fmt.Sprintf("app: clause %s is used by presets: %s", e.ClauseID, strings.Join(names, ", "))
}

// Is matches ErrReferenced.
func (e *ReferencedError) Is(target error) bool { return target == ErrReferenced }
