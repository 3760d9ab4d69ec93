package playlist

import (
	"errors"
	"fmt"
)

// ErrNoPlayableSource is matched by every ParseError.
var ErrNoPlayableSource = errors.New("no playable source")

// ParseError is returned when a manifest yields no playable entries.
type ParseError struct {
	URL    string
	Format string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s manifest %s: %v", e.Format, e.URL, ErrNoPlayableSource)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrNoPlayableSource
}
