package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrRootUnreadable matches any *RootUnreadableError via errors.Is.
	ErrRootUnreadable = errors.New("catalog root unreadable")

	// ErrMissingInfo is returned by LoadInfo when an entry directory has no
	// readable info file.
	ErrMissingInfo = errors.New("entry info missing")

	// ErrAssetNotFound is returned by Entry.Asset for unknown names.
	ErrAssetNotFound = errors.New("asset not found")
)

// MissingPropertyError reports a required metadata property that is absent.
type MissingPropertyError struct {
	Name string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing required property %q", e.Name)
}

// RootUnreadableError reports that the content root, or a category directory
// in the categorized layout, could not be listed.
type RootUnreadableError struct {
	Path string
	Err  error
}

func (e *RootUnreadableError) Error() string {
	return fmt.Sprintf("cannot list catalog root %s: %v", e.Path, e.Err)
}

func (e *RootUnreadableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRootUnreadable) true.
func (e *RootUnreadableError) Is(target error) bool {
	return target == ErrRootUnreadable
}
