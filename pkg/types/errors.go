package types

import (
	"errors"
	"fmt"
)

// ErrFetchTimeout is returned when a remote source does not respond within
// the fetch deadline. The in-flight request is aborted.
var ErrFetchTimeout = errors.New("fetch timed out")

// ErrDescriberDisabled is returned by Describe when no vision backend is configured
var ErrDescriberDisabled = errors.New("describer is not configured")

// FetchFailedError reports a non-success HTTP status from a remote source
type FetchFailedError struct {
	StatusCode int
	Status     string
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch failed: %s", e.Status)
}

// FilesystemError reports a failed filesystem operation
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("filesystem %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("filesystem %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// BackgroundRemovalError wraps a failure of the segmentation backend unchanged
type BackgroundRemovalError struct {
	Err error
}

func (e *BackgroundRemovalError) Error() string {
	return fmt.Sprintf("background removal failed: %v", e.Err)
}

func (e *BackgroundRemovalError) Unwrap() error { return e.Err }

// UnknownPresetError is returned for a preset name outside the registry
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset: %q", e.Name)
}

// EncodingError reports an image that could not be decoded or encoded
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
