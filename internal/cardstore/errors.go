package cardstore

import "fmt"

// ReadError is returned by Load when the cards file exists but cannot be read or parsed.
// Load still returns an empty, usable card list alongside it.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read cards from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is returned when a snapshot could not be persisted.
// The previous file on disk is left as it was.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write cards to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IndexError is returned by ReplaceAt and DeleteAt for a position outside the stored list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("card index %d out of range [0, %d)", e.Index, e.Len)
}
