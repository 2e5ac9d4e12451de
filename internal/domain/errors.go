package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks failures caused by inconsistent configuration, such
// as an embedding dimensionality that does not match the configured vector
// size. These fail fast and abort the operation that triggered them.
var ErrConfiguration = errors.New("configuration error")

// ErrContentTooLarge marks an embedding request rejected because the payload
// exceeds the provider's size limit. The indexer treats this as expected and
// skips the document.
var ErrContentTooLarge = errors.New("content exceeds provider size limit")

// ErrNoEmbedding marks a provider response that lacks an embedding field.
var ErrNoEmbedding = errors.New("no embedding in provider response")

// MalformedResponseError reports classification output that could not be
// parsed as JSON, either raw or from a fenced code block. The router recovers
// from it locally; it never reaches callers of the pipeline.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed classification response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
