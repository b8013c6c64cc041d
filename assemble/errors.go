package assemble

import "errors"

// ErrNoPages is returned when an assembly operation resolves to zero pages:
// every requested position was invalid, stale, or failed to render. It is a
// whole-operation condition, distinct from a per-page skip.
var ErrNoPages = errors.New("assemble: no pages matched the request")

// ErrPageOutOfRange is returned when a page index is not within the source
// document's page count.
var ErrPageOutOfRange = errors.New("assemble: page index out of range")

// ErrMalformedSource is returned when document bytes cannot be opened as a
// valid PDF.
var ErrMalformedSource = errors.New("assemble: source is not a valid PDF")

// ErrBadPayload is returned when an annotation payload cannot be decoded
// (unknown element type, bad colour string, bad image data URL).
var ErrBadPayload = errors.New("assemble: annotation payload could not be decoded")
