// Package errs collects the sentinel errors returned across mapcore.
//
// Callers should compare against these with errors.Is; call sites wrap them
// with additional context using fmt.Errorf("...: %w", errs.ErrXxx).
package errs

import "errors"

var (
	// ErrShapeViolation is returned by a value codec when the caller passed
	// a matrix/tensor of the wrong rank or extent. Encode-side contract
	// violations are fatal by design; callers that can't guarantee shape
	// should check before calling.
	ErrShapeViolation = errors.New("mapcore: value shape violation")

	// ErrFieldCountMismatch is returned when decoding a value codec record
	// whose required fields are missing or malformed.
	ErrFieldCountMismatch = errors.New("mapcore: decoded field count mismatch")

	// ErrFraming is returned by the length-delimited stream reader when a
	// varint fails to parse or a sub-message claims more bytes than remain.
	ErrFraming = errors.New("mapcore: framing error in delimited stream")

	// ErrMissingRequiredField is returned when a record is missing a field
	// the wire schema marks required (id, pose, timestamp, position, ...).
	ErrMissingRequiredField = errors.New("mapcore: missing required field")

	// ErrHeaderParse is returned when the textual header document fails to
	// parse or is missing a required key.
	ErrHeaderParse = errors.New("mapcore: header parse failure")

	// ErrChecksumMismatch is returned when the optional header checksum
	// disagrees with the decoded artifact sizes.
	ErrChecksumMismatch = errors.New("mapcore: header checksum mismatch")

	// ErrKeyframeNotFound is returned by Map lookups when a named keyframe
	// id was not loaded. A FeatureBlock naming an unknown owning keyframe
	// does not produce it: the rebuilder logs a warning and skips the block.
	ErrKeyframeNotFound = errors.New("mapcore: keyframe not found")

	// ErrLandmarkNotFound is returned by Map lookups when a named landmark
	// id was not loaded.
	ErrLandmarkNotFound = errors.New("mapcore: landmark not found")

	// ErrIO wraps a propagated I/O failure from the artifact writer/reader.
	ErrIO = errors.New("mapcore: artifact i/o failure")

	// ErrAlreadyPublished is returned by Map.Publish when the Map already
	// received an earlier load's vectors and has not been Cleared since.
	ErrAlreadyPublished = errors.New("mapcore: map already published")
)
