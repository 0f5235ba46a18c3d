package faq

import "errors"

var (
	// ErrInvalidConfig marks invalid chunking or retrieval parameters.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIndexUnavailable is returned when the vector collection is
	// empty or absent. Retrieval is a hard precondition, nothing
	// downstream can run without it.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrRetrieval marks a failed embedding or nearest-neighbor call.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneratorUnavailable marks missing credentials or a provider
	// failure. The pipeline never returns a partial answer instead.
	ErrGeneratorUnavailable = errors.New("answer generator unavailable")
)
