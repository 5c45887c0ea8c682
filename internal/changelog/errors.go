package changelog

import "errors"

// Sentinel errors for the generation pipeline. Callers classify failures
// with errors.Is; wrapping preserves the underlying cause.
var (
	// ErrSourceUnavailable indicates the remote history provider could not
	// be reached, denied access, or does not know the repository. Fatal for
	// the whole run.
	ErrSourceUnavailable = errors.New("commit source unavailable")

	// ErrEmptyHistory indicates the repository has zero commits. Fatal but
	// distinct from an error condition: it is an expected input state.
	ErrEmptyHistory = errors.New("no commits found")

	// ErrGenerationFailed covers both transport failures from the
	// generation service and responses that violate the output contract.
	ErrGenerationFailed = errors.New("changelog generation failed")

	// ErrInvalidDraft indicates a draft with a missing or empty required
	// field reached the store.
	ErrInvalidDraft = errors.New("invalid changelog draft")

	// ErrPersistenceFailed indicates the underlying store rejected the
	// write.
	ErrPersistenceFailed = errors.New("entry persistence failed")

	// ErrEmptyInput indicates a batch with zero commits was handed to the
	// synthesizer. The partitioner never constructs such a batch, so this
	// is a defensive fault if seen.
	ErrEmptyInput = errors.New("batch contains no commits")
)
