package extraction

import "errors"

var (
	// ErrProvider wraps failures of the LLM call itself.
	ErrProvider = errors.New("llm provider call failed")

	// ErrParse indicates the model response held no recoverable JSON object.
	ErrParse = errors.New("extraction response is not parseable")

	// ErrInvalidRequest rejects requests that cannot be extracted.
	ErrInvalidRequest = errors.New("invalid extraction request")
)
