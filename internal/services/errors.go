package services

import "errors"

var (
	// ErrUnknownInteractionType is returned by the orchestrator when an
	// interaction kind falls outside the closed enumeration.
	ErrUnknownInteractionType = errors.New("unknown interaction type")

	// ErrValidation wraps out-of-range input rejections. Inputs failing
	// validation never mutate state.
	ErrValidation = errors.New("validation error")
)
