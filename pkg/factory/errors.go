package factory

import "errors"

// Errors returned by the engine. Every failure is raised synchronously at the
// offending call and is meant to fail the calling test; check with errors.Is.

// ===== Argument Errors =====
var (
	ErrMissingName      = errors.New("factory name is required")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// ===== Lookup Errors =====
var (
	ErrUnknownFixture  = errors.New("unknown fixture")
	ErrUnknownTrait    = errors.New("unknown trait")
	ErrUnknownSequence = errors.New("unknown sequence")
)

// ===== Registration Errors =====
var (
	ErrDuplicateDefinition = errors.New("definition already registered")
	ErrDuplicateAlias      = errors.New("alias already registered")
)

// ===== Build Errors =====
var (
	ErrAssociationDepth = errors.New("association nesting too deep")
	ErrNoStore          = errors.New("no store configured")
	ErrAfterMake        = errors.New("after make hook failed")
)
