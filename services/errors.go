package services

import (
	"errors"

	"github.com/bellapacxx/tombola-backend/game"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrCardsClosed     = errors.New("the host has disabled adding new cards")
	ErrNotAuthorized   = errors.New("not authorized")
)

// ErrorKind groups operation failures for the transport layer. Every
// failure is recoverable: the operation is rejected and nothing was
// mutated.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindStateConflict
	KindNotFound
)

// Label returns the wire name of the kind.
func (k ErrorKind) Label() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindStateConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Classify maps an operation error onto its kind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return KindAuthorization
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrCardNotFound):
		return KindNotFound
	case errors.Is(err, game.ErrSessionEnded),
		errors.Is(err, game.ErrAlreadyDrawn),
		errors.Is(err, ErrCardsClosed):
		return KindStateConflict
	case errors.Is(err, game.ErrCardRows),
		errors.Is(err, game.ErrCardRowLength),
		errors.Is(err, game.ErrCardRange),
		errors.Is(err, game.ErrCardDuplicates),
		errors.Is(err, game.ErrNumberRange),
		errors.Is(err, game.ErrDuplicateDrawn):
		return KindValidation
	default:
		return KindUnknown
	}
}
