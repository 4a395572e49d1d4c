package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bellapacxx/tombola-backend/game"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{ErrNotAuthorized, KindAuthorization},
		{ErrSessionNotFound, KindNotFound},
		{ErrPlayerNotFound, KindNotFound},
		{ErrCardNotFound, KindNotFound},
		{game.ErrSessionEnded, KindStateConflict},
		{game.ErrAlreadyDrawn, KindStateConflict},
		{ErrCardsClosed, KindStateConflict},
		{game.ErrCardRows, KindValidation},
		{game.ErrNumberRange, KindValidation},
		{game.ErrDuplicateDrawn, KindValidation},
		{errors.New("boom"), KindUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.kind, Classify(tc.err), "error %v", tc.err)
	}

	// Wrapped errors classify the same.
	wrapped := fmt.Errorf("draw failed: %w", game.ErrAlreadyDrawn)
	assert.Equal(t, KindStateConflict, Classify(wrapped))
}

func TestErrorKindLabel(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.Label())
	assert.Equal(t, "authorization", KindAuthorization.Label())
	assert.Equal(t, "conflict", KindStateConflict.Label())
	assert.Equal(t, "not_found", KindNotFound.Label())
	assert.Equal(t, "error", KindUnknown.Label())
}
