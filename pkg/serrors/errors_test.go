package serrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	sentinel := NewError("CONFLICT", "already linked", "Errors.Conflict")
	other := NewError("CONFLICT", "different message", "Errors.Other")

	assert.ErrorIs(t, other, sentinel)
	assert.NotErrorIs(t, NewError("FORBIDDEN", "nope", "Errors.Forbidden"), sentinel)
}

func TestBaseError_IsSurvivesWrapping(t *testing.T) {
	sentinel := NewError("NOT_FOUND", "request not found", "Errors.NotFound")
	wrapped := errors.Wrap(sentinel, "loading request")

	assert.ErrorIs(t, wrapped, sentinel)
}

func TestBaseError_WithMessageKeepsCode(t *testing.T) {
	sentinel := NewError("CONFLICT", "already linked", "Errors.Conflict")
	detailed := sentinel.WithMessage("record abc is already part of a pending request")

	assert.ErrorIs(t, detailed, sentinel)
	assert.Equal(t, "CONFLICT: record abc is already part of a pending request", detailed.Error())
	assert.Equal(t, sentinel.LocaleKey, detailed.LocaleKey)
}
