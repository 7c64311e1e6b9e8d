package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(RequestStatusPending, RequestStatusApproved, false))
	assert.NoError(t, CheckTransition(RequestStatusApproved, RequestStatusCancelled, false))
	assert.NoError(t, CheckTransition(RequestStatusFulfilled, RequestStatusFulfilled, false))

	err := CheckTransition(RequestStatusCancelled, RequestStatusFulfilled, false)
	assert.True(t, errors.Is(err, ErrInvalidOperation))

	assert.NoError(t, CheckTransition(RequestStatusCancelled, RequestStatusPending, true))
}

func TestParseRequestStatus(t *testing.T) {
	st, err := ParseRequestStatus(" fulfilled ")
	assert.NoError(t, err)
	assert.Equal(t, RequestStatusFulfilled, st)

	_, err = ParseRequestStatus("Done")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(1))
	assert.NoError(t, ValidateQuantity(10))
	assert.Error(t, ValidateQuantity(0))
	assert.Error(t, ValidateQuantity(11))
}

func TestErrorMatching(t *testing.T) {
	err := NotFound("blood request %d not found", 4)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "blood request 4 not found", err.Error())
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := errors.Join(errors.New("ctx"), InvalidOperation("recipient profile not found"))
	assert.True(t, errors.Is(wrapped, InvalidOperation("recipient profile not found")))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
}

func TestParseBloodGroup(t *testing.T) {
	g, err := ParseBloodGroup("ab-")
	assert.NoError(t, err)
	assert.Equal(t, BloodGroupABNeg, g)

	_, err = ParseBloodGroup("Z+")
	assert.True(t, errors.Is(err, ErrValidation))
}
