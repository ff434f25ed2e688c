package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/petalmart/storefront/internal/errors"
)

func TestStatusNext(t *testing.T) {
	tests := []struct {
		status Status
		next   Status
		ok     bool
	}{
		{StatusCreated, StatusPaid, true},
		{StatusPaid, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, StatusDelivered, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusFailed, StatusFailed, false},
		{Status("BOGUS"), Status("BOGUS"), false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			next, ok := tt.status.Next()
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusCreated.IsTerminal())
	assert.False(t, StatusPaid.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, status)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, inErrors.ErrUnknownStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, inErrors.ErrUnknownStatus)
}
