package weather

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToErrorBody(t *testing.T) {
	unavailable := Unavailable("National Weather Service", "upstream returned status 503", nil).withLocation("Seattle, WA")

	tests := []struct {
		name string
		err  error
		want ErrorBody
	}{
		{
			name: "provider unavailable",
			err:  unavailable,
			want: ErrorBody{
				Error:    CodeProviderUnavailable,
				Message:  `weather provider National Weather Service unavailable for "Seattle, WA": upstream returned status 503`,
				Location: "Seattle, WA",
			},
		},
		{
			name: "wrapped provider unavailable",
			err:  fmt.Errorf("forecast: %w", unavailable),
			want: ErrorBody{
				Error:    CodeProviderUnavailable,
				Message:  unavailable.Error(),
				Location: "Seattle, WA",
			},
		},
		{
			name: "invalid parameter",
			err:  &InvalidParameterError{Parameter: "days", Value: 9, Reason: "days must be at most 5"},
			want: ErrorBody{
				Error:     CodeInvalidParameter,
				Message:   "invalid parameter days: days must be at most 5",
				Parameter: "days",
			},
		},
		{
			name: "no periods",
			err:  fmt.Errorf("current weather for %q: %w", "Denver, CO", ErrNoPeriods),
			want: ErrorBody{
				Error:   CodeNoData,
				Message: `current weather for "Denver, CO": no forecast periods available`,
			},
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: ErrorBody{Error: CodeInternal, Message: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToErrorBody(tt.err))
		})
	}
}

func TestProviderUnavailableUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable("nws", "request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "weather provider nws unavailable: request failed", err.Error())

	located := err.withLocation("Boston, MA")
	assert.Empty(t, err.Location)
	assert.Equal(t, "Boston, MA", located.Location)
}
