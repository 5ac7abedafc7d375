package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExceptionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ExceptionRequest
		wantErr error
	}{
		{"all", ExceptionRequest{Reason: "need docs", DurationMinutes: 10, All: true}, nil},
		{"specific", ExceptionRequest{Reason: "need docs", DurationMinutes: 480, Domains: []string{"reddit"}}, nil},
		{"short reason", ExceptionRequest{Reason: "  abc  ", DurationMinutes: 10, All: true}, ErrInvalidReason},
		{"zero minutes", ExceptionRequest{Reason: "need docs", DurationMinutes: 0, All: true}, ErrInvalidDuration},
		{"too long", ExceptionRequest{Reason: "need docs", DurationMinutes: 481, All: true}, ErrInvalidDuration},
		{"no domains", ExceptionRequest{Reason: "need docs", DurationMinutes: 10}, ErrInvalidPattern},
		{"short pattern", ExceptionRequest{Reason: "need docs", DurationMinutes: 10, Domains: []string{"reddit", "x.c"}}, ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
