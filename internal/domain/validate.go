package domain

import (
	"fmt"
	"strings"
)

// ValidatePattern checks a grep-style domain pattern.
func ValidatePattern(pattern string) error {
	if len(pattern) < MinPatternLength {
		return fmt.Errorf("%w: pattern must be at least %d chars: %s", ErrInvalidPattern, MinPatternLength, pattern)
	}
	return nil
}

// ValidateDuration checks exception minutes against [MinDuration, MaxDuration].
func ValidateDuration(minutes int) error {
	if minutes < MinDuration || minutes > MaxDuration {
		return fmt.Errorf("%w: duration must be %d-%d minutes, got %d", ErrInvalidDuration, MinDuration, MaxDuration, minutes)
	}
	return nil
}

// ValidateReason checks the trimmed reason length.
func ValidateReason(reason string) error {
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return fmt.Errorf("%w: reason must be at least %d characters", ErrInvalidReason, MinReasonLength)
	}
	return nil
}

// Validate checks a whole exception request.
func (r ExceptionRequest) Validate() error {
	if err := ValidateReason(r.Reason); err != nil {
		return err
	}
	if err := ValidateDuration(r.DurationMinutes); err != nil {
		return err
	}
	if r.All {
		return nil
	}
	if len(r.Domains) == 0 {
		return fmt.Errorf("%w: no domains provided", ErrInvalidPattern)
	}
	for _, d := range r.Domains {
		if err := ValidatePattern(d); err != nil {
			return err
		}
	}
	return nil
}
