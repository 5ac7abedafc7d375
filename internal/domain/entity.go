// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Hosts file markers.
const (
	BlockMarker   = "BLOCKME"
	AllowMarker   = "NEVERBLOCK"
	CommentMarker = "#"
)

// Limits collected from the prompt front end and enforced by the controller.
const (
	RecentsMax       = 3
	MinDuration      = 1   // minutes
	MaxDuration      = 480 // minutes
	MinReasonLength  = 6
	MinPatternLength = 4
)

// LineTag classifies one line of the access-list file.
type LineTag int

const (
	TagUnrelated LineTag = iota
	TagPermanentAllow
	TagRejectionActive
	TagRejectionDisabled
)

// String returns the tag name used in logs.
func (t LineTag) String() string {
	switch t {
	case TagPermanentAllow:
		return "permanent-allow"
	case TagRejectionActive:
		return "rejection-active"
	case TagRejectionDisabled:
		return "rejection-disabled"
	default:
		return "unrelated"
	}
}

// AccessLine is one line of the access-list file.
// It is re-derived from the raw text on every read and never stored on its own.
type AccessLine struct {
	Raw    string
	Tag    LineTag
	Domain string // Only set for rejection lines
}

// EventKind identifies an audit record.
type EventKind string

const (
	EventBlock   EventKind = "BLOCK"
	EventUnblock EventKind = "UNBLOCK"
)

// AuditEntry is an append-only record of a block or unblock.
type AuditEntry struct {
	Time            time.Time
	Kind            EventKind
	DurationMinutes int      // Unblock only
	Reason          string   // Unblock only
	Domains         []string // Unblock only; empty means all
}

// ExceptionRequest is what the user asks for when re-enabling sites.
type ExceptionRequest struct {
	Reason          string
	DurationMinutes int
	All             bool
	Domains         []string // Ignored when All is set
}

// GrantResult describes a granted exception.
type GrantResult struct {
	Request       ExceptionRequest
	WaitedSeconds int
	// Warnings holds failures that did not revoke the exception
	// (reversal scheduling, recents update).
	Warnings []error
}

// Status is the read-only view used by `blk status`.
type Status struct {
	Locked           bool
	LockRemaining    time.Duration
	BlockedDomains   []string
	UnblockedDomains []string
}
