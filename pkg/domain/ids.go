// Package domain holds the typed identifiers shared across modules. Wrapping
// uuid.UUID keeps session and report IDs from being swapped accidentally at
// call sites.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionID identifies one scrape session (one batch run of the external
// listing scraper).
type SessionID uuid.UUID

// NewSessionID returns a random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID parses a session ID from its string form.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, fmt.Errorf("session id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, fmt.Errorf("parse session id: %w", err)
	}
	return SessionID(u), nil
}

func (s SessionID) String() string { return uuid.UUID(s).String() }

// IsNil reports whether the ID is the zero value.
func (s SessionID) IsNil() bool { return uuid.UUID(s) == uuid.Nil }

func (s SessionID) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SessionID) UnmarshalText(data []byte) error {
	parsed, err := ParseSessionID(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ReportID identifies one persisted audit report.
type ReportID uuid.UUID

// NewReportID returns a random report ID.
func NewReportID() ReportID {
	return ReportID(uuid.New())
}

// ParseReportID parses a report ID from its string form.
func ParseReportID(s string) (ReportID, error) {
	if s == "" {
		return ReportID{}, fmt.Errorf("report id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ReportID{}, fmt.Errorf("parse report id: %w", err)
	}
	return ReportID(u), nil
}

func (r ReportID) String() string { return uuid.UUID(r).String() }

// IsNil reports whether the ID is the zero value.
func (r ReportID) IsNil() bool { return uuid.UUID(r) == uuid.Nil }

func (r ReportID) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ReportID) UnmarshalText(data []byte) error {
	parsed, err := ParseReportID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
