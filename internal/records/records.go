// Package records resolves corroborating county/parcel data for an address.
// The audit engine only depends on the Source port; the HTTP client and the
// Redis read cache are adapters wired in at startup.
package records

import (
	"context"

	"dealaudit/internal/listing"
	dErrors "dealaudit/pkg/domain-errors"
)

// ErrNoRecord is returned when the authoritative source has no parcel for an
// address. Callers must treat this as "no corroboration", never as a
// discrepancy.
var ErrNoRecord = dErrors.New(dErrors.CodeNotFound, "no corroborating record for address")

// Source looks up the corroborating record for one address.
type Source interface {
	Lookup(ctx context.Context, address string) (*listing.CorroboratingRecord, error)
}
