package domain

import (
	"testing"

	"github.com/google/uuid"
)

// FuzzParseSessionID checks that parsing never panics and that anything it
// accepts round-trips through String unchanged.
func FuzzParseSessionID(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("not-a-uuid")
	f.Add(uuid.Nil.String())
	f.Add("550E8400-E29B-41D4-A716-446655440000")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseSessionID(input)
		if err != nil {
			return
		}
		reparsed, err := ParseSessionID(id.String())
		if err != nil {
			t.Fatalf("canonical form %q failed to reparse: %v", id.String(), err)
		}
		if reparsed != id {
			t.Fatalf("round trip changed the ID: %v != %v", reparsed, id)
		}
	})
}
