// Package address derives deterministic record addresses from seed tuples.
// A record's location is a pure function of its logical key, so lookups need
// no index and every mutation entry point can re-derive the expected address
// from the record's own stored fields.
package address

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/devcol-labs/devcol-backend/models"
)

// Namespace is the fixed UUIDv5 namespace for all record addresses.
var Namespace = uuid.MustParse("f3b9a6d4-7c1e-4b8a-9d52-0e6f1c2a8b43")

const (
	seedUser    = "user"
	seedProject = "project"
	seedRequest = "collab_request"
)

// Derive computes the address for a seed tuple. Each seed is length-prefixed
// before hashing so that distinct tuples can never produce the same input.
func Derive(seeds ...[]byte) uuid.UUID {
	var buf []byte
	for _, s := range seeds {
		var n [2]byte
		binary.LittleEndian.PutUint16(n[:], uint16(len(s)))
		buf = append(buf, n[:]...)
		buf = append(buf, s...)
	}
	return uuid.NewSHA1(Namespace, buf)
}

// Verify recomputes the address for a seed tuple and compares it with the
// claimed one.
func Verify(claimed uuid.UUID, seeds ...[]byte) bool {
	return Derive(seeds...) == claimed
}

// ForUser returns the address of the user record owned by the identity.
func ForUser(owner models.Identity) uuid.UUID {
	return Derive([]byte(seedUser), []byte(owner))
}

// ForProject returns the address of the project record keyed by its creator
// and immutable name.
func ForProject(creator models.Identity, name string) uuid.UUID {
	return Derive([]byte(seedProject), []byte(creator), []byte(name))
}

// ForRequest returns the address of the collaboration request keyed by its
// sender and target project address.
func ForRequest(sender models.Identity, project uuid.UUID) uuid.UUID {
	return Derive([]byte(seedRequest), []byte(sender), project[:])
}
