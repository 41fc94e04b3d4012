package models

// Identity is the opaque, already-authenticated caller identity that owns
// records and funds their deposits. Signature verification happens upstream;
// this layer only compares identities for equality.
type Identity string

// MaxIdentityLen bounds the encoded form of an identity.
const MaxIdentityLen = 64

func (id Identity) Valid() bool {
	return id != "" && len(id) <= MaxIdentityLen
}

func (id Identity) String() string {
	return string(id)
}
