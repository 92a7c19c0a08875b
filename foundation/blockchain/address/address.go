// Package address derives the human shareable payment identity from a key
// pair and validates addresses before they are trusted as payment
// destinations.
package address

import (
	"crypto/ecdsa"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
	"golang.org/x/crypto/sha3"
)

// CurrentVersion is the version byte every address carries. An address
// minted under a different protocol version does not validate.
const CurrentVersion byte = 1

// encodedLength is the exact decoded size of a valid address:
// version(1) ++ public key hash(32) ++ checksum(4).
const encodedLength = 1 + database.HashLength + checksumLength

const checksumLength = 4

// ErrMalformedAddress is returned when an address fails to decode, has the
// wrong length or version, or its checksum does not recompute.
var ErrMalformedAddress = errors.New("malformed address")

// Address is the base58 form of a spendable identity. It may be held
// unvalidated; Validate is the sole admission gate before the address is
// used as a payment destination.
type Address string

// FromPrivateKey derives the address owned by the specified private key:
// the SHA3-256 hash of the compressed public key, carrying the version
// byte and a double-SHA3 checksum, base58 encoded.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) Address {
	publicKeyHash := database.PublicKeyHash(signature.PublicKeyBytes(privateKey))

	payload := make([]byte, 0, encodedLength)
	payload = append(payload, CurrentVersion)
	payload = append(payload, publicKeyHash[:]...)
	payload = append(payload, checksum(payload)...)

	return Address(base58.Encode(payload))
}

// Parse wraps the raw string without validation so a caller can hold a
// syntactically unchecked address before deciding to trust it.
func Parse(text string) Address {
	return Address(text)
}

// Validate reports whether the address decodes to exactly the expected
// layout, carries the current version, and its checksum recomputes. It
// fails false, never panics.
func (a Address) Validate() bool {
	payload := base58.Decode(string(a))

	if len(payload) != encodedLength {
		return false
	}
	if payload[0] != CurrentVersion {
		return false
	}

	data, check := payload[:1+database.HashLength], payload[1+database.HashLength:]
	for i, b := range checksum(data) {
		if check[i] != b {
			return false
		}
	}

	return true
}

// PublicKeyHash recovers the public key hash embedded in the address after
// validating it. Ledger queries are keyed by this hash.
func (a Address) PublicKeyHash() (database.Hash, error) {
	if !a.Validate() {
		return database.Hash{}, ErrMalformedAddress
	}

	var hash database.Hash
	copy(hash[:], base58.Decode(string(a))[1:1+database.HashLength])

	return hash, nil
}

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return string(a)
}

// =============================================================================

// checksum derives the 4 byte transcription check over the versioned
// payload: the first bytes of a double SHA3-256.
func checksum(data []byte) []byte {
	first := sha3.Sum256(data)
	second := sha3.Sum256(first[:])

	return second[:checksumLength]
}
