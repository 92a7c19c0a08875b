package database

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// HashLength is the fixed size in bytes of every digest on the chain.
const HashLength = 32

// Hash represents the SHA3-256 digest used as the identity of blocks,
// transactions, and public keys. Two entities with identical canonical
// encodings have identical hashes.
type Hash [HashLength]byte

// NewHash computes the SHA3-256 digest of the specified data.
func NewHash(data []byte) Hash {
	return sha3.Sum256(data)
}

// PublicKeyHash computes the hash identity for a canonically serialized
// public key. This is the value payments are addressed to.
func PublicKeyHash(publicKey []byte) Hash {
	return sha3.Sum256(publicKey)
}

// IsZero reports whether the hash carries no value.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String implements the fmt.Stringer interface.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// MarshalText implements the encoding.TextMarshaler interface so hashes
// travel as hex strings in JSON documents and map keys.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(h[:])), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *Hash) UnmarshalText(text []byte) error {
	data, err := hexutil.Decode(string(text))
	if err != nil {
		return err
	}
	if len(data) != HashLength {
		return fmt.Errorf("hash must be %d bytes, got %d", HashLength, len(data))
	}

	copy(h[:], data)
	return nil
}

// =============================================================================
// Canonical encoding helpers. Integers are written little-endian and fields
// are written in declaration order. This layout is frozen per CurrentVersion:
// changing it changes every downstream hash.

func writeUint32(w io.Writer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func writeUint64(w io.Writer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}
