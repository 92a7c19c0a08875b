// Package signature provides the signing support needed to authorize the
// spending of a transaction output.
package signature

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// Length is the fixed size of a signature in bytes, the R and S values
// of the ECDSA signature concatenated.
const Length = 64

// Signature represents a deterministic-nonce ECDSA signature produced over
// a 256-bit digest. Signing the same digest with the same key always
// produces the same signature.
type Signature [Length]byte

// Sign uses the specified private key to sign the 32 byte digest.
func Sign(privateKey *ecdsa.PrivateKey, digest [32]byte) (Signature, error) {
	sig, err := crypto.Sign(digest[:], privateKey)
	if err != nil {
		return Signature{}, fmt.Errorf("signing digest: %w", err)
	}

	// Drop the recovery id. Verification is performed against the public
	// key carried by the transaction input, so key recovery is not needed.
	var signature Signature
	copy(signature[:], sig[:Length])

	return signature, nil
}

// Verify reports whether the signature over the digest was produced by the
// private key matching the specified compressed public key.
func Verify(publicKey []byte, digest [32]byte, sig Signature) bool {
	return crypto.VerifySignature(publicKey, digest[:], sig[:])
}

// AuthorizeSpend signs the reference to a prior transaction output. The
// signed message binds the transaction hash, the output index, and the
// spender's public key together so the signature can't be replayed against
// a different output.
func AuthorizeSpend(txHash [32]byte, outputIndex uint32, publicKey []byte, privateKey *ecdsa.PrivateKey) (Signature, error) {
	return Sign(privateKey, SpendDigest(txHash, outputIndex, publicKey))
}

// SpendDigest produces the digest that authorizes spending the specified
// output. Verifiers recompute this digest from the input's own fields.
func SpendDigest(txHash [32]byte, outputIndex uint32, publicKey []byte) [32]byte {
	hasher := sha3.New256()
	hasher.Write(txHash[:])

	var index [4]byte
	binary.LittleEndian.PutUint32(index[:], outputIndex)
	hasher.Write(index[:])

	hasher.Write(publicKey)

	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))

	return digest
}

// PublicKeyBytes returns the canonical compressed serialization of the
// public key matching the specified private key.
func PublicKeyBytes(privateKey *ecdsa.PrivateKey) []byte {
	return crypto.CompressPubkey(&privateKey.PublicKey)
}

// =============================================================================

// String implements the fmt.Stringer interface.
func (s Signature) String() string {
	return hexutil.Encode(s[:])
}

// MarshalText implements the encoding.TextMarshaler interface so signatures
// travel as hex strings in JSON documents.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(s[:])), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *Signature) UnmarshalText(text []byte) error {
	data, err := hexutil.Decode(string(text))
	if err != nil {
		return err
	}
	if len(data) != Length {
		return fmt.Errorf("signature must be %d bytes, got %d", Length, len(data))
	}

	copy(s[:], data)
	return nil
}
