package signature_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
	"golang.org/x/crypto/sha3"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_SignDeterminism(t *testing.T) {
	t.Log("Given the need to produce repeatable signatures over a digest.")
	{
		t.Logf("\tTest 0:\tWhen signing the same digest twice with one key.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			digest := sha3.Sum256([]byte("the exact bytes being authorized"))

			sig1, err := signature.Sign(privateKey, digest)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the digest: %v", failed, err)
			}
			sig2, err := signature.Sign(privateKey, digest)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the digest again: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sign the digest twice.", success)

			if sig1 != sig2 {
				t.Errorf("\t%s\tTest 0:\tShould produce the identical signature both times.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce the identical signature both times.", success)
			}

			publicKey := signature.PublicKeyBytes(privateKey)
			if !signature.Verify(publicKey, digest, sig1) {
				t.Errorf("\t%s\tTest 0:\tShould verify against the matching public key.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould verify against the matching public key.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen the key or the digest changes.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to generate a key: %v", failed, err)
			}
			otherKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to generate a second key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to generate two keys.", success)

			digest := sha3.Sum256([]byte("payload"))
			otherDigest := sha3.Sum256([]byte("other payload"))

			sig, err := signature.Sign(privateKey, digest)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign the digest: %v", failed, err)
			}
			otherSig, err := signature.Sign(privateKey, otherDigest)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign the other digest: %v", failed, err)
			}

			if sig == otherSig {
				t.Errorf("\t%s\tTest 1:\tShould produce different signatures for different digests.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould produce different signatures for different digests.", success)
			}

			if signature.Verify(signature.PublicKeyBytes(otherKey), digest, sig) {
				t.Errorf("\t%s\tTest 1:\tShould not verify against a different public key.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not verify against a different public key.", success)
			}

			if signature.Verify(signature.PublicKeyBytes(privateKey), otherDigest, sig) {
				t.Errorf("\t%s\tTest 1:\tShould not verify against a different digest.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not verify against a different digest.", success)
			}
		}
	}
}

func Test_SpendAuthorization(t *testing.T) {
	t.Log("Given the need to bind a spend authorization to one output reference.")
	{
		t.Logf("\tTest 0:\tWhen authorizing the spend of a specific output.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			publicKey := signature.PublicKeyBytes(privateKey)
			txHash := sha3.Sum256([]byte("some committed transaction"))

			sig, err := signature.AuthorizeSpend(txHash, 0, publicKey, privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to authorize the spend: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to authorize the spend.", success)

			digest := signature.SpendDigest(txHash, 0, publicKey)
			if !signature.Verify(publicKey, digest, sig) {
				t.Errorf("\t%s\tTest 0:\tShould verify against the recomputed spend digest.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould verify against the recomputed spend digest.", success)
			}

			otherDigest := signature.SpendDigest(txHash, 1, publicKey)
			if signature.Verify(publicKey, otherDigest, sig) {
				t.Errorf("\t%s\tTest 0:\tShould not authorize a different output index.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not authorize a different output index.", success)
			}

			otherHash := sha3.Sum256([]byte("a different transaction"))
			if signature.Verify(publicKey, signature.SpendDigest(otherHash, 0, publicKey), sig) {
				t.Errorf("\t%s\tTest 0:\tShould not authorize a different transaction.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not authorize a different transaction.", success)
			}
		}
	}
}
