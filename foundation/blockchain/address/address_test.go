package address_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/address"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_AddressRoundTrip(t *testing.T) {
	t.Log("Given the need to derive and recover a payment identity.")
	{
		t.Logf("\tTest 0:\tWhen deriving an address from a private key.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			addr := address.FromPrivateKey(privateKey)

			if !addr.Validate() {
				t.Fatalf("\t%s\tTest 0:\tShould produce an address that validates.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce an address that validates.", success)

			got, err := addr.PublicKeyHash()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to recover the public key hash: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to recover the public key hash.", success)

			exp := database.PublicKeyHash(signature.PublicKeyBytes(privateKey))
			if got != exp {
				t.Errorf("\t%s\tTest 0:\tShould recover the hash of the compressed public key.", failed)
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, exp)
			} else {
				t.Logf("\t%s\tTest 0:\tShould recover the hash of the compressed public key.", success)
			}
		}
	}
}

func Test_AddressValidation(t *testing.T) {
	t.Log("Given the need to reject corrupted or foreign addresses.")
	{
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}

		addr := address.FromPrivateKey(privateKey)
		payload := base58.Decode(addr.String())

		t.Logf("\tTest 0:\tWhen a checksum byte is corrupted.")
		{
			corrupted := make([]byte, len(payload))
			copy(corrupted, payload)
			corrupted[len(corrupted)-1] ^= 0x01

			if address.Parse(base58.Encode(corrupted)).Validate() {
				t.Errorf("\t%s\tTest 0:\tShould reject a corrupted checksum.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reject a corrupted checksum.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen a payload byte is corrupted.")
		{
			corrupted := make([]byte, len(payload))
			copy(corrupted, payload)
			corrupted[5] ^= 0x01

			if address.Parse(base58.Encode(corrupted)).Validate() {
				t.Errorf("\t%s\tTest 1:\tShould reject a corrupted public key hash.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould reject a corrupted public key hash.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen the version byte is not the current version.")
		{
			foreign := make([]byte, len(payload))
			copy(foreign, payload)
			foreign[0] = address.CurrentVersion + 1

			if address.Parse(base58.Encode(foreign)).Validate() {
				t.Errorf("\t%s\tTest 2:\tShould reject a foreign version byte.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould reject a foreign version byte.", success)
			}
		}

		t.Logf("\tTest 3:\tWhen the address is not base58 of the expected length.")
		{
			if address.Parse("not an address").Validate() {
				t.Errorf("\t%s\tTest 3:\tShould reject arbitrary text.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould reject arbitrary text.", success)
			}

			if _, err := address.Parse("not an address").PublicKeyHash(); err == nil {
				t.Errorf("\t%s\tTest 3:\tShould refuse to recover a hash from arbitrary text.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould refuse to recover a hash from arbitrary text.", success)
			}
		}
	}
}
