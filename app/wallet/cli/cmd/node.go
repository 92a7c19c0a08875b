package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
)

// walletPublicKey returns the compressed public key the ledger verifies
// spends against.
func walletPublicKey(privateKey *ecdsa.PrivateKey) []byte {
	return signature.PublicKeyBytes(privateKey)
}

// unspent mirrors the node's unspent output listing.
type unspent struct {
	TxHash   database.Hash    `json:"tx_hash"`
	Index    uint32           `json:"index"`
	Value    database.Credits `json:"value"`
	LockTime uint64           `json:"lock_time"`
}

// nodeUnspent asks the node for the unspent outputs owned by the address.
func nodeUnspent(addr string) ([]unspent, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/outputs/list/%s", url, addr))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node returned status %s", resp.Status)
	}

	var outs []unspent
	if err := json.NewDecoder(resp.Body).Decode(&outs); err != nil {
		return nil, err
	}

	return outs, nil
}

// nodeHeight asks the node for the current chain height.
func nodeHeight() (uint64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/blocks/list/latest/latest", url))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("node returned status %s", resp.Status)
	}

	var blocks []struct {
		Height uint64 `json:"height"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return 0, err
	}
	if len(blocks) == 0 {
		return 0, fmt.Errorf("node returned no blocks")
	}

	return blocks[len(blocks)-1].Height, nil
}

// fundAndSign collects the wallet's unspent outputs until they cover the
// target amount and signs a spend of each one. Locked outputs are skipped.
func fundAndSign(privateKey *ecdsa.PrivateKey, target database.Credits) ([]database.TxInput, database.Credits, error) {
	publicKey := signature.PublicKeyBytes(privateKey)
	addr := walletAddress(privateKey)

	height, err := nodeHeight()
	if err != nil {
		return nil, 0, err
	}

	outs, err := nodeUnspent(addr)
	if err != nil {
		return nil, 0, err
	}

	var inputs []database.TxInput
	var total database.Credits

	for _, uo := range outs {
		if total >= target {
			break
		}
		if uo.LockTime > height {
			continue
		}

		sig, err := signature.AuthorizeSpend(uo.TxHash, uo.Index, publicKey, privateKey)
		if err != nil {
			return nil, 0, err
		}

		inputs = append(inputs, database.NewSpendInput(uo.TxHash, uo.Index, publicKey, sig))
		total += uo.Value
	}

	if total < target {
		return nil, 0, fmt.Errorf("have %d credits, need %d", total, target)
	}

	return inputs, total, nil
}

// submitTransaction ships the signed transaction to the node's mempool.
func submitTransaction(tx database.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("node rejected transaction: %s: %s", resp.Status, msg)
	}

	return nil
}
