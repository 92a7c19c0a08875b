package state

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
)

// ErrInsufficientFunds is returned when the sender's unspent outputs can't
// cover a payment even after exhausting all of them.
var ErrInsufficientFunds = errors.New("unspent outputs do not cover the payment")

// BuildPayment collects the sender's unspent outputs until they cover
// value plus tax, signs each spend, emits one output paying the recipient
// and one change output returning the remainder, and admits the
// transaction to the pending pool. The key authorizes the spends and is
// never retained.
func (s *State) BuildPayment(privateKey *ecdsa.PrivateKey, recipient database.Hash, value database.Credits, tax database.Credits) (database.Transaction, error) {
	if value <= 0 {
		return database.Transaction{}, fmt.Errorf("payment value must be positive, got %d", value)
	}
	if tax < 0 {
		return database.Transaction{}, fmt.Errorf("payment tax must not be negative, got %d", tax)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	publicKey := signature.PublicKeyBytes(privateKey)
	sender := database.PublicKeyHash(publicKey)

	inputs, total, err := s.fundInputs(privateKey, publicKey, sender, value+tax)
	if err != nil {
		return database.Transaction{}, err
	}

	outputs := []database.TxOutput{database.NewSpendableOutput(value, recipient)}
	if change := total - value - tax; change > 0 {
		outputs = append(outputs, database.NewSpendableOutput(change, sender))
	}

	tx, err := database.NewTx(s.db, inputs, outputs, 0)
	if err != nil {
		return database.Transaction{}, err
	}

	if err := s.admitTransaction(tx); err != nil {
		return database.Transaction{}, err
	}

	s.evHandler("state: BuildPayment: tx[%s] to[%s] value[%d] tax[%d]", tx.Hash(), recipient, value, tax)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return tx, nil
}

// BuildPixelPurchase prices the pixel for this buyer at the current
// height, collects the buyer's unspent outputs to cover the cost, and
// admits a transaction recording the purchase.
func (s *State) BuildPixelPurchase(privateKey *ecdsa.PrivateKey, position database.Point, color database.Color) (database.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	publicKey := signature.PublicKeyBytes(privateKey)
	buyer := database.PublicKeyHash(publicKey)

	cost := s.db.PixelCost(buyer, position, s.db.Height())

	inputs, total, err := s.fundInputs(privateKey, publicKey, buyer, cost)
	if err != nil {
		return database.Transaction{}, err
	}

	outputs := []database.TxOutput{database.NewPixelOutput(cost, position, color)}
	if change := total - cost; change > 0 {
		outputs = append(outputs, database.NewSpendableOutput(change, buyer))
	}

	tx, err := database.NewTx(s.db, inputs, outputs, 0)
	if err != nil {
		return database.Transaction{}, err
	}

	if err := s.admitTransaction(tx); err != nil {
		return database.Transaction{}, err
	}

	s.evHandler("state: BuildPixelPurchase: tx[%s] position[%d,%d] cost[%d]", tx.Hash(), position.X, position.Y, cost)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return tx, nil
}

// fundInputs greedily collects the owner's unspent outputs, in the
// database's deterministic order, until they cover the target amount.
// Outputs already claimed by the pending pool or still locked are skipped.
func (s *State) fundInputs(privateKey *ecdsa.PrivateKey, publicKey []byte, owner database.Hash, target database.Credits) ([]database.TxInput, database.Credits, error) {
	height := s.db.Height()

	var inputs []database.TxInput
	var total database.Credits

	for _, uo := range s.db.UnspentByAddress(owner) {
		if total >= target {
			break
		}

		op := database.OutPoint{TxHash: uo.Tx.Hash(), Index: uo.Index}
		if s.mempool.Claims(op) {
			continue
		}
		if uo.Tx.LockTime > height {
			continue
		}

		sig, err := signature.AuthorizeSpend(op.TxHash, op.Index, publicKey, privateKey)
		if err != nil {
			return nil, 0, fmt.Errorf("authorizing spend of %s/%d: %w", op.TxHash, op.Index, err)
		}

		inputs = append(inputs, database.NewSpendInput(op.TxHash, op.Index, publicKey, sig))
		total += uo.Output.Value
	}

	if total < target {
		return nil, 0, fmt.Errorf("have %d credits, need %d: %w", total, target, ErrInsufficientFunds)
	}

	return inputs, total, nil
}
