// Package mempool maintains the pool of transactions accepted but not yet
// sealed into a block.
package mempool

import (
	"fmt"
	"sync"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
)

// Mempool represents a cache of pending transactions keyed by their hash.
// It tracks every outpoint its transactions claim so two pending
// transactions can never race to spend the same output.
type Mempool struct {
	mu      sync.RWMutex
	pool    map[database.Hash]database.Transaction
	order   []database.Hash
	claimed map[database.OutPoint]database.Hash
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool:    make(map[database.Hash]database.Transaction),
		claimed: make(map[database.OutPoint]database.Hash),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a transaction to the pool, registering a claim on every
// output it spends. A transaction whose spend is already claimed by a
// different pending transaction is rejected.
func (mp *Mempool) Upsert(tx database.Transaction) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txHash := tx.Hash()
	if _, exists := mp.pool[txHash]; exists {
		return nil
	}

	for _, in := range tx.Inputs {
		if in.Kind != database.InputFromOutput {
			continue
		}

		if claimer, exists := mp.claimed[in.OutPoint()]; exists && claimer != txHash {
			return fmt.Errorf("output %s/%d claimed by pending transaction %s: %w",
				in.TxHash, in.OutputIndex, claimer, database.ErrDoubleSpend)
		}
	}

	for _, in := range tx.Inputs {
		if in.Kind == database.InputFromOutput {
			mp.claimed[in.OutPoint()] = txHash
		}
	}

	mp.pool[txHash] = tx
	mp.order = append(mp.order, txHash)

	return nil
}

// Claims reports whether any pending transaction spends the specified
// outpoint.
func (mp *Mempool) Claims(op database.OutPoint) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.claimed[op]
	return exists
}

// Copy returns a copy of the pending transactions in admission order.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Transaction, 0, len(mp.order))
	for _, hash := range mp.order {
		txs = append(txs, mp.pool[hash])
	}

	return txs
}

// Truncate clears all the transactions and claims from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[database.Hash]database.Transaction)
	mp.order = nil
	mp.claimed = make(map[database.OutPoint]database.Hash)
}
