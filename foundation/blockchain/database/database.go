// Package database owns the authoritative chain state: the block arena
// keyed by hash, the committed transaction index, and the unspent output
// set every balance and payment derives from.
package database

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/placecoin/placecoin/foundation/blockchain/genesis"
)

// UnspentOutput ties a spendable output to the transaction that created it
// and the index it sits at. It is the unit of payment funding.
type UnspentOutput struct {
	Tx     Transaction
	Index  uint32
	Output TxOutput
}

// Database manages the chain in memory and mirrors every sealed block to
// the configured serializer. Blocks are immutable once inserted, so read
// paths can run concurrently; the mutex only orders reads against the
// insertion of a new block.
type Database struct {
	mu sync.RWMutex

	genesis genesis.Genesis
	blocks  map[Hash]Block
	order   []Hash // Block hashes in height order; order[0] is genesis.

	latestHash   Hash
	latestHeight uint64

	// Derived indexes. These are caches over chain replay, updated
	// transactionally with block insertion; replayUnspent remains the
	// authoritative derivation.
	txs       map[Hash]Transaction
	spent     map[OutPoint]Hash
	unspent   map[OutPoint]TxOutput
	byAddress map[Hash]map[OutPoint]struct{}

	serializer Serializer
}

// New constructs a database seeded with the genesis block and replays any
// blocks the serializer has on record, revalidating each one.
func New(gen genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	genesisBlock := newGenesisBlock(gen.Date)

	db := Database{
		genesis:    gen,
		blocks:     map[Hash]Block{genesisBlock.Hash(): genesisBlock},
		order:      []Hash{genesisBlock.Hash()},
		latestHash: genesisBlock.Hash(),
		txs:        make(map[Hash]Transaction),
		spent:      make(map[OutPoint]Hash),
		unspent:    make(map[OutPoint]TxOutput),
		byAddress:  make(map[Hash]map[OutPoint]struct{}),
		serializer: serializer,
	}

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}

		if err := block.Validate(db.blocks[db.latestHash], gen.Difficulty, evHandler); err != nil {
			return nil, err
		}

		if err := db.applyBlock(block); err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// Close closes the underlying block serializer.
func (db *Database) Close() {
	db.serializer.Close()
}

// Reset re-initializes the database back to the genesis state.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.serializer.Reset(); err != nil {
		return err
	}

	genesisBlock := newGenesisBlock(db.genesis.Date)
	db.blocks = map[Hash]Block{genesisBlock.Hash(): genesisBlock}
	db.order = []Hash{genesisBlock.Hash()}
	db.latestHash = genesisBlock.Hash()
	db.latestHeight = 0
	db.txs = make(map[Hash]Transaction)
	db.spent = make(map[OutPoint]Hash)
	db.unspent = make(map[OutPoint]TxOutput)
	db.byAddress = make(map[Hash]map[OutPoint]struct{})

	return nil
}

// =============================================================================

// ApplyBlock inserts a sealed block at the head of the chain and updates
// the transaction and unspent output indexes transactionally with the
// insertion.
func (db *Database) ApplyBlock(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.applyBlock(block)
}

func (db *Database) applyBlock(block Block) error {
	if block.PrevHash == nil || *block.PrevHash != db.latestHash {
		return fmt.Errorf("block %s does not extend the chain head %s", block.Hash(), db.latestHash)
	}

	height, err := block.Height()
	if err != nil {
		return err
	}

	// Validate every spend of every transaction before mutating any
	// index, so a bad block leaves the database untouched. A spend of an
	// output created earlier in the same block resolves through created.
	consumed := make(map[OutPoint]Hash)
	created := make(map[OutPoint]TxOutput)
	for _, tx := range block.Transactions {
		txHash := tx.Hash()

		for _, in := range tx.Inputs {
			if in.Kind != InputFromOutput {
				continue
			}

			op := in.OutPoint()
			if _, taken := consumed[op]; taken {
				return fmt.Errorf("block %s: input %s/%d: %w", block.Hash(), op.TxHash, op.Index, ErrDoubleSpend)
			}
			if _, exists := db.unspent[op]; !exists {
				if _, exists := created[op]; !exists {
					return fmt.Errorf("block %s: input %s/%d: %w", block.Hash(), op.TxHash, op.Index, ErrDoubleSpend)
				}
			}
			consumed[op] = txHash
		}

		for i, out := range tx.Outputs {
			if out.Kind != OutputToInput {
				continue
			}
			created[OutPoint{TxHash: txHash, Index: uint32(i)}] = out
		}
	}

	// Commit. Outputs both created and consumed within this block never
	// enter the unspent set.
	for _, tx := range block.Transactions {
		txHash := tx.Hash()
		db.txs[txHash] = tx

		for i, out := range tx.Outputs {
			if out.Kind != OutputToInput {
				continue
			}

			op := OutPoint{TxHash: txHash, Index: uint32(i)}
			if _, taken := consumed[op]; taken {
				continue
			}

			db.unspent[op] = out
			if db.byAddress[out.PublicKeyHash] == nil {
				db.byAddress[out.PublicKeyHash] = make(map[OutPoint]struct{})
			}
			db.byAddress[out.PublicKeyHash][op] = struct{}{}
		}
	}

	for op, txHash := range consumed {
		if out, exists := db.unspent[op]; exists {
			delete(db.unspent, op)
			delete(db.byAddress[out.PublicKeyHash], op)
		}
		db.spent[op] = txHash
	}

	blockHash := block.Hash()
	db.blocks[blockHash] = block
	db.order = append(db.order, blockHash)
	db.latestHash = blockHash
	db.latestHeight = height

	return nil
}

// Write mirrors a sealed block to the serializer.
func (db *Database) Write(block Block) error {
	blockData, err := NewBlockData(block)
	if err != nil {
		return err
	}
	return db.serializer.Write(blockData)
}

// =============================================================================

// LatestBlock returns the block at the head of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[db.latestHash]
}

// HeadHash returns the hash of the block at the head of the chain.
func (db *Database) HeadHash() Hash {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestHash
}

// Height returns the height of the block at the head of the chain.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestHeight
}

// BlocksByHeight returns a copy of the blocks in the inclusive height
// range, clamped to the chain head.
func (db *Database) BlocksByHeight(from uint64, to uint64) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if to > db.latestHeight {
		to = db.latestHeight
	}

	var out []Block
	for h := from; h <= to; h++ {
		out = append(out, db.blocks[db.order[h]])
	}

	return out
}

// FindTransaction looks up a committed transaction by its hash. It
// implements the TransactionFinder interface transaction construction
// resolves input references through.
func (db *Database) FindTransaction(hash Hash) (Transaction, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tx, exists := db.txs[hash]
	return tx, exists
}

// Spendable reports whether the outpoint is currently part of the unspent
// set. A false result means the output never existed as spendable currency
// or has already been consumed.
func (db *Database) Spendable(op OutPoint) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, exists := db.unspent[op]
	return exists
}

// UnspentOutputs returns a copy of the full unspent output set in a
// deterministic order.
func (db *Database) UnspentOutputs() []UnspentOutput {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]UnspentOutput, 0, len(db.unspent))
	for op, output := range db.unspent {
		out = append(out, UnspentOutput{Tx: db.txs[op.TxHash], Index: op.Index, Output: output})
	}

	sortUnspent(out)
	return out
}

// UnspentByAddress returns a copy of the unspent outputs owned by the
// specified public key hash, in a deterministic order. Payment funding
// consumes them greedily in this order.
func (db *Database) UnspentByAddress(publicKeyHash Hash) []UnspentOutput {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []UnspentOutput
	for op := range db.byAddress[publicKeyHash] {
		out = append(out, UnspentOutput{Tx: db.txs[op.TxHash], Index: op.Index, Output: db.unspent[op]})
	}

	sortUnspent(out)
	return out
}

// BalanceOf sums the values of all unspent outputs owned by the specified
// public key hash.
func (db *Database) BalanceOf(publicKeyHash Hash) Credits {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var balance Credits
	for op := range db.byAddress[publicKeyHash] {
		balance += db.unspent[op].Value
	}

	return balance
}

// ReplayUnspentOutputs derives the unspent output set from first
// principles: scan every block's spendable outputs and exclude any output
// referenced by a spend input anywhere in the chain. This is the
// authoritative derivation the incremental indexes are a cache of.
func (db *Database) ReplayUnspentOutputs() []UnspentOutput {
	db.mu.RLock()
	defer db.mu.RUnlock()

	consumed := make(map[OutPoint]struct{})
	for _, blockHash := range db.order {
		for _, tx := range db.blocks[blockHash].Transactions {
			for _, in := range tx.Inputs {
				if in.Kind == InputFromOutput {
					consumed[in.OutPoint()] = struct{}{}
				}
			}
		}
	}

	var out []UnspentOutput
	for _, blockHash := range db.order {
		for _, tx := range db.blocks[blockHash].Transactions {
			txHash := tx.Hash()
			for i, output := range tx.Outputs {
				if output.Kind != OutputToInput {
					continue
				}

				op := OutPoint{TxHash: txHash, Index: uint32(i)}
				if _, exists := consumed[op]; exists {
					continue
				}

				out = append(out, UnspentOutput{Tx: tx, Index: op.Index, Output: output})
			}
		}
	}

	sortUnspent(out)
	return out
}

// =============================================================================

// sortUnspent orders unspent outputs by transaction hash then index so
// every derivation of the set is deterministic.
func sortUnspent(outs []UnspentOutput) {
	sort.Slice(outs, func(i, j int) bool {
		a, b := outs[i].Tx.Hash(), outs[j].Tx.Hash()
		if cmp := bytes.Compare(a[:], b[:]); cmp != 0 {
			return cmp < 0
		}
		return outs[i].Index < outs[j].Index
	})
}
