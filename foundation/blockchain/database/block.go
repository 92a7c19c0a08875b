package database

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"
)

// GenesisProof is the fixed seed proof carried by the genesis block. The
// first mined block's proof-of-work search is seeded from it.
const GenesisProof uint64 = 100

// ErrBlockHeightUnresolvable is returned when a non-genesis block carries
// no reward transaction to derive its height from. This indicates chain
// corruption and is fatal for the chain instance.
var ErrBlockHeightUnresolvable = errors.New("block height cannot be derived")

// Block is an immutable, timestamped, hash-chained container of
// transactions plus a proof-of-work value. Height is not stored: it is
// recovered from the reward input carried by the final transaction.
type Block struct {
	Timestamp    int64         `json:"timestamp"` // Unix nanoseconds the block was sealed.
	Transactions []Transaction `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PrevHash     *Hash         `json:"prev_hash"` // Nil only for the genesis block.
}

// NewBlock constructs the next block in the chain from the specified
// transactions, proof value, and the hash of the block it extends.
func NewBlock(transactions []Transaction, proof uint64, prevHash Hash) Block {
	return Block{
		Timestamp:    time.Now().UTC().UnixNano(),
		Transactions: transactions,
		Proof:        proof,
		PrevHash:     &prevHash,
	}
}

// newGenesisBlock constructs the height zero block: no transactions, no
// previous hash, and the fixed seed proof. The timestamp comes from the
// genesis date so the genesis hash is stable across restarts.
func newGenesisBlock(date time.Time) Block {
	return Block{
		Timestamp: date.UTC().UnixNano(),
		Proof:     GenesisProof,
	}
}

// IsGenesis reports whether this is the height zero block.
func (b Block) IsGenesis() bool {
	return b.PrevHash == nil
}

// Height derives the block's position in the chain from the reward input
// carried by its final transaction. Every mined block's last transaction is
// its reward transaction; genesis is height zero by convention.
func (b Block) Height() (uint64, error) {
	if b.IsGenesis() {
		return 0, nil
	}
	if len(b.Transactions) == 0 {
		return 0, fmt.Errorf("block %s has no transactions: %w", b.Hash(), ErrBlockHeightUnresolvable)
	}

	reward, exists := b.Transactions[len(b.Transactions)-1].RewardInput()
	if !exists {
		return 0, fmt.Errorf("block %s final transaction carries no reward: %w", b.Hash(), ErrBlockHeightUnresolvable)
	}

	return reward.Height, nil
}

// Hash returns the identity of the block, computed over the canonical
// encoding of its fields in declaration order. Transactions contribute
// through their own content hashes.
func (b Block) Hash() Hash {
	hasher := sha3.New256()

	writeUint64(hasher, uint64(b.Timestamp))
	for _, tx := range b.Transactions {
		h := tx.Hash()
		hasher.Write(h[:])
	}
	writeUint64(hasher, b.Proof)
	if b.PrevHash != nil {
		hasher.Write(b.PrevHash[:])
	}

	var h Hash
	copy(h[:], hasher.Sum(nil))

	return h
}

// Validate checks that this block legitimately extends the specified
// previous block: correct parent hash, the next height, a solved proof,
// and a timestamp after its parent's.
func (b Block) Validate(prevBlock Block, difficulty int, evHandler func(v string, args ...any)) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	height, err := b.Height()
	if err != nil {
		return err
	}

	ev("database: Validate: blk[%d]: check: parent hash matches", height)

	if b.PrevHash == nil || *b.PrevHash != prevBlock.Hash() {
		return fmt.Errorf("parent hash doesn't match our known parent, exp %s", prevBlock.Hash())
	}

	ev("database: Validate: blk[%d]: check: height is the next height", height)

	prevHeight, err := prevBlock.Height()
	if err != nil {
		return err
	}
	if height != prevHeight+1 {
		return fmt.Errorf("block is not the next in the chain, got %d, exp %d", height, prevHeight+1)
	}

	ev("database: Validate: blk[%d]: check: proof of work is solved", height)

	if !ValidateProof(prevBlock.Proof, b.Proof, difficulty) {
		return fmt.Errorf("proof %d does not solve the puzzle seeded by %d", b.Proof, prevBlock.Proof)
	}

	ev("database: Validate: blk[%d]: check: timestamp is after the parent's", height)

	if b.Timestamp <= prevBlock.Timestamp {
		return fmt.Errorf("block timestamp is not after parent block, parent %d, block %d", prevBlock.Timestamp, b.Timestamp)
	}

	return nil
}
