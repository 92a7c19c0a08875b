package database

import "fmt"

// BlockData represents what is serialized to disk and over the wire for a
// sealed block. The genesis block is never persisted: it is recomputed
// from the genesis file.
type BlockData struct {
	Hash   Hash   `json:"hash"`
	Height uint64 `json:"height"`
	Block  Block  `json:"block"`
}

// NewBlockData constructs the value to serialize for a sealed block.
func NewBlockData(block Block) (BlockData, error) {
	height, err := block.Height()
	if err != nil {
		return BlockData{}, err
	}

	return BlockData{
		Hash:   block.Hash(),
		Height: height,
		Block:  block,
	}, nil
}

// ToBlock converts serialized block data back into a block, checking the
// recorded hash still matches the content. A mismatch means the stored
// chain was tampered with or corrupted.
func ToBlock(blockData BlockData) (Block, error) {
	if blockData.Block.Hash() != blockData.Hash {
		return Block{}, fmt.Errorf("block %d content does not match its recorded hash %s", blockData.Height, blockData.Hash)
	}

	return blockData.Block, nil
}

// =============================================================================

// Serializer represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(height uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator represents the behavior required to be implemented by any
// package providing support to iterate over the stored blocks in height
// order, starting at height 1.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}
