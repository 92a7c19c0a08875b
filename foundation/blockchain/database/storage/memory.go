package storage

import (
	"errors"
	"sync"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
)

// Memory reads and stores blocks in memory using a slice. Tests and
// ephemeral chains use it in place of Disk. This implements the
// database.Serializer interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// NewMemory constructs a Memory value for use.
func NewMemory() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything is
// in memory.
func (m *Memory) Close() error {
	return nil
}

// Write stores the sealed block in memory. Blocks must arrive in height
// order; the genesis block is never written.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(len(m.blocks))+1 != blockData.Height {
		return errors.New("block is out of order")
	}

	m.blocks = append(m.blocks, blockData)

	return nil
}

// GetBlock returns the contents of the stored block for the specified height.
func (m *Memory) GetBlock(height uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if height == 0 || height > uint64(len(m.blocks)) {
		return database.BlockData{}, errors.New("block does not exist")
	}

	return m.blocks[height-1], nil
}

// ForEach returns an iterator to walk through all the stored blocks,
// starting with block height 1.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m, current: 1}
}

// Reset clears out the stored blockchain.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator walks through and reads blocks held in memory. This
// implements the database.Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the memory storage API.
	current uint64  // Current block height being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from memory.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	mi.current++

	return blockData, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
