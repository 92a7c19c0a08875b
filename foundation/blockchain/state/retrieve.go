package state

import (
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMinerPublicKeyHash returns the identity block rewards are paid to.
func (s *State) RetrieveMinerPublicKeyHash() database.Hash {
	return s.minerPublicKeyHash
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the pending transactions in admission
// order.
func (s *State) RetrieveMempool() []database.Transaction {
	return s.mempool.Copy()
}

// =============================================================================
// Query methods scan the append-only chain and are safe to run
// concurrently with each other and with mining.

// QueryBalance sums the values of all unspent outputs owned by the
// specified public key hash.
func (s *State) QueryBalance(publicKeyHash database.Hash) database.Credits {
	return s.db.BalanceOf(publicKeyHash)
}

// QueryUnspentOutputs returns the full unspent output set.
func (s *State) QueryUnspentOutputs() []database.UnspentOutput {
	return s.db.UnspentOutputs()
}

// QueryUnspentByAddress returns the unspent outputs owned by the specified
// public key hash.
func (s *State) QueryUnspentByAddress(publicKeyHash database.Hash) []database.UnspentOutput {
	return s.db.UnspentByAddress(publicKeyHash)
}

// QueryMempoolLength returns the current length of the pending pool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByHeight returns the blocks in the inclusive height range.
func (s *State) QueryBlocksByHeight(from uint64, to uint64) []database.Block {
	return s.db.BlocksByHeight(from, to)
}

// QueryHeight returns the height of the chain head.
func (s *State) QueryHeight() uint64 {
	return s.db.Height()
}

// FindTransaction looks up a committed transaction by its hash.
func (s *State) FindTransaction(hash database.Hash) (database.Transaction, bool) {
	return s.db.FindTransaction(hash)
}

// QueryPixelCost prices a pixel for the specified buyer at the current
// chain height.
func (s *State) QueryPixelCost(buyer database.Hash, position database.Point) database.Credits {
	return s.db.PixelCost(buyer, position, s.db.Height())
}

// QueryCanvas returns the current state of every purchased pixel.
func (s *State) QueryCanvas() []database.CanvasPixel {
	return s.db.Canvas()
}
