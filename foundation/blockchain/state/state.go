// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/genesis"
	"github.com/placecoin/placecoin/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	MinerPublicKeyHash database.Hash
	Genesis            genesis.Genesis
	Storage            database.Serializer
	EvHandler          EventHandler
}

// State manages the blockchain database and the pending transaction pool.
//
// Mutating operations serialize on a single writer lock so the pool
// drain / reward compute / block insert sequence in Mine is atomic with
// respect to concurrent submissions. Read paths go straight to the
// database, which hands out consistent snapshots without blocking the
// writer.
type State struct {
	mu sync.Mutex

	minerPublicKeyHash database.Hash
	genesis            genesis.Genesis
	evHandler          EventHandler

	db      *database.Database
	mempool *mempool.Mempool

	// The Worker is not set here. The call to worker.Run will assign
	// itself and start the background mining support.
	Worker Worker
}

// New constructs a new ledger for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		minerPublicKeyHash: cfg.MinerPublicKeyHash,
		genesis:            cfg.Genesis,
		evHandler:          ev,

		db:      db,
		mempool: mempool.New(),
	}

	return &state, nil
}

// ResetChain clears the committed chain and the pending pool back to the
// genesis state. Meant for development nodes; a reset throws every mined
// block away.
func (s *State) ResetChain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: ResetChain: clearing chain and pool")

	s.mempool.Truncate()
	return s.db.Reset()
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer s.db.Close()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
