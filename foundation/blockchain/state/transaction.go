package state

import (
	"errors"
	"fmt"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
)

// ErrRewardInPool is returned when a submitted transaction tries to claim
// a block reward. Rewards are minted only while sealing a block.
var ErrRewardInPool = errors.New("reward inputs may only be minted while sealing a block")

// SubmitTransaction validates the transaction and admits it to the pending
// pool. Admission and mining serialize on the same writer lock, closing
// the race where two transactions spending the same output are both
// admitted, or a transaction slips in between the pool snapshot and the
// block seal.
func (s *State) SubmitTransaction(tx database.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admitTransaction(tx); err != nil {
		return err
	}

	s.evHandler("state: SubmitTransaction: tx[%s] admitted to pool", tx.Hash())

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// admitTransaction runs the full admission gauntlet under the writer lock.
func (s *State) admitTransaction(tx database.Transaction) error {
	if tx.Version != database.CurrentVersion {
		return fmt.Errorf("transaction version %d, expected %d", tx.Version, database.CurrentVersion)
	}
	if len(tx.Outputs) == 0 {
		return errors.New("transaction assigns no outputs")
	}

	// Rerun construction validation: every value must be positive, every
	// referenced output must exist and be well typed, and the inputs must
	// cover the outputs.
	if err := tx.ValidateValues(); err != nil {
		return err
	}

	balance, err := tx.Balance(s.db)
	if err != nil {
		return err
	}
	if balance < 0 {
		return fmt.Errorf("short by %d credits: %w", -balance, database.ErrInsufficientInputValue)
	}

	// Only the sealing of a block may mint value.
	if _, exists := tx.RewardInput(); exists {
		return ErrRewardInPool
	}

	// A signature is proof of the right to spend; construction alone is
	// never trusted.
	if err := tx.VerifySpends(s.db); err != nil {
		return err
	}

	height := s.db.Height()
	claimed := make(map[database.OutPoint]struct{})
	for _, in := range tx.Inputs {
		if in.Kind != database.InputFromOutput {
			continue
		}

		// Spendability is checked against the union of the committed
		// chain, the pending pool, and this transaction's own inputs. A
		// transaction listing the same outpoint twice would count its
		// value twice and poison the pool with an unappliable block.
		op := in.OutPoint()
		if _, taken := claimed[op]; taken {
			return fmt.Errorf("output %s/%d listed twice: %w", op.TxHash, op.Index, database.ErrDoubleSpend)
		}
		claimed[op] = struct{}{}

		if !s.db.Spendable(op) {
			return fmt.Errorf("output %s/%d: %w", op.TxHash, op.Index, database.ErrDoubleSpend)
		}
		if s.mempool.Claims(op) {
			return fmt.Errorf("output %s/%d: %w", op.TxHash, op.Index, database.ErrDoubleSpend)
		}

		// Reward outputs carry a maturity height through their
		// transaction's lock time.
		if prev, exists := s.db.FindTransaction(in.TxHash); exists && prev.LockTime > height {
			return fmt.Errorf("output %s/%d matures at height %d, chain at %d: %w",
				op.TxHash, op.Index, prev.LockTime, height, database.ErrOutputLocked)
		}
	}

	// A pixel purchase must pay the full price observed at the current
	// height.
	if err := s.validatePixelOutputs(tx, height); err != nil {
		return err
	}

	return s.mempool.Upsert(tx)
}

// validatePixelOutputs enforces the pixel cost contract: each pixel output
// must declare at least the computed cost of its position for this buyer.
func (s *State) validatePixelOutputs(tx database.Transaction, height uint64) error {
	buyer, funded := tx.SpenderHash()

	for _, out := range tx.Outputs {
		if out.Kind != database.OutputToPixel {
			continue
		}

		if !funded {
			return errors.New("pixel purchase carries no spend input to identify the buyer")
		}

		cost := s.db.PixelCost(buyer, out.Position, height)
		if out.Value < cost {
			return fmt.Errorf("pixel (%d,%d) costs %d credits, output declares %d: %w",
				out.Position.X, out.Position.Y, cost, out.Value, ErrPixelUnderpriced)
		}
	}

	return nil
}

// ErrPixelUnderpriced is returned when a pixel output declares less than
// the computed cost of its position.
var ErrPixelUnderpriced = errors.New("pixel output does not cover the pixel cost")
