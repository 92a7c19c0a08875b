package state

import (
	"context"
	"fmt"

	"github.com/placecoin/placecoin/foundation/blockchain/database"
)

// Mine drains the pending pool and seals the next block in the chain:
// computes the reward, appends the reward transaction, performs the
// proof-of-work search seeded by the previous block's proof, and advances
// the chain head. The whole sequence holds the writer lock so a
// transaction can never be admitted between the pool snapshot and the
// block seal. An empty pool still produces a reward-only block.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Mine: MINING: started")
	defer s.evHandler("state: Mine: MINING: completed")

	trans := s.mempool.Copy()

	// The miner collects the base subsidy plus the slack every pending
	// transaction left between its inputs and outputs.
	reward := database.Credits(s.genesis.BaseReward)
	for _, tx := range trans {
		balance, err := tx.Balance(s.db)
		if err != nil {
			return database.Block{}, fmt.Errorf("pending transaction %s: %w", tx.Hash(), err)
		}
		reward += balance
	}

	height := s.db.Height() + 1

	rewardTx, err := database.NewTx(
		s.db,
		[]database.TxInput{database.NewRewardInput(height, reward)},
		[]database.TxOutput{database.NewSpendableOutput(reward, s.minerPublicKeyHash)},
		height+s.genesis.RewardMaturity,
	)
	if err != nil {
		return database.Block{}, fmt.Errorf("constructing reward transaction: %w", err)
	}

	s.evHandler("state: Mine: MINING: height[%d] txs[%d] reward[%d]", height, len(trans), reward)

	lastBlock := s.db.LatestBlock()
	proof, err := database.SearchProof(ctx, lastBlock.Proof, s.genesis.Difficulty, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	// The reward transaction is always the block's final transaction;
	// block height is derived from it.
	block := database.NewBlock(append(trans, rewardTx), proof, lastBlock.Hash())

	if err := s.db.ApplyBlock(block); err != nil {
		return database.Block{}, err
	}

	// The pool drains once the block is committed to the chain head; a
	// cancelled search leaves every pending transaction in place. The
	// truncate must not wait on the storage mirror: the block's
	// transactions are sealed and re-mining them could never apply.
	s.mempool.Truncate()

	if err := s.db.Write(block); err != nil {
		return database.Block{}, fmt.Errorf("mirroring block %s to storage: %w", block.Hash(), err)
	}

	s.evHandler("state: Mine: MINING: SOLVED: blk[%s] height[%d]", block.Hash(), height)
	s.publishPixelEvents(block, height)

	return block, nil
}

// publishPixelEvents surfaces every committed pixel purchase so a canvas
// viewer can repaint without replaying the chain.
func (s *State) publishPixelEvents(block database.Block, height uint64) {
	for _, tx := range block.Transactions {
		buyer, funded := tx.SpenderHash()
		if !funded {
			continue
		}

		for _, out := range tx.Outputs {
			if out.Kind != database.OutputToPixel {
				continue
			}

			s.evHandler("viewer: pixel: position[%d,%d] color[%d,%d,%d] owner[%s] value[%d] height[%d]",
				out.Position.X, out.Position.Y, out.Color.R, out.Color.G, out.Color.B, buyer, out.Value, height)
		}
	}
}
