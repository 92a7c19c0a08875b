package worker_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/database/storage"
	"github.com/placecoin/placecoin/foundation/blockchain/genesis"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
	"github.com/placecoin/placecoin/foundation/blockchain/state"
	"github.com/placecoin/placecoin/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_BackgroundMining(t *testing.T) {
	minerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate the miner key: %v", failed, err)
	}
	miner := database.PublicKeyHash(signature.PublicKeyBytes(minerKey))

	strg, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct memory storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		MinerPublicKeyHash: miner,
		Genesis: genesis.Genesis{
			Date:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			ChainID:    1,
			Difficulty: 1,
			BaseReward: 1000,
		},
		Storage: strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}
	defer st.Shutdown()

	t.Log("Given the need to mine blocks from a background goroutine.")
	{
		t.Logf("\tTest 0:\tWhen signalling the worker to start mining.")
		{
			worker.Run(st, nil)

			if st.Worker == nil {
				t.Fatalf("\t%s\tTest 0:\tShould register the worker with the state.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould register the worker with the state.", success)

			st.Worker.SignalStartMining()

			deadline := time.Now().Add(10 * time.Second)
			for st.QueryHeight() < 1 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould seal a block within the deadline.", failed)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 0:\tShould seal a block within the deadline.", success)

			if bal := st.QueryBalance(miner); bal < 1000 {
				t.Errorf("\t%s\tTest 0:\tShould credit the miner at least one reward, got %d.", failed, bal)
			} else {
				t.Logf("\t%s\tTest 0:\tShould credit the miner at least one reward.", success)
			}
		}
	}
}
