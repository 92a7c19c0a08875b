package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/placecoin/placecoin/app/services/node/handlers"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/database/storage"
	"github.com/placecoin/placecoin/foundation/blockchain/genesis"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
	"github.com/placecoin/placecoin/foundation/blockchain/state"
	"github.com/placecoin/placecoin/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// newTestMux constructs the public mux over a fresh in-memory ledger.
func newTestMux(t *testing.T) http.Handler {
	t.Helper()

	strg, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct memory storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		MinerPublicKeyHash: database.Hash{1},
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
	t.Cleanup(func() { st.Shutdown() })

	evts := events.New()
	t.Cleanup(evts.Shutdown)

	return handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     evts,
	})
}

func Test_SubmitTransactionValidation(t *testing.T) {
	mux := newTestMux(t)

	t.Log("Given the need to validate raw transaction submissions.")
	{
		t.Logf("\tTest 0:\tWhen the payload is missing its inputs and outputs.")
		{
			r := httptest.NewRequest(http.MethodPost, "/v1/tx/submit", strings.NewReader(`{"version":1}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("\t%s\tTest 0:\tShould respond with 400, got %d.", failed, w.Code)
			} else {
				t.Logf("\t%s\tTest 0:\tShould respond with 400.", success)
			}

			if !strings.Contains(w.Body.String(), "data validation error") {
				t.Errorf("\t%s\tTest 0:\tShould report the field errors, got %q.", failed, w.Body.String())
			} else {
				t.Logf("\t%s\tTest 0:\tShould report the field errors.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen a well formed payload references an unknown output.")
		{
			var missing database.Hash
			missing[0] = 0xFF

			tx := database.Transaction{
				Version: database.CurrentVersion,
				Inputs:  []database.TxInput{database.NewSpendInput(missing, 0, []byte{0x02}, signature.Signature{})},
				Outputs: []database.TxOutput{database.NewSpendableOutput(1, database.Hash{2})},
			}

			payload, err := json.Marshal(tx)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to marshal the payload: %v", failed, err)
			}

			r := httptest.NewRequest(http.MethodPost, "/v1/tx/submit", bytes.NewReader(payload))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("\t%s\tTest 1:\tShould respond with 400, got %d.", failed, w.Code)
			} else {
				t.Logf("\t%s\tTest 1:\tShould respond with 400.", success)
			}

			if !strings.Contains(w.Body.String(), "unknown transaction") {
				t.Errorf("\t%s\tTest 1:\tShould report the rejection reason, got %q.", failed, w.Body.String())
			} else {
				t.Logf("\t%s\tTest 1:\tShould report the rejection reason.", success)
			}
		}
	}
}
