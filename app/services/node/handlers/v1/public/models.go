package public

import (
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/placecoin/placecoin/foundation/blockchain/signature"
)

// newTxInput and newTx carry the validate tags a raw submission is checked
// against before the transaction enters the admission path.
type newTxInput struct {
	Kind        database.InputKind  `json:"kind" validate:"required"`
	TxHash      database.Hash       `json:"tx_hash"`
	OutputIndex uint32              `json:"output_index"`
	PublicKey   []byte              `json:"public_key"`
	Signature   signature.Signature `json:"signature"`
	Height      uint64              `json:"height"`
	Value       database.Credits    `json:"value"`
}

type newTxOutput struct {
	Kind          database.OutputKind `json:"kind" validate:"required"`
	Value         database.Credits    `json:"value" validate:"required,gt=0"`
	PublicKeyHash database.Hash       `json:"public_key_hash"`
	Position      database.Point      `json:"position"`
	Color         database.Color      `json:"color"`
}

type newTx struct {
	Version  uint32        `json:"version" validate:"required"`
	Inputs   []newTxInput  `json:"inputs" validate:"required,min=1,dive"`
	Outputs  []newTxOutput `json:"outputs" validate:"required,min=1,dive"`
	LockTime uint64        `json:"lock_time"`
}

func toDatabaseTx(app newTx) database.Transaction {
	inputs := make([]database.TxInput, len(app.Inputs))
	for i, in := range app.Inputs {
		inputs[i] = database.TxInput{
			Kind:        in.Kind,
			TxHash:      in.TxHash,
			OutputIndex: in.OutputIndex,
			PublicKey:   in.PublicKey,
			Signature:   in.Signature,
			Height:      in.Height,
			Value:       in.Value,
		}
	}

	outputs := make([]database.TxOutput, len(app.Outputs))
	for i, out := range app.Outputs {
		outputs[i] = database.TxOutput{
			Kind:          out.Kind,
			Value:         out.Value,
			PublicKeyHash: out.PublicKeyHash,
			Position:      out.Position,
			Color:         out.Color,
		}
	}

	return database.Transaction{
		Version:  app.Version,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: app.LockTime,
	}
}

type tx struct {
	Hash     string              `json:"hash"`
	Inputs   []database.TxInput  `json:"inputs"`
	Outputs  []database.TxOutput `json:"outputs"`
	LockTime uint64              `json:"lock_time"`
}

type block struct {
	Hash         string `json:"hash"`
	PrevHash     string `json:"prev_hash,omitempty"`
	Height       uint64 `json:"height"`
	Timestamp    int64  `json:"timestamp"`
	Proof        uint64 `json:"proof"`
	Transactions []tx   `json:"transactions"`
}

type balance struct {
	Address     string           `json:"address"`
	Balance     database.Credits `json:"balance"`
	LatestBlock string           `json:"latest_block"`
	Uncommitted int              `json:"uncommitted"`
}

type unspent struct {
	TxHash   string           `json:"tx_hash"`
	Index    uint32           `json:"index"`
	Value    database.Credits `json:"value"`
	LockTime uint64           `json:"lock_time"`
}

type pixel struct {
	Position database.Point   `json:"position"`
	Color    database.Color   `json:"color"`
	Owner    string           `json:"owner"`
	Value    database.Credits `json:"value"`
	Height   uint64           `json:"height"`
}

type pixelCost struct {
	Position database.Point   `json:"position"`
	Cost     database.Credits `json:"cost"`
	Height   uint64           `json:"height"`
}

func toTx(dbTx database.Transaction) tx {
	return tx{
		Hash:     dbTx.Hash().String(),
		Inputs:   dbTx.Inputs,
		Outputs:  dbTx.Outputs,
		LockTime: dbTx.LockTime,
	}
}

func toBlock(dbBlock database.Block) block {
	trans := make([]tx, len(dbBlock.Transactions))
	for i, dbTx := range dbBlock.Transactions {
		trans[i] = toTx(dbTx)
	}

	height, _ := dbBlock.Height()

	b := block{
		Hash:         dbBlock.Hash().String(),
		Height:       height,
		Timestamp:    dbBlock.Timestamp,
		Proof:        dbBlock.Proof,
		Transactions: trans,
	}
	if dbBlock.PrevHash != nil {
		b.PrevHash = dbBlock.PrevHash.String()
	}

	return b
}
