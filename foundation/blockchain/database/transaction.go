package database

import (
	"errors"
	"fmt"

	"github.com/placecoin/placecoin/foundation/blockchain/signature"
	"golang.org/x/crypto/sha3"
)

// CurrentVersion is the protocol version stamped into every transaction.
// The canonical encoding is frozen per version.
const CurrentVersion uint32 = 1

// Construction and admission failures. Each category is a sentinel so
// callers can react to the specific invariant that was violated.
var (
	ErrUnknownInput           = errors.New("input references an unknown transaction")
	ErrOutputIndexOutOfRange  = errors.New("input references an output index that does not exist")
	ErrOutputTypeMismatch     = errors.New("input references a pixel output, which is not spendable")
	ErrInsufficientInputValue = errors.New("transaction outputs exceed the value provided by its inputs")
	ErrInvalidValue           = errors.New("transaction values must be positive")
	ErrInvalidSignature       = errors.New("spend authorization failed")
	ErrDoubleSpend            = errors.New("output already spent or claimed by a pending transaction")
	ErrOutputLocked           = errors.New("output is locked until its maturity height")
)

// Credits represents an amount of currency carried by inputs and outputs.
type Credits int64

// Point identifies a pixel position on the shared canvas, relative to the
// canvas center.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Color is the RGB color recorded by a pixel purchase.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// =============================================================================

// InputKind tags the closed set of transaction input variants.
type InputKind byte

const (
	// InputFromOutput spends a specific prior transaction output.
	InputFromOutput InputKind = iota + 1

	// InputFromReward claims the mining reward for a block. It references
	// no prior output and is bound to the height of the block that minted it.
	InputFromReward
)

// TxInput is a tagged variant: a spend of a prior output or a block reward
// claim, discriminated by Kind. Consumers must switch on Kind exhaustively.
type TxInput struct {
	Kind InputKind `json:"kind"`

	// InputFromOutput fields.
	TxHash      Hash                `json:"tx_hash"`
	OutputIndex uint32              `json:"output_index"`
	PublicKey   []byte              `json:"public_key"`
	Signature   signature.Signature `json:"signature"`

	// InputFromReward fields.
	Height uint64  `json:"height"`
	Value  Credits `json:"value"`
}

// NewSpendInput constructs an input that consumes the output at the
// specified index of a prior transaction. The signature must authorize
// exactly that output reference.
func NewSpendInput(txHash Hash, outputIndex uint32, publicKey []byte, sig signature.Signature) TxInput {
	return TxInput{
		Kind:        InputFromOutput,
		TxHash:      txHash,
		OutputIndex: outputIndex,
		PublicKey:   publicKey,
		Signature:   sig,
	}
}

// NewRewardInput constructs a miner's reward claim bound to the specified
// block height.
func NewRewardInput(height uint64, value Credits) TxInput {
	return TxInput{
		Kind:   InputFromReward,
		Height: height,
		Value:  value,
	}
}

// OutPoint identifies a single output of a committed transaction. It is the
// unit of spending: each outpoint can be consumed exactly once.
type OutPoint struct {
	TxHash Hash   `json:"tx_hash"`
	Index  uint32 `json:"index"`
}

// OutPoint returns the output reference consumed by a spend input.
func (in TxInput) OutPoint() OutPoint {
	return OutPoint{TxHash: in.TxHash, Index: in.OutputIndex}
}

// =============================================================================

// OutputKind tags the closed set of transaction output variants.
type OutputKind byte

const (
	// OutputToInput assigns a spendable balance to a public key hash.
	OutputToInput OutputKind = iota + 1

	// OutputToPixel records a pixel purchase. The value is burned: pixel
	// outputs can never be consumed as a future input.
	OutputToPixel
)

// TxOutput is a tagged variant: a spendable balance or a pixel purchase,
// discriminated by Kind.
type TxOutput struct {
	Kind  OutputKind `json:"kind"`
	Value Credits    `json:"value"`

	// OutputToInput fields.
	PublicKeyHash Hash `json:"public_key_hash"`

	// OutputToPixel fields.
	Position Point `json:"position"`
	Color    Color `json:"color"`
}

// NewSpendableOutput constructs an output paying the specified public key hash.
func NewSpendableOutput(value Credits, publicKeyHash Hash) TxOutput {
	return TxOutput{
		Kind:          OutputToInput,
		Value:         value,
		PublicKeyHash: publicKeyHash,
	}
}

// NewPixelOutput constructs an output purchasing a pixel at the specified
// position for the specified price.
func NewPixelOutput(value Credits, position Point, color Color) TxOutput {
	return TxOutput{
		Kind:     OutputToPixel,
		Value:    value,
		Position: position,
		Color:    color,
	}
}

// =============================================================================

// TransactionFinder looks up a committed transaction by its hash. The
// database implements this interface; transaction construction uses it to
// resolve the outputs its inputs reference.
type TransactionFinder interface {
	FindTransaction(hash Hash) (Transaction, bool)
}

// Transaction is an immutable, hash-identified unit combining a set of
// spends with a set of new balances. Identity is the SHA3-256 digest of the
// canonical encoding; any mutation would change the identity.
type Transaction struct {
	Version  uint32     `json:"version"`
	Inputs   []TxInput  `json:"inputs"`
	Outputs  []TxOutput `json:"outputs"`
	LockTime uint64     `json:"lock_time"`
}

// NewTx constructs a transaction after validating that every referenced
// output exists, is spendable currency, and that the inputs cover the
// outputs. A transaction that would overdraw its inputs is never created.
func NewTx(finder TransactionFinder, inputs []TxInput, outputs []TxOutput, lockTime uint64) (Transaction, error) {
	tx := Transaction{
		Version:  CurrentVersion,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: lockTime,
	}

	if err := tx.ValidateValues(); err != nil {
		return Transaction{}, err
	}

	balance, err := tx.Balance(finder)
	if err != nil {
		return Transaction{}, err
	}
	if balance < 0 {
		return Transaction{}, fmt.Errorf("short by %d credits: %w", -balance, ErrInsufficientInputValue)
	}

	return tx, nil
}

// ValidateValues rejects any output assigning a non-positive value and any
// reward input declaring a negative value. Without this check a transaction
// with no inputs and a negative output would clear the balance check and
// print a negative balance onto the chain.
func (tx Transaction) ValidateValues() error {
	for i, in := range tx.Inputs {
		if in.Kind == InputFromReward && in.Value < 0 {
			return fmt.Errorf("input %d declares %d credits: %w", i, in.Value, ErrInvalidValue)
		}
	}

	for i, out := range tx.Outputs {
		if out.Value <= 0 {
			return fmt.Errorf("output %d assigns %d credits: %w", i, out.Value, ErrInvalidValue)
		}
	}

	return nil
}

// InputValue resolves and sums the value provided by every input. Reward
// inputs are self certifying and contribute their declared value; spend
// inputs contribute the value of the output they reference.
func (tx Transaction) InputValue(finder TransactionFinder) (Credits, error) {
	var total Credits

	for _, in := range tx.Inputs {
		switch in.Kind {
		case InputFromReward:
			total += in.Value

		case InputFromOutput:
			prev, exists := finder.FindTransaction(in.TxHash)
			if !exists {
				return 0, fmt.Errorf("transaction %s: %w", in.TxHash, ErrUnknownInput)
			}
			if int(in.OutputIndex) >= len(prev.Outputs) {
				return 0, fmt.Errorf("transaction %s output %d: %w", in.TxHash, in.OutputIndex, ErrOutputIndexOutOfRange)
			}

			out := prev.Outputs[in.OutputIndex]
			if out.Kind != OutputToInput {
				return 0, fmt.Errorf("transaction %s output %d: %w", in.TxHash, in.OutputIndex, ErrOutputTypeMismatch)
			}
			total += out.Value

		default:
			return 0, fmt.Errorf("unknown input kind %d", in.Kind)
		}
	}

	return total, nil
}

// OutputValue sums the value assigned by every output. Spendable and pixel
// outputs draw from the same balance.
func (tx Transaction) OutputValue() Credits {
	var total Credits
	for _, out := range tx.Outputs {
		total += out.Value
	}
	return total
}

// Balance returns the slack between input and output value. The miner of
// the block that commits this transaction collects the slack.
func (tx Transaction) Balance(finder TransactionFinder) (Credits, error) {
	in, err := tx.InputValue(finder)
	if err != nil {
		return 0, err
	}
	return in - tx.OutputValue(), nil
}

// VerifySpends checks the authorization of every spend input: the carried
// public key must hash to the owner of the referenced output and the
// signature must verify against that key. Construction alone is never
// trusted as proof of authorization.
func (tx Transaction) VerifySpends(finder TransactionFinder) error {
	for i, in := range tx.Inputs {
		if in.Kind != InputFromOutput {
			continue
		}

		prev, exists := finder.FindTransaction(in.TxHash)
		if !exists {
			return fmt.Errorf("input %d: transaction %s: %w", i, in.TxHash, ErrUnknownInput)
		}
		if int(in.OutputIndex) >= len(prev.Outputs) {
			return fmt.Errorf("input %d: output %d: %w", i, in.OutputIndex, ErrOutputIndexOutOfRange)
		}

		if PublicKeyHash(in.PublicKey) != prev.Outputs[in.OutputIndex].PublicKeyHash {
			return fmt.Errorf("input %d: public key does not own the referenced output: %w", i, ErrInvalidSignature)
		}

		digest := signature.SpendDigest(in.TxHash, in.OutputIndex, in.PublicKey)
		if !signature.Verify(in.PublicKey, digest, in.Signature) {
			return fmt.Errorf("input %d: %w", i, ErrInvalidSignature)
		}
	}

	return nil
}

// RewardInput returns the reward claim carried by this transaction, if any.
func (tx Transaction) RewardInput() (TxInput, bool) {
	for _, in := range tx.Inputs {
		if in.Kind == InputFromReward {
			return in, true
		}
	}
	return TxInput{}, false
}

// SpenderHash returns the public key hash of the first spend input. This
// identifies the party funding the transaction, which for pixel purchases
// is the buyer.
func (tx Transaction) SpenderHash() (Hash, bool) {
	for _, in := range tx.Inputs {
		if in.Kind == InputFromOutput {
			return PublicKeyHash(in.PublicKey), true
		}
	}
	return Hash{}, false
}

// Hash returns the permanent identity of the transaction, computed over the
// canonical encoding of its fields in declaration order.
func (tx Transaction) Hash() Hash {
	hasher := sha3.New256()

	writeUint32(hasher, tx.Version)

	for _, in := range tx.Inputs {
		hasher.Write([]byte{byte(in.Kind)})
		switch in.Kind {
		case InputFromOutput:
			hasher.Write(in.TxHash[:])
			writeUint32(hasher, in.OutputIndex)
			hasher.Write(in.PublicKey)
			hasher.Write(in.Signature[:])
		case InputFromReward:
			writeUint64(hasher, in.Height)
			writeUint64(hasher, uint64(in.Value))
		}
	}

	for _, out := range tx.Outputs {
		hasher.Write([]byte{byte(out.Kind)})
		writeUint64(hasher, uint64(out.Value))
		switch out.Kind {
		case OutputToInput:
			hasher.Write(out.PublicKeyHash[:])
		case OutputToPixel:
			writeUint32(hasher, uint32(out.Position.X))
			writeUint32(hasher, uint32(out.Position.Y))
			hasher.Write([]byte{out.Color.R, out.Color.G, out.Color.B})
		}
	}

	writeUint64(hasher, tx.LockTime)

	var h Hash
	copy(h[:], hasher.Sum(nil))

	return h
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s:%d/%d", tx.Hash(), len(tx.Inputs), len(tx.Outputs))
}
