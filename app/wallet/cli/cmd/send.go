package cmd

import (
	"crypto/ecdsa"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/address"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	to    string
	value int64
	tax   int64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a payment",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		if err := sendWithDetails(privateKey); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Int64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.Flags().Int64VarP(&tax, "tax", "c", 0, "Tax left for the miner.")
}

func sendWithDetails(privateKey *ecdsa.PrivateKey) error {
	recipient, err := address.Parse(to).PublicKeyHash()
	if err != nil {
		return fmt.Errorf("recipient address %q: %w", to, err)
	}

	target := database.Credits(value + tax)
	inputs, total, err := fundAndSign(privateKey, target)
	if err != nil {
		return err
	}

	sender := database.PublicKeyHash(walletPublicKey(privateKey))

	outputs := []database.TxOutput{database.NewSpendableOutput(database.Credits(value), recipient)}
	if change := total - target; change > 0 {
		outputs = append(outputs, database.NewSpendableOutput(change, sender))
	}

	tx := database.Transaction{
		Version: database.CurrentVersion,
		Inputs:  inputs,
		Outputs: outputs,
	}

	if err := submitTransaction(tx); err != nil {
		return err
	}

	fmt.Println("submitted:", tx.Hash())
	return nil
}
