package cmd

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	pixelX int32
	pixelY int32
	red    uint8
	green  uint8
	blue   uint8
)

// paintCmd represents the paint command
var paintCmd = &cobra.Command{
	Use:   "paint",
	Short: "Buy a pixel on the canvas",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		if err := paintWithDetails(privateKey); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(paintCmd)
	paintCmd.Flags().Int32VarP(&pixelX, "x", "x", 0, "X position of the pixel, relative to the canvas center.")
	paintCmd.Flags().Int32VarP(&pixelY, "y", "y", 0, "Y position of the pixel, relative to the canvas center.")
	paintCmd.Flags().Uint8Var(&red, "red", 0, "Red channel of the color.")
	paintCmd.Flags().Uint8Var(&green, "green", 0, "Green channel of the color.")
	paintCmd.Flags().Uint8Var(&blue, "blue", 0, "Blue channel of the color.")
}

func paintWithDetails(privateKey *ecdsa.PrivateKey) error {
	addr := walletAddress(privateKey)
	position := database.Point{X: pixelX, Y: pixelY}

	cost, err := nodePixelCost(addr, position)
	if err != nil {
		return err
	}
	fmt.Printf("pixel (%d,%d) costs %d credits\n", position.X, position.Y, cost)

	inputs, total, err := fundAndSign(privateKey, cost)
	if err != nil {
		return err
	}

	buyer := database.PublicKeyHash(walletPublicKey(privateKey))
	color := database.Color{R: red, G: green, B: blue}

	outputs := []database.TxOutput{database.NewPixelOutput(cost, position, color)}
	if change := total - cost; change > 0 {
		outputs = append(outputs, database.NewSpendableOutput(change, buyer))
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

// nodePixelCost asks the node what this wallet would pay for the pixel at
// the current height. The price can rise before the purchase commits if
// another buyer gets in first.
func nodePixelCost(addr string, position database.Point) (database.Credits, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/pixels/cost/%s/%d/%d", url, addr, position.X, position.Y))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("node returned status %s", resp.Status)
	}

	var cost struct {
		Cost database.Credits `json:"cost"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cost); err != nil {
		return 0, err
	}

	return cost.Cost, nil
}
