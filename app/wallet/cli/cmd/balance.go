package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/placecoin/placecoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

type balance struct {
	Address     string           `json:"address"`
	Balance     database.Credits `json:"balance"`
	LatestBlock string           `json:"latest_block"`
	Uncommitted int              `json:"uncommitted"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	addr := walletAddress(privateKey)
	fmt.Println("For Address:", addr)

	resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/balance/%s", url, addr))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var bal balance
	if err := json.NewDecoder(resp.Body).Decode(&bal); err != nil {
		log.Fatal(err)
	}

	fmt.Println(bal.Balance)
}
