package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Account string  `json:"account"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type balances struct {
	LastestBlock string    `json:"lastest_block"`
	Uncommitted  int       `json:"uncommitted"`
	Balances     []balance `json:"balances"`
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

	account := signature.Address(privateKey.PublicKey)
	fmt.Println("For Account:", account)

	bal, err := queryBalance(account)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(bal)
}

// queryBalance asks the node for the derived balance of one account.
func queryBalance(account string) (float64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, account))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("node returned %s", resp.Status)
	}

	var balances balances
	if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
		return 0, err
	}

	if len(balances.Balances) == 0 {
		return 0, nil
	}

	return balances.Balances[0].Balance, nil
}
