package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	entity string
	count  int
)

var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Print the corporate share ledger",
	Run:   sharesRun,
}

var sharesBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy corporate shares with wallet funds",
	Run:   sharesBuyRun,
}

func init() {
	rootCmd.AddCommand(sharesCmd)
	sharesCmd.AddCommand(sharesBuyCmd)
	sharesBuyCmd.Flags().StringVarP(&entity, "entity", "e", "", "Corporate entity to buy shares in.")
	sharesBuyCmd.Flags().IntVarP(&count, "count", "c", 0, "Number of shares to buy.")
}

func sharesRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/shares/list", url))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	var info struct {
		Shares     map[string]int `json:"corporate_shares"`
		Total      int            `json:"total_shares"`
		SharePrice float64        `json:"share_price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Share Price:", info.SharePrice)
	fmt.Println("Total Shares:", info.Total)
	for ent, shares := range info.Shares {
		fmt.Printf("Entity: %s  Shares: %d\n", ent, shares)
	}
}

func sharesBuyRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	req := struct {
		Entity string `json:"entity"`
		Count  int    `json:"count"`
		Buyer  string `json:"buyer"`
	}{
		Entity: entity,
		Count:  count,
		Buyer:  signature.Address(privateKey.PublicKey),
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/shares/buy", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node returned %s: %s", resp.Status, body)
	}

	fmt.Printf("%s\n", body)
}
