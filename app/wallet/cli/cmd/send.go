package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a signed transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient account.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	if to == "" {
		log.Fatal("a recipient account is required")
	}

	// The node accepts what it is given; holding the sender to their
	// derived balance is the wallet's job.
	account := signature.Address(privateKey.PublicKey)
	bal, err := queryBalance(account)
	if err != nil {
		log.Fatal(err)
	}
	if amount > bal {
		log.Fatalf("insufficient funds: balance %g, sending %g", bal, amount)
	}

	submit(privateKey, chain.Submission{
		Sender:    account,
		Recipient: to,
		Amount:    amount,
	})
}

// submit signs the submission and posts it to the node.
func submit(privateKey *ecdsa.PrivateKey, sub chain.Submission) {
	sig, err := sub.Sign(privateKey)
	if err != nil {
		log.Fatal(err)
	}

	payload := struct {
		chain.Submission
		Signature string `json:"signature"`
	}{
		Submission: sub,
		Signature:  sig,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
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
