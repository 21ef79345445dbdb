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
	sizeMB    float64
	recipient string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert collected data into currency",
	Run:   convertRun,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Float64VarP(&sizeMB, "size-mb", "s", 0, "Megabytes of data to convert.")
	convertCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Account to credit. Defaults to the wallet account.")
}

func convertRun(cmd *cobra.Command, args []string) {
	if recipient == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		recipient = signature.Address(privateKey.PublicKey)
	}

	req := struct {
		DataSizeMB float64 `json:"data_size_mb"`
		Recipient  string  `json:"recipient"`
	}{
		DataSizeMB: sizeMB,
		Recipient:  recipient,
	}

	data, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/converter/convert", url), "application/json", bytes.NewBuffer(data))
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
