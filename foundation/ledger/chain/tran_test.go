package chain_test

import (
	"testing"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_TransactionID(t *testing.T) {
	t.Log("Given the need to fingerprint transactions by content.")
	{
		t.Logf("\tTest 0:\tWhen constructing a transfer.")
		{
			tx := chain.NewTx("bill", "pavel", 25, 0, chain.TxTypeTransfer)

			exp := signature.Hash(struct {
				Sender    string  `json:"sender"`
				Recipient string  `json:"recipient"`
				Amount    float64 `json:"amount"`
				TimeStamp uint64  `json:"timestamp"`
				DataValue float64 `json:"data_value"`
			}{tx.Sender, tx.Recipient, tx.Amount, tx.TimeStamp, tx.DataValue})

			if tx.ID != exp {
				t.Logf("\t\tgot: %s", tx.ID)
				t.Logf("\t\texp: %s", exp)
				t.Fatalf("\t%s\tTest 0:\tShould compute the id over the content.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould compute the id over the content.", success)

			if len(tx.ID) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould produce a 64 hex character id: got %d", failed, len(tx.ID))
			}
			t.Logf("\t%s\tTest 0:\tShould produce a 64 hex character id.", success)
		}

		t.Logf("\tTest 1:\tWhen the kind differs but the content does not.")
		{
			tx := chain.NewTx("bill", "pavel", 25, 0, chain.TxTypeTransfer)
			other := tx
			other.Kind = chain.TxTypeSharePurchase

			exp := signature.Hash(struct {
				Sender    string  `json:"sender"`
				Recipient string  `json:"recipient"`
				Amount    float64 `json:"amount"`
				TimeStamp uint64  `json:"timestamp"`
				DataValue float64 `json:"data_value"`
			}{other.Sender, other.Recipient, other.Amount, other.TimeStamp, other.DataValue})

			if exp != tx.ID {
				t.Fatalf("\t%s\tTest 1:\tShould keep the kind out of the id.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the kind out of the id.", success)
		}
	}
}

func Test_TransactionValidation(t *testing.T) {
	type table struct {
		name string
		tx   chain.Tx
		ok   bool
	}

	tt := []table{
		{"transfer", chain.NewTx("bill", "pavel", 25, 0, chain.TxTypeTransfer), true},
		{"zero_amount", chain.NewTx("bill", "pavel", 0, 0, chain.TxTypeTransfer), true},
		{"negative_amount", chain.NewTx("bill", "pavel", -5, 0, chain.TxTypeTransfer), false},
		{"self_pay", chain.NewTx("bill", "bill", 25, 0, chain.TxTypeTransfer), false},
		{"genesis", chain.NewTx(chain.GenesisAccount, chain.SystemAccount, 0, 0, chain.TxTypeGenesis), true},
	}

	t.Log("Given the need to validate transactions structurally.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s case.", testID, tst.name)
				{
					if got := tst.tx.IsValid(); got != tst.ok {
						t.Fatalf("\t%s\tTest %d:\tShould get %v from IsValid: got %v", failed, testID, tst.ok, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v from IsValid.", success, testID, tst.ok)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Submission(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould generate a private key: %s", failed, err)
	}

	account := signature.Address(privateKey.PublicKey)

	t.Log("Given the need to hold submissions to their signer.")
	{
		t.Logf("\tTest 0:\tWhen the declared sender signed the submission.")
		{
			sub := chain.Submission{
				Sender:    account,
				Recipient: "pavel",
				Amount:    25,
			}

			sig, err := sub.Sign(privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould sign the submission: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould sign the submission.", success)

			if err := sub.VerifySender(sig); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould verify the sender: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould verify the sender.", success)
		}

		t.Logf("\tTest 1:\tWhen the declared sender is not the signer.")
		{
			sub := chain.Submission{
				Sender:    account,
				Recipient: "pavel",
				Amount:    25,
			}

			sig, err := sub.Sign(privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould sign the submission: %s", failed, err)
			}

			sub.Sender = "mallory"
			if err := sub.VerifySender(sig); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a sender who did not sign.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a sender who did not sign.", success)
		}

		t.Logf("\tTest 2:\tWhen stamping a submission into a transaction.")
		{
			sub := chain.Submission{
				Sender:    account,
				Recipient: "pavel",
				Amount:    25,
			}

			tx := sub.ToTx()
			if tx.Kind != chain.TxTypeTransfer {
				t.Fatalf("\t%s\tTest 2:\tShould default the kind to transfer: got %q", failed, tx.Kind)
			}
			t.Logf("\t%s\tTest 2:\tShould default the kind to transfer.", success)

			if tx.ID == "" || tx.TimeStamp == 0 {
				t.Fatalf("\t%s\tTest 2:\tShould stamp an id and a time.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould stamp an id and a time.", success)
		}
	}
}
