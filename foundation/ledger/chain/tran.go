package chain

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/signature"
)

// Set of transaction kinds the chain records.
const (
	TxTypeTransfer       = "transfer"
	TxTypeMiningReward   = "mining_reward"
	TxTypeDataConversion = "data_conversion"
	TxTypeSharePurchase  = "share_purchase"
	TxTypeGenesis        = "genesis"
)

// Accounts the chain books its own transactions against.
const (
	GenesisAccount     = "genesis"
	SystemAccount      = "system"
	DataNetworkAccount = "data_network"
)

// =============================================================================

// Tx is an atomic transfer of value between two accounts. Once a
// transaction is sealed into a block none of these fields can change
// without breaking the chain's hashes.
type Tx struct {
	ID        string  `json:"tx_id"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	DataValue float64 `json:"data_value"`
	Kind      string  `json:"tx_type"`
	TimeStamp uint64  `json:"timestamp"`
}

// txContent is the canonical serialization a transaction id is computed
// over. The kind is intentionally not part of it.
type txContent struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	TimeStamp uint64  `json:"timestamp"`
	DataValue float64 `json:"data_value"`
}

// NewTx constructs a transaction stamped with the current time and a
// content hash id. The id fingerprints the content; two transactions
// built from the same fields in the same second share one.
func NewTx(sender string, recipient string, amount float64, dataValue float64, kind string) Tx {
	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		DataValue: dataValue,
		Kind:      kind,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}
	tx.ID = tx.contentID()

	return tx
}

// contentID computes the hash that identifies this transaction.
func (tx Tx) contentID() string {
	content := txContent{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
		DataValue: tx.DataValue,
	}

	return signature.Hash(content)
}

// IsValid performs the structural checks a transaction must pass before
// it can be queued. Covering funds is not one of them; the chain accepts
// transactions the sender cannot pay for and lets the derived balance
// go negative.
func (tx Tx) IsValid() bool {
	if tx.Amount < 0 {
		return false
	}

	if tx.Sender == tx.Recipient {
		return false
	}

	return true
}

// =============================================================================

// Submission is the transaction content a wallet proposes before the
// chain stamps it with a time and an id. Wallets sign exactly this
// shape, so a node running with verification on can recover the signing
// address and hold it against the declared sender.
type Submission struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	DataValue float64 `json:"data_value"`
	Kind      string  `json:"tx_type"`
}

// Sign produces the wallet signature over the submission content.
func (sub Submission) Sign(privateKey *ecdsa.PrivateKey) (string, error) {
	return signature.Sign(sub, privateKey)
}

// VerifySender recovers the address that signed the submission and
// confirms it matches the declared sender.
func (sub Submission) VerifySender(sig string) error {
	address, err := signature.RecoverAddress(sub, sig)
	if err != nil {
		return err
	}

	if address != sub.Sender {
		return fmt.Errorf("submission signed by %s, not the declared sender", address)
	}

	return nil
}

// ToTx stamps the submission into a transaction. A submission without a
// kind becomes a plain transfer.
func (sub Submission) ToTx() Tx {
	kind := sub.Kind
	if kind == "" {
		kind = TxTypeTransfer
	}

	return NewTx(sub.Sender, sub.Recipient, sub.Amount, sub.DataValue, kind)
}
