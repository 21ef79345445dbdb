package public

// tx is the wire form of a chain transaction, decorated with the
// friendly names the nameservice knows about.
type tx struct {
	ID            string  `json:"tx_id"`
	Sender        string  `json:"sender"`
	SenderName    string  `json:"sender_name"`
	Recipient     string  `json:"recipient"`
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	DataValue     float64 `json:"data_value"`
	Kind          string  `json:"tx_type"`
	TimeStamp     uint64  `json:"timestamp"`
}

// block is the wire form of a sealed block.
type block struct {
	Index        uint64 `json:"index"`
	Transactions []tx   `json:"transactions"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Hash         string `json:"hash"`
}

// balance carries the derived balance of one account.
type balance struct {
	Account string  `json:"account"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// actInfo wraps the balance list with the chain position it was
// derived at.
type actInfo struct {
	LastestBlock string    `json:"lastest_block"`
	Uncommitted  int       `json:"uncommitted"`
	Balances     []balance `json:"balances"`
}

// submitTx is what a wallet posts to queue a transaction. The signature
// is only inspected when the node runs with submission verification on.
type submitTx struct {
	Sender    string  `json:"sender" validate:"required"`
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount"`
	DataValue float64 `json:"data_value"`
	Kind      string  `json:"tx_type"`
	Signature string  `json:"signature"`
}

// sharesInfo reports the corporate share ledger.
type sharesInfo struct {
	Shares     map[string]int `json:"corporate_shares"`
	Total      int            `json:"total_shares"`
	SharePrice float64        `json:"share_price"`
}

// buySharesRequest is what a buyer posts to purchase corporate shares.
type buySharesRequest struct {
	Entity string `json:"entity" validate:"required"`
	Count  int    `json:"count" validate:"required,gt=0"`
	Buyer  string `json:"buyer" validate:"required"`
}

// addSourceRequest registers a new data source with the converter.
type addSourceRequest struct {
	ID     string  `json:"source_id" validate:"required"`
	Type   string  `json:"source_type" validate:"required,oneof=web api rss social"`
	URL    string  `json:"url" validate:"required,url"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// collectRequest asks the converter to pull one source now.
type collectRequest struct {
	SourceID  string `json:"source_id" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
}

// convertRequest mints currency for data measured outside the engine.
type convertRequest struct {
	DataSizeMB float64 `json:"data_size_mb" validate:"required,gt=0"`
	Recipient  string  `json:"recipient" validate:"required"`
}

// autoConvertRequest starts the automatic collection loop.
type autoConvertRequest struct {
	Recipient       string `json:"recipient" validate:"required"`
	IntervalSeconds int    `json:"interval_seconds" validate:"omitempty,gte=1"`
}
