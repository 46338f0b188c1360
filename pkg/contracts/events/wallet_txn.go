package events

// Evento publicado no tópico "wallet_txn" após depósito ou saque
type WalletTxn struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	TxID        string `json:"tx_id"`
	Type        string `json:"type"`      // "deposit" | "withdraw"
	Direction   string `json:"direction"` // "credit" | "debit"
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method,omitempty"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
