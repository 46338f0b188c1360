package topics

const (
	// Apostas liquidadas
	BetPlaced = "bet_placed"

	// Movimentos de carteira (depósito/saque)
	WalletTxn = "wallet_txn"
)
