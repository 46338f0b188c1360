package dto

import (
	"github.com/radieske/predictplay-poc/internal/betslip"
	"github.com/radieske/predictplay-poc/internal/wallet"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// dica de navegação pra UI, ex: "/wallet" quando falta saldo
	Redirect string `json:"redirect,omitempty"`
}

type SlipResponse struct {
	Selections      []betslip.Selection `json:"selections"`
	CombinedOdds    float64             `json:"combinedOdds"`
	StakeCents      int64               `json:"stake_cents"`
	PotentialReturn float64             `json:"potential_return"`
}

type PlaceBetResponse struct {
	BetID           string  `json:"betId"`
	Status          string  `json:"status"` // PLACED
	NewBalanceCents int64   `json:"new_balance"`
	CombinedOdds    float64 `json:"combined_odds"`
}

type TxnResponse struct {
	Tx              wallet.TransactionRecord `json:"tx"`
	NewBalanceCents int64                    `json:"new_balance"`
}
