package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"` // mock: aceito e ignorado
}

type AddSelectionRequest struct {
	FixtureID string  `json:"fixtureId"`
	Market    string  `json:"market"`    // ex: "moneyline"
	Selection string  `json:"selection"` // ex: "Arsenal"
	Odds      float64 `json:"odds"`      // odd que o cliente viu
}

type PlaceBetRequest struct {
	StakeCents int64 `json:"stake_cents"`
}

type DepositRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"` // "upi" | "card" | "netbanking"
}

type WithdrawRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"` // "upi" | "bank"
}

type KYCRequest struct {
	PAN  string `json:"pan"`
	Name string `json:"name"`
}
