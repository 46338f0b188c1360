package events

// Evento publicado no tópico "bet_placed" após a liquidação do bilhete
type BetPlaced struct {
	SessionID    string  `json:"session_id"`
	UserID       string  `json:"user_id"`
	BetID        string  `json:"bet_id"`
	StakeCents   int64   `json:"stake_cents"`
	CombinedOdds float64 `json:"combined_odds"`
	Legs         int     `json:"legs"`
	TsUnixMs     int64   `json:"ts_unix_ms"`
}
