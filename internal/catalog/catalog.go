package catalog

import (
	"strings"
	"time"
)

// Mercados disponíveis por fixture
const (
	MarketMoneyline = "moneyline"
	MarketOverUnder = "overunder"
)

// Outcome é um resultado precificado dentro de um mercado
type Outcome struct {
	Key  string  `json:"key"`
	Odds float64 `json:"odds"`
}

// Fixture é um evento esportivo com seus mercados cotados.
// Dados estáticos do demo: nunca mutados em runtime.
type Fixture struct {
	ID      string               `json:"id"`
	Sport   string               `json:"sport"`
	League  string               `json:"league"`
	Kickoff time.Time            `json:"kickoff"`
	Teams   [2]string            `json:"teams"`
	Markets map[string][]Outcome `json:"markets"`
}

// EventLabel é o rótulo de exibição do confronto, ex: "Arsenal vs Liverpool"
func (f Fixture) EventLabel() string {
	return f.Teams[0] + " vs " + f.Teams[1]
}

// Catalog expõe consulta read-only sobre a lista fixa de fixtures
type Catalog struct {
	fixtures []Fixture
}

// New monta o catálogo do demo com kickoffs relativos ao horário atual
func New() *Catalog {
	now := time.Now().UTC()
	return &Catalog{fixtures: []Fixture{
		{
			ID:      "CRIC-1001",
			Sport:   "Cricket",
			League:  "ICC T20",
			Kickoff: now.Add(6 * time.Hour),
			Teams:   [2]string{"India", "Australia"},
			Markets: map[string][]Outcome{
				MarketMoneyline: {
					{Key: "India", Odds: 1.75},
					{Key: "Australia", Odds: 2.05},
				},
				MarketOverUnder: {
					{Key: "Over 330.5", Odds: 1.9},
					{Key: "Under 330.5", Odds: 1.9},
				},
			},
		},
		{
			ID:      "FB-2025-PL-21",
			Sport:   "Football",
			League:  "Premier League",
			Kickoff: now.Add(24 * time.Hour),
			Teams:   [2]string{"Arsenal", "Liverpool"},
			Markets: map[string][]Outcome{
				MarketMoneyline: {
					{Key: "Arsenal", Odds: 2.4},
					{Key: "Draw", Odds: 3.35},
					{Key: "Liverpool", Odds: 2.85},
				},
				MarketOverUnder: {
					{Key: "Over 2.5", Odds: 1.95},
					{Key: "Under 2.5", Odds: 1.85},
				},
			},
		},
		{
			ID:      "NBA-8891",
			Sport:   "Basketball",
			League:  "NBA",
			Kickoff: now.Add(12 * time.Hour),
			Teams:   [2]string{"Lakers", "Celtics"},
			Markets: map[string][]Outcome{
				MarketMoneyline: {
					{Key: "Lakers", Odds: 1.9},
					{Key: "Celtics", Odds: 1.95},
				},
				MarketOverUnder: {
					{Key: "Over 221.5", Odds: 1.9},
					{Key: "Under 221.5", Odds: 1.9},
				},
			},
		},
	}}
}

// All retorna todos os fixtures na ordem do catálogo
func (c *Catalog) All() []Fixture {
	out := make([]Fixture, len(c.fixtures))
	copy(out, c.fixtures)
	return out
}

// Get retorna um fixture pelo id
func (c *Catalog) Get(id string) (Fixture, bool) {
	for _, f := range c.fixtures {
		if f.ID == id {
			return f, true
		}
	}
	return Fixture{}, false
}

// Search filtra fixtures por texto livre, case-insensitive, contra a
// concatenação de times, liga e esporte. Query vazia retorna todos.
// Recomputado a cada chamada (finito e reiniciável).
func (c *Catalog) Search(query string) []Fixture {
	q := strings.ToLower(query)
	var out []Fixture
	for _, f := range c.fixtures {
		haystack := strings.ToLower(f.Teams[0] + " " + f.Teams[1] + " " + f.League + " " + f.Sport)
		if strings.Contains(haystack, q) {
			out = append(out, f)
		}
	}
	return out
}

// Outcome resolve a cotação atual de um resultado em um mercado de um fixture
func (c *Catalog) Outcome(fixtureID, market, key string) (Outcome, bool) {
	f, ok := c.Get(fixtureID)
	if !ok {
		return Outcome{}, false
	}
	for _, o := range f.Markets[market] {
		if o.Key == key {
			return o, true
		}
	}
	return Outcome{}, false
}
