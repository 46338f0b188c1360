package betslip

import "github.com/google/uuid"

// Selection é uma perna do bilhete: um resultado escolhido em um mercado
// de um fixture do catálogo. O fixtureId é referência fraca (o catálogo
// é read-only, o bilhete não é dono do fixture).
type Selection struct {
	ID        string  `json:"id"`
	FixtureID string  `json:"fixtureId"`
	Event     string  `json:"event"` // rótulo de exibição, ex: "Arsenal vs Liverpool"
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
	Odds      float64 `json:"odds"`
}

// Slip é a sequência ordenada de seleções do bilhete.
// A ordem de inserção é a ordem de exibição. Não há de-duplicação:
// a mesma seleção adicionada duas vezes vira duas pernas, ambas
// contadas na odd combinada.
type Slip struct {
	Selections []Selection
}

// Add anexa uma nova seleção com id recém-gerado e a retorna
func (s *Slip) Add(fixtureID, event, market, selectionKey string, odds float64) Selection {
	sel := Selection{
		ID:        uuid.NewString(),
		FixtureID: fixtureID,
		Event:     event,
		Market:    market,
		Selection: selectionKey,
		Odds:      odds,
	}
	s.Selections = append(s.Selections, sel)
	return sel
}

// Remove tira a seleção com o id informado; no-op se não existir
func (s *Slip) Remove(selectionID string) {
	for i, sel := range s.Selections {
		if sel.ID == selectionID {
			s.Selections = append(s.Selections[:i], s.Selections[i+1:]...)
			return
		}
	}
}

// Clear esvazia o bilhete
func (s *Slip) Clear() {
	s.Selections = nil
}

// Len retorna a quantidade de pernas do bilhete
func (s *Slip) Len() int { return len(s.Selections) }

// CombinedOdds é o produto das odds de todas as pernas.
// Bilhete vazio retorna 1.0 (identidade multiplicativa).
func (s *Slip) CombinedOdds() float64 {
	odds := 1.0
	for _, sel := range s.Selections {
		odds *= sel.Odds
	}
	return odds
}

// PotentialReturn é stake × odd combinada, em centavos.
// O stake não é validado aqui: é derivação pura, a validação
// acontece só na liquidação da aposta.
func (s *Slip) PotentialReturn(stakeCents int64) float64 {
	return float64(stakeCents) * s.CombinedOdds()
}
