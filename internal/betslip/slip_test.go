package betslip_test

import (
	"math"
	"testing"

	"github.com/radieske/predictplay-poc/internal/betslip"
)

const eps = 1e-9

func TestCombinedOdds_EmptySlip(t *testing.T) {
	var s betslip.Slip
	if got := s.CombinedOdds(); got != 1.0 {
		t.Errorf("combined odds of empty slip: got %v, want 1.0", got)
	}
}

func TestCombinedOdds_Product(t *testing.T) {
	var s betslip.Slip
	s.Add("FB-2025-PL-21", "Arsenal vs Liverpool", "moneyline", "Arsenal", 1.75)
	s.Add("NBA-8891", "Lakers vs Celtics", "moneyline", "Lakers", 2.4)

	if got := s.CombinedOdds(); math.Abs(got-4.2) > eps {
		t.Errorf("combined odds: got %v, want 4.2", got)
	}
}

func TestAdd_GeneratesUniqueIDsAndKeepsOrder(t *testing.T) {
	var s betslip.Slip
	a := s.Add("F1", "A vs B", "moneyline", "A", 1.5)
	b := s.Add("F2", "C vs D", "moneyline", "C", 2.0)

	if a.ID == b.ID {
		t.Error("selection ids should be unique")
	}
	if s.Selections[0].ID != a.ID || s.Selections[1].ID != b.ID {
		t.Error("insertion order should be preserved")
	}
}

// Sem de-duplicação: a mesma seleção duas vezes vira duas pernas,
// ambas multiplicadas na odd combinada
func TestAdd_NoDeduplication(t *testing.T) {
	var s betslip.Slip
	s.Add("F1", "A vs B", "moneyline", "A", 1.9)
	s.Add("F1", "A vs B", "moneyline", "A", 1.9)

	if s.Len() != 2 {
		t.Fatalf("slip length: got %d, want 2", s.Len())
	}
	if got := s.CombinedOdds(); math.Abs(got-1.9*1.9) > eps {
		t.Errorf("combined odds: got %v, want %v", got, 1.9*1.9)
	}
}

func TestRemove(t *testing.T) {
	var s betslip.Slip
	a := s.Add("F1", "A vs B", "moneyline", "A", 1.5)
	b := s.Add("F2", "C vs D", "moneyline", "C", 2.0)

	s.Remove(a.ID)
	if s.Len() != 1 || s.Selections[0].ID != b.ID {
		t.Error("remove should delete only the matching selection")
	}

	// id inexistente é no-op, não erro
	s.Remove("nope")
	if s.Len() != 1 {
		t.Error("removing an absent id should be a no-op")
	}
}

func TestClear(t *testing.T) {
	var s betslip.Slip
	s.Add("F1", "A vs B", "moneyline", "A", 1.5)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("slip after clear: got %d selections, want 0", s.Len())
	}
	if got := s.CombinedOdds(); got != 1.0 {
		t.Errorf("combined odds after clear: got %v, want 1.0", got)
	}
}

// PotentialReturn é derivação pura: stake não é validado aqui
func TestPotentialReturn(t *testing.T) {
	var s betslip.Slip
	s.Add("F1", "A vs B", "moneyline", "A", 2.0)

	cases := []struct {
		stake int64
		want  float64
	}{
		{10_000, 20_000},
		{0, 0},
		{-5_000, -10_000},
	}
	for _, c := range cases {
		if got := s.PotentialReturn(c.stake); math.Abs(got-c.want) > eps {
			t.Errorf("potential return(%d): got %v, want %v", c.stake, got, c.want)
		}
	}
}
