package session_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/predictplay-poc/internal/producer"
	"github.com/radieske/predictplay-poc/internal/session"
	"github.com/radieske/predictplay-poc/internal/store"
	"github.com/radieske/predictplay-poc/internal/wallet"
)

func newSession(t *testing.T, st store.Store) *session.Session {
	t.Helper()
	return session.New(context.Background(), "test", zap.NewNop(), st, producer.Noop{})
}

// monta o bilhete do cenário de referência: duas pernas, 1.75 e 2.05
func addTwoLegs(ctx context.Context, s *session.Session) {
	s.AddSelection(ctx, "CRIC-1001", "India vs Australia", "moneyline", "India", 1.75)
	s.AddSelection(ctx, "CRIC-1001", "India vs Australia", "moneyline", "Australia", 2.05)
}

func TestCurrentUser_AnonymousByDefault(t *testing.T) {
	s := newSession(t, store.NewMemory())
	if _, ok := s.CurrentUser(); ok {
		t.Error("new session should be anonymous")
	}
}

func TestLogin_NameFallsBackToEmailLocalPart(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())

	u := s.Login(ctx, "himanshu@example.com", "")
	if u.Name != "himanshu" {
		t.Errorf("name: got %q, want himanshu", u.Name)
	}
	if u.ID == "" {
		t.Error("user id should be generated")
	}
	if got, ok := s.CurrentUser(); !ok || got.ID != u.ID {
		t.Error("session should report the logged-in user")
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")
	s.Logout(ctx)
	if _, ok := s.CurrentUser(); ok {
		t.Error("session should be anonymous after logout")
	}
}

func TestDeposit_RequiresAuth(t *testing.T) {
	s := newSession(t, store.NewMemory())
	if _, err := s.Deposit(context.Background(), 1_000, "upi"); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Errorf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")

	rec, err := s.Deposit(ctx, 50_000, "upi")
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if rec.Note != "Deposit via UPI" {
		t.Errorf("note: got %q", rec.Note)
	}
	if s.Wallet().BalanceCents != 50_000 {
		t.Errorf("balance: got %d, want 50000", s.Wallet().BalanceCents)
	}

	rec, err = s.Withdraw(ctx, 20_000, "bank")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if rec.Note != "Withdraw to BANK" {
		t.Errorf("note: got %q", rec.Note)
	}
	if s.Wallet().BalanceCents != 30_000 {
		t.Errorf("balance: got %d, want 30000", s.Wallet().BalanceCents)
	}

	if _, err := s.Withdraw(ctx, 999_999, "bank"); !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}
}

// Cenário de referência: saldo 1000.00, slip 1.75 × 2.05, stake 100.00
func TestPlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")
	s.Deposit(ctx, 100_000, "upi")
	addTwoLegs(ctx, s)

	rec, odds, err := s.PlaceBet(ctx, 10_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}
	// odd combinada retornada é a que foi liquidada, derivada sob o lock do commit
	if math.Abs(odds-3.5875) > 1e-9 {
		t.Fatalf("combined odds: got %v, want 3.5875", odds)
	}

	if s.Wallet().BalanceCents != 90_000 {
		t.Errorf("balance: got %d, want 90000", s.Wallet().BalanceCents)
	}
	if len(s.Selections()) != 0 {
		t.Error("slip should be cleared after settlement")
	}

	tx := s.Transactions()
	if len(tx) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(tx))
	}
	// entrada da aposta no topo (mais recente primeiro)
	if tx[0].ID != rec.ID || tx[0].Type != wallet.TxBet || tx[0].Direction != wallet.Debit || tx[0].AmountCents != 10_000 {
		t.Errorf("bet record: got %+v", tx[0])
	}
	if !strings.HasPrefix(tx[0].Note, "Bet x2 selections @ 3.59") {
		t.Errorf("bet note: got %q", tx[0].Note)
	}
}

// Liquidação é tudo-ou-nada: na falta de saldo nada muda
func TestPlaceBet_InsufficientFundsIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")
	s.Deposit(ctx, 5_000, "upi")
	addTwoLegs(ctx, s)

	_, _, err := s.PlaceBet(ctx, 10_000)
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if s.Wallet().BalanceCents != 5_000 {
		t.Errorf("balance: got %d, want 5000", s.Wallet().BalanceCents)
	}
	if len(s.Selections()) != 2 {
		t.Errorf("slip: got %d legs, want 2", len(s.Selections()))
	}
	if len(s.Transactions()) != 1 {
		t.Errorf("ledger should gain no record, got %d", len(s.Transactions()))
	}
}

func TestPlaceBet_NotAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	addTwoLegs(ctx, s)
	if _, _, err := s.PlaceBet(ctx, 10_000); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Errorf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestPlaceBet_EmptySlip(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")
	if _, _, err := s.PlaceBet(ctx, 10_000); !errors.Is(err, session.ErrEmptySlip) {
		t.Errorf("got %v, want ErrEmptySlip", err)
	}
}

func TestPlaceBet_InvalidStake(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())
	s.Login(ctx, "a@b.com", "")
	addTwoLegs(ctx, s)
	for _, stake := range []int64{0, -100} {
		if _, _, err := s.PlaceBet(ctx, stake); !errors.Is(err, session.ErrInvalidStake) {
			t.Errorf("stake %d: got %v, want ErrInvalidStake", stake, err)
		}
	}
}

func TestKYC_Flow(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, store.NewMemory())

	if got := s.KYC().Status; got != "unverified" {
		t.Fatalf("initial status: got %q, want unverified", got)
	}

	k := s.SubmitKYC(ctx, "abcde1234f", "Himanshu Chandela")
	if k.Status != "pending" {
		t.Errorf("status after submit: got %q, want pending", k.Status)
	}
	if k.PAN != "ABCDE1234F" {
		t.Errorf("pan should be uppercased, got %q", k.PAN)
	}

	// submissão incompleta não muda o status
	s2 := newSession(t, store.NewMemory())
	if got := s2.SubmitKYC(ctx, "abcde1234f", "").Status; got != "unverified" {
		t.Errorf("incomplete submit: got %q, want unverified", got)
	}

	if got := s.VerifyKYC(ctx).Status; got != "verified" {
		t.Errorf("status after verify: got %q, want verified", got)
	}
}

// Estado sobrevive à recriação da sessão a partir do mesmo store
func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	s1 := newSession(t, st)
	u := s1.Login(ctx, "a@b.com", "Alice")
	s1.Deposit(ctx, 70_000, "card")
	addTwoLegs(ctx, s1)
	s1.SubmitKYC(ctx, "abcde1234f", "Alice")

	s2 := newSession(t, st)
	if got, ok := s2.CurrentUser(); !ok || got.ID != u.ID {
		t.Error("user should survive reload")
	}
	if s2.Wallet().BalanceCents != 70_000 {
		t.Errorf("balance after reload: got %d, want 70000", s2.Wallet().BalanceCents)
	}
	if len(s2.Transactions()) != 1 {
		t.Errorf("transactions after reload: got %d, want 1", len(s2.Transactions()))
	}
	if len(s2.Selections()) != 2 {
		t.Errorf("slip after reload: got %d legs, want 2", len(s2.Selections()))
	}
	if s2.KYC().Status != "pending" {
		t.Errorf("kyc after reload: got %q, want pending", s2.KYC().Status)
	}
}

// Registro corrompido cai no default em vez de propagar erro
func TestLoad_MalformedRecordFallsBack(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Save(ctx, "predictplay:test:wallet", "garbage"); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := newSession(t, st)
	w := s.Wallet()
	if w.Currency != "INR" || w.BalanceCents != 0 {
		t.Errorf("wallet should fall back to default, got %+v", w)
	}
}

func TestManager_ReturnsSameSession(t *testing.T) {
	m := session.NewManager(zap.NewNop(), store.NewMemory(), producer.Noop{})
	ctx := context.Background()
	a := m.Get(ctx, "s1")
	if b := m.Get(ctx, "s1"); a != b {
		t.Error("manager should return the same session instance per id")
	}
	if c := m.Get(ctx, "s2"); c == a {
		t.Error("distinct ids should get distinct sessions")
	}
	if d := m.Get(ctx, ""); d.ID() != session.DefaultSessionID {
		t.Errorf("empty id should map to %q, got %q", session.DefaultSessionID, d.ID())
	}
}

// Gets concorrentes do mesmo id convergem pra uma única instância,
// mesmo com o load acontecendo fora do lock do manager
func TestManager_ConcurrentGetSingleInstance(t *testing.T) {
	m := session.NewManager(zap.NewNop(), store.NewMemory(), producer.Noop{})
	ctx := context.Background()

	const n = 16
	got := make([]*session.Session, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			got[i] = m.Get(ctx, "s1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("goroutine %d got a different instance", i)
		}
	}
}
