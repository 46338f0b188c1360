package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/predictplay-poc/internal/betslip"
	"github.com/radieske/predictplay-poc/internal/shared/metrics"
	"github.com/radieske/predictplay-poc/internal/store"
	"github.com/radieske/predictplay-poc/internal/wallet"
	"github.com/radieske/predictplay-poc/pkg/contracts/events"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptySlip        = errors.New("empty slip")
	ErrInvalidStake     = errors.New("invalid stake")
)

// User é a identidade mock da sessão (qualquer credencial é aceita)
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// KYC é o registro mock de verificação de identidade
type KYC struct {
	Status string `json:"status"` // "unverified" | "pending" | "verified"
	PAN    string `json:"pan"`
	Name   string `json:"name"`
}

// Publisher emite eventos de auditoria após cada commit (best-effort)
type Publisher interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
	PublishWalletTxn(context.Context, events.WalletTxn) error
}

// Session é o contêiner de estado da sessão: dono único de user, carteira,
// ledger, bilhete e kyc. Toda mutação passa pelo mutex (disciplina de
// escritor único) e persiste o registro afetado no store logo em seguida.
type Session struct {
	mu    sync.Mutex
	id    string
	log   *zap.Logger
	store store.Store
	pub   Publisher

	user   *User // nil = anônimo; exposto via CurrentUser (comma-ok)
	ledger *wallet.Ledger
	slip   betslip.Slip
	kyc    KYC
}

// New carrega a sessão do store. Cada registro é carregado de forma
// independente; ausência ou JSON inválido cai no default silenciosamente.
func New(ctx context.Context, id string, log *zap.Logger, st store.Store, pub Publisher) *Session {
	s := &Session{
		id:     id,
		log:    log,
		store:  st,
		pub:    pub,
		ledger: wallet.NewLedger(),
		kyc:    KYC{Status: "unverified"},
	}

	var u User
	if s.load(ctx, "user", &u) && u.ID != "" {
		s.user = &u
	}
	var w wallet.Wallet
	if s.load(ctx, "wallet", &w) {
		s.ledger.Wallet = w
	}
	var tx []wallet.TransactionRecord
	if s.load(ctx, "tx", &tx) {
		s.ledger.Records = tx
	}
	var sel []betslip.Selection
	if s.load(ctx, "slip", &sel) {
		s.slip.Selections = sel
	}
	var k KYC
	if s.load(ctx, "kyc", &k) && k.Status != "" {
		s.kyc = k
	}

	return s
}

func (s *Session) key(name string) string {
	return "predictplay:" + s.id + ":" + name
}

func (s *Session) load(ctx context.Context, name string, dst any) bool {
	found, err := s.store.Load(ctx, s.key(name), dst)
	if err != nil {
		// registro corrompido: segue com o default (troca risco de perda por disponibilidade)
		s.log.Warn("session record load failed, using default",
			zap.String("session", s.id), zap.String("record", name), zap.Error(err))
		return false
	}
	return found
}

// persist grava o registro no store; falha de escrita é logada e não
// desfaz a mutação em memória (semântica fire-and-forget do demo)
func (s *Session) persist(ctx context.Context, name string, v any) {
	if err := s.store.Save(ctx, s.key(name), v); err != nil {
		s.log.Error("session record save failed",
			zap.String("session", s.id), zap.String("record", name), zap.Error(err))
	}
}

// ID retorna o identificador da sessão
func (s *Session) ID() string { return s.id }

// CurrentUser retorna a identidade logada; ok=false quando anônimo.
// O comma-ok obriga cada consumidor a tratar os dois casos.
func (s *Session) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Login autentica qualquer credencial (mock). O nome cai para a parte
// local do email quando vazio.
func (s *Session) Login(ctx context.Context, email, name string) User {
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	u := User{ID: uuid.NewString(), Email: email, Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.persist(ctx, "user", u)
	return u
}

// Logout volta a sessão ao estado anônimo
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.persist(ctx, "user", User{})
}

// Wallet retorna a carteira atual
func (s *Session) Wallet() wallet.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Wallet
}

// Transactions retorna o histórico do ledger, mais recente primeiro
func (s *Session) Transactions() []wallet.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wallet.TransactionRecord, len(s.ledger.Records))
	copy(out, s.ledger.Records)
	return out
}

// Deposit credita a carteira via o primitivo único de crédito do ledger
func (s *Session) Deposit(ctx context.Context, amountCents int64, method string) (wallet.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return wallet.TransactionRecord{}, ErrNotAuthenticated
	}

	rec, err := s.ledger.Credit(amountCents, wallet.TxDeposit, method, "Deposit via "+strings.ToUpper(method))
	if err != nil {
		return wallet.TransactionRecord{}, err
	}
	s.persist(ctx, "wallet", s.ledger.Wallet)
	s.persist(ctx, "tx", s.ledger.Records)
	metrics.Deposits.Inc()
	s.publishWalletTxn(ctx, rec)
	return rec, nil
}

// Withdraw debita a carteira; falha com insufficient funds sem mutar nada
func (s *Session) Withdraw(ctx context.Context, amountCents int64, method string) (wallet.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return wallet.TransactionRecord{}, ErrNotAuthenticated
	}

	rec, err := s.ledger.Debit(amountCents, wallet.TxWithdraw, method, "Withdraw to "+strings.ToUpper(method))
	if err != nil {
		return wallet.TransactionRecord{}, err
	}
	s.persist(ctx, "wallet", s.ledger.Wallet)
	s.persist(ctx, "tx", s.ledger.Records)
	metrics.Withdrawals.Inc()
	s.publishWalletTxn(ctx, rec)
	return rec, nil
}

func (s *Session) publishWalletTxn(ctx context.Context, rec wallet.TransactionRecord) {
	var userID string
	if s.user != nil {
		userID = s.user.ID
	}
	ev := events.WalletTxn{
		SessionID:   s.id,
		UserID:      userID,
		TxID:        rec.ID,
		Type:        string(rec.Type),
		Direction:   string(rec.Direction),
		AmountCents: rec.AmountCents,
		Method:      rec.Method,
	}
	if err := s.pub.PublishWalletTxn(ctx, ev); err != nil {
		s.log.Warn("publish wallet_txn failed", zap.Error(err))
	}
}

// AddSelection anexa uma perna ao bilhete. Sem limite de tamanho e sem
// de-duplicação: duas pernas iguais contam duas vezes na odd combinada.
func (s *Session) AddSelection(ctx context.Context, fixtureID, event, market, selectionKey string, odds float64) betslip.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.slip.Add(fixtureID, event, market, selectionKey, odds)
	s.persist(ctx, "slip", s.slip.Selections)
	return sel
}

// RemoveSelection tira uma perna do bilhete; no-op se o id não existir
func (s *Session) RemoveSelection(ctx context.Context, selectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slip.Remove(selectionID)
	s.persist(ctx, "slip", s.slip.Selections)
}

// ClearSlip esvazia o bilhete
func (s *Session) ClearSlip(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slip.Clear()
	s.persist(ctx, "slip", s.slip.Selections)
}

// Selections retorna as pernas do bilhete na ordem de inserção
func (s *Session) Selections() []betslip.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]betslip.Selection, len(s.slip.Selections))
	copy(out, s.slip.Selections)
	return out
}

// CombinedOdds retorna o produto das odds do bilhete (1.0 vazio)
func (s *Session) CombinedOdds() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slip.CombinedOdds()
}

// PotentialReturn retorna stake × odd combinada, sem validar o stake
func (s *Session) PotentialReturn(stakeCents int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slip.PotentialReturn(stakeCents)
}

// KYC retorna o registro de verificação atual
func (s *Session) KYC() KYC {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kyc
}

// SubmitKYC registra os dados e move o status para "pending" quando
// PAN e nome estão preenchidos
func (s *Session) SubmitKYC(ctx context.Context, pan, name string) KYC {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kyc.PAN = strings.ToUpper(pan)
	s.kyc.Name = name
	if s.kyc.PAN != "" && s.kyc.Name != "" {
		s.kyc.Status = "pending"
	}
	s.persist(ctx, "kyc", s.kyc)
	return s.kyc
}

// VerifyKYC marca a verificação como aprovada (atalho do demo)
func (s *Session) VerifyKYC(ctx context.Context) KYC {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kyc.Status = "verified"
	s.persist(ctx, "kyc", s.kyc)
	return s.kyc
}

// Snapshot é a visão read-only da sessão consumida pela API e pelo hub WS
type Snapshot struct {
	SessionID    string              `json:"sessionId"`
	User         *User               `json:"user,omitempty"`
	Wallet       wallet.Wallet       `json:"wallet"`
	Slip         []betslip.Selection `json:"slip"`
	CombinedOdds float64             `json:"combinedOdds"`
	KYC          KYC                 `json:"kyc"`
}

// Snapshot retorna uma cópia consistente do estado visível da sessão
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SessionID:    s.id,
		Wallet:       s.ledger.Wallet,
		Slip:         append([]betslip.Selection(nil), s.slip.Selections...),
		CombinedOdds: s.slip.CombinedOdds(),
		KYC:          s.kyc,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// PlaceBet é a única operação multi-entidade: valida, debita a carteira,
// registra a entrada de aposta no ledger e limpa o bilhete. Débito e
// limpeza commitam juntos sob o mutex; nenhum observador externo vê
// estado pela metade. Retorna a entrada do ledger e a odd combinada
// efetivamente liquidada (derivada sob o mesmo lock do commit).
func (s *Session) PlaceBet(ctx context.Context, stakeCents int64) (wallet.TransactionRecord, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		// sinal de controle de fluxo: a UI redireciona pro login
		metrics.SettlementRejected.WithLabelValues("not_authenticated").Inc()
		return wallet.TransactionRecord{}, 0, ErrNotAuthenticated
	}
	if s.slip.Len() == 0 {
		metrics.SettlementRejected.WithLabelValues("empty_slip").Inc()
		return wallet.TransactionRecord{}, 0, ErrEmptySlip
	}
	if stakeCents <= 0 {
		metrics.SettlementRejected.WithLabelValues("invalid_stake").Inc()
		return wallet.TransactionRecord{}, 0, ErrInvalidStake
	}

	// pré-cheque soft: só pro ramo de redirecionamento à carteira.
	// O Debit logo abaixo é a autoridade final sobre o saldo.
	if s.ledger.Wallet.BalanceCents < stakeCents {
		metrics.SettlementRejected.WithLabelValues("insufficient_funds").Inc()
		return wallet.TransactionRecord{}, 0, wallet.ErrInsufficientFunds
	}

	odds := s.slip.CombinedOdds()
	legs := s.slip.Len()
	note := fmt.Sprintf("Bet x%d selections @ %.2f", legs, odds)

	rec, err := s.ledger.Debit(stakeCents, wallet.TxBet, "", note)
	if err != nil {
		metrics.SettlementRejected.WithLabelValues("insufficient_funds").Inc()
		return wallet.TransactionRecord{}, 0, err
	}
	s.slip.Clear()

	s.persist(ctx, "wallet", s.ledger.Wallet)
	s.persist(ctx, "tx", s.ledger.Records)
	s.persist(ctx, "slip", s.slip.Selections)
	metrics.BetsPlaced.Inc()

	ev := events.BetPlaced{
		SessionID:    s.id,
		UserID:       s.user.ID,
		BetID:        rec.ID,
		StakeCents:   stakeCents,
		CombinedOdds: odds,
		Legs:         legs,
	}
	if err := s.pub.PublishBetPlaced(ctx, ev); err != nil {
		s.log.Warn("publish bet_placed failed", zap.Error(err))
	}

	return rec, odds, nil
}
