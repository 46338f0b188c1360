package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/predictplay-poc/internal/catalog"
	"github.com/radieske/predictplay-poc/internal/httpapi/dto"
	"github.com/radieske/predictplay-poc/internal/session"
	"github.com/radieske/predictplay-poc/internal/wallet"
	"github.com/radieske/predictplay-poc/internal/ws"
)

// Server expõe a máquina de estado da sessão (carteira, bilhete,
// liquidação, catálogo) como API REST pro frontend do demo
type Server struct {
	log      *zap.Logger
	sessions *session.Manager
	catalog  *catalog.Catalog
	hub      *ws.Hub
}

func NewServer(log *zap.Logger, m *session.Manager, c *catalog.Catalog, hub *ws.Hub) *Server {
	return &Server{log: log, sessions: m, catalog: c, hub: hub}
}

// Router retorna o roteador HTTP com os endpoints REST e o WebSocket
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/auth/login", s.login)
	r.Post("/v1/auth/signup", s.login) // mock: signup e login têm a mesma semântica
	r.Post("/v1/auth/logout", s.logout)

	r.Get("/v1/session", s.getSession)

	r.Get("/v1/catalog", s.searchCatalog) // ?q=texto livre
	r.Get("/v1/catalog/{id}", s.getFixture)

	r.Get("/v1/slip", s.getSlip) // ?stake=centavos
	r.Post("/v1/slip/selections", s.addSelection)
	r.Delete("/v1/slip/selections/{id}", s.removeSelection)
	r.Delete("/v1/slip", s.clearSlip)

	r.Post("/v1/bets", s.placeBet)

	r.Get("/v1/wallet", s.getWallet)
	r.Post("/v1/wallet/deposit", s.deposit)
	r.Post("/v1/wallet/withdraw", s.withdraw)
	r.Get("/v1/transactions", s.listTransactions)

	r.Get("/v1/kyc", s.getKYC)
	r.Post("/v1/kyc", s.submitKYC)
	r.Post("/v1/kyc/verify", s.verifyKYC)

	r.Get("/ws", s.hub.HandleWS)

	return r
}

// sess resolve a sessão do request pelo header X-Session-Id
func (s *Server) sess(r *http.Request) *session.Session {
	return s.sessions.Get(r.Context(), r.Header.Get("X-Session-Id"))
}

// notify repassa o snapshot pós-mutação aos clientes WebSocket inscritos
func (s *Server) notify(sess *session.Session) {
	s.hub.Broadcast(ws.SessionUpdate{SessionID: sess.ID(), Snapshot: sess.Snapshot()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr mapeia os erros de domínio pra respostas HTTP.
// InsufficientFunds e NotAuthenticated carregam a dica de redirect da UI.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error(), Redirect: "/auth"})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Redirect: "/wallet"})
	case errors.Is(err, session.ErrEmptySlip),
		errors.Is(err, session.ErrInvalidStake),
		errors.Is(err, wallet.ErrInvalidAmount):
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}
	sess := s.sess(r)
	u := sess.Login(r.Context(), req.Email, req.Name)
	s.notify(sess)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess := s.sess(r)
	sess.Logout(r.Context())
	s.notify(sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess(r).Snapshot())
}

func (s *Server) searchCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, s.catalog.Search(q))
}

func (s *Server) getFixture(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "fixture not found"})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	stake, _ := strconv.ParseInt(r.URL.Query().Get("stake"), 10, 64)
	sess := s.sess(r)
	writeJSON(w, http.StatusOK, dto.SlipResponse{
		Selections:      sess.Selections(),
		CombinedOdds:    sess.CombinedOdds(),
		StakeCents:      stake,
		PotentialReturn: sess.PotentialReturn(stake),
	})
}

// addSelection valida a seleção contra o catálogo antes de anexar ao
// bilhete: fixture/mercado/resultado precisam existir, e a odd que o
// cliente viu precisa bater com a cotação atual
func (s *Server) addSelection(w http.ResponseWriter, r *http.Request) {
	var req dto.AddSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.FixtureID == "" || req.Market == "" || req.Selection == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	f, ok := s.catalog.Get(req.FixtureID)
	if !ok {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "fixture not found"})
		return
	}
	out, ok := s.catalog.Outcome(req.FixtureID, req.Market, req.Selection)
	if !ok {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "selection not found"})
		return
	}
	if req.Odds != 0 && req.Odds != out.Odds {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error: "odds changed; current=" + strconv.FormatFloat(out.Odds, 'f', -1, 64),
		})
		return
	}

	sess := s.sess(r)
	sel := sess.AddSelection(r.Context(), f.ID, f.EventLabel(), req.Market, req.Selection, out.Odds)
	s.notify(sess)
	writeJSON(w, http.StatusCreated, sel)
}

func (s *Server) removeSelection(w http.ResponseWriter, r *http.Request) {
	sess := s.sess(r)
	sess.RemoveSelection(r.Context(), chi.URLParam(r, "id"))
	s.notify(sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	sess := s.sess(r)
	sess.ClearSlip(r.Context())
	s.notify(sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess := s.sess(r)
	rec, odds, err := sess.PlaceBet(r.Context(), req.StakeCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.notify(sess)
	writeJSON(w, http.StatusOK, dto.PlaceBetResponse{
		BetID:           rec.ID,
		Status:          "PLACED",
		NewBalanceCents: sess.Wallet().BalanceCents,
		CombinedOdds:    odds,
	})
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess(r).Wallet())
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess := s.sess(r)
	rec, err := sess.Deposit(r.Context(), req.AmountCents, req.Method)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.notify(sess)
	writeJSON(w, http.StatusOK, dto.TxnResponse{Tx: rec, NewBalanceCents: sess.Wallet().BalanceCents})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess := s.sess(r)
	rec, err := sess.Withdraw(r.Context(), req.AmountCents, req.Method)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.notify(sess)
	writeJSON(w, http.StatusOK, dto.TxnResponse{Tx: rec, NewBalanceCents: sess.Wallet().BalanceCents})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess(r).Transactions())
}

func (s *Server) getKYC(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess(r).KYC())
}

func (s *Server) submitKYC(w http.ResponseWriter, r *http.Request) {
	var req dto.KYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess := s.sess(r)
	k := sess.SubmitKYC(r.Context(), req.PAN, req.Name)
	s.notify(sess)
	writeJSON(w, http.StatusOK, k)
}

func (s *Server) verifyKYC(w http.ResponseWriter, r *http.Request) {
	sess := s.sess(r)
	k := sess.VerifyKYC(r.Context())
	s.notify(sess)
	writeJSON(w, http.StatusOK, k)
}
