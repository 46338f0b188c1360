package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/predictplay-poc/internal/store"
)

// DefaultSessionID é usado quando o cliente não informa X-Session-Id
const DefaultSessionID = "local"

// Manager mantém uma Session viva por sessionId, criando-a (e carregando
// do store) na primeira referência. Garante um único dono lógico das
// mutações de cada sessão dentro do processo.
type Manager struct {
	mu       sync.Mutex
	log      *zap.Logger
	store    store.Store
	pub      Publisher
	sessions map[string]*Session
}

func NewManager(log *zap.Logger, st store.Store, pub Publisher) *Manager {
	return &Manager{
		log:      log,
		store:    st,
		pub:      pub,
		sessions: make(map[string]*Session),
	}
}

// Get retorna a sessão do id informado, carregando-a se necessário
func (m *Manager) Get(ctx context.Context, id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	// carrega fora do lock: um load lento (redis/postgres) não pode
	// bloquear os requests das outras sessões
	s := New(ctx, id, m.log, m.store, m.pub)

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[id]; ok {
		// outra goroutine instalou primeiro; descarta a cópia local
		return cur
	}
	m.sessions[id] = s
	return s
}
