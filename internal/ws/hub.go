package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client serializa as escritas em uma conexão: gorilla/websocket não
// permite escritores concorrentes no mesmo *Conn (o pong do HandleWS e
// o Broadcast podem disparar ao mesmo tempo)
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) writeText(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas de atualizações de sessão
// subs: mapeia sessionID para o conjunto de clientes inscritos
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// sessionID -> set of clients
	subs map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em sessões e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	cli := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.SessionID]; !ok {
				h.subs[msg.SessionID] = make(map[*client]struct{})
			}
			h.subs[msg.SessionID][cli] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.SessionID]; ok {
				delete(m, cli)
				if len(m) == 0 {
					delete(h.subs, msg.SessionID)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = cli.writeJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, cli)
	}
	h.mu.Unlock()
}

// Broadcast envia o snapshot da sessão para todos os clientes inscritos.
// O conjunto é copiado sob RLock antes das escritas: iterar o mapa fora
// do lock corre contra as mutações de HandleWS.
func (h *Hub) Broadcast(update SessionUpdate) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[update.SessionID]))
	for c := range h.subs[update.SessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	b, err := json.Marshal(update)
	if err != nil {
		h.log.Warn("session update marshal failed", zap.Error(err))
		return
	}
	for _, c := range clients {
		_ = c.writeText(b)
	}
}
