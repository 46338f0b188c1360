package ws

import "github.com/radieske/predictplay-poc/internal/session"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// SessionID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type      string `json:"type"`      // subscribe | unsubscribe | ping
	SessionID string `json:"sessionId"` // requerido em subscribe/unsubscribe
}

// SessionUpdate é o snapshot enviado aos clientes inscritos após cada mutação
type SessionUpdate struct {
	SessionID string           `json:"sessionId"`
	Snapshot  session.Snapshot `json:"snapshot"`
}
