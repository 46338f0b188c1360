package store

import "context"

// Store é o contrato de persistência da sessão: valores JSON nomeados por chave.
// Load devolve found=false quando a chave não existe; quem chama decide o fallback.
// Save sobrescreve o valor inteiro da chave (sem semântica de escrita parcial).
type Store interface {
	Load(ctx context.Context, key string, dst any) (found bool, err error)
	Save(ctx context.Context, key string, v any) error
}
