package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negócio expostos em /metrics
var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictplay_bets_placed_total",
		Help: "Apostas liquidadas com sucesso (slip -> wallet)",
	})

	Deposits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictplay_deposits_total",
		Help: "Depósitos efetivados na carteira",
	})

	Withdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictplay_withdrawals_total",
		Help: "Saques efetivados na carteira",
	})

	// reason: not_authenticated | empty_slip | invalid_stake | insufficient_funds
	SettlementRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictplay_settlement_rejected_total",
		Help: "Tentativas de aposta rejeitadas, por motivo",
	}, []string{"reason"})
)
