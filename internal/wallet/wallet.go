package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Tipo da transação registrada no ledger
type TxType string

const (
	TxBet      TxType = "bet"
	TxDeposit  TxType = "deposit"
	TxWithdraw TxType = "withdraw"
)

// Direção do movimento em relação ao saldo
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Wallet guarda o saldo da sessão em centavos (paisa)
type Wallet struct {
	Currency     string `json:"currency"`
	BalanceCents int64  `json:"balance"`
}

// NewWallet retorna a carteira default da sessão
func NewWallet() Wallet {
	return Wallet{Currency: "INR", BalanceCents: 0}
}

// TransactionRecord é uma entrada imutável do ledger
type TransactionRecord struct {
	ID          string    `json:"id"`
	Type        TxType    `json:"type"`
	Direction   Direction `json:"direction"`
	AmountCents int64     `json:"amount"`
	Method      string    `json:"method,omitempty"`
	Note        string    `json:"note,omitempty"`
	Ts          time.Time `json:"ts"`
}

// Ledger junta a carteira e o histórico append-only de transações,
// ordenado do mais recente para o mais antigo.
// Credit e Debit são os únicos mutadores legais do saldo: todo ajuste
// gera uma entrada correspondente, mantendo o ledger como trilha de
// auditoria da carteira.
type Ledger struct {
	Wallet  Wallet
	Records []TransactionRecord
}

// NewLedger cria um ledger vazio com a carteira default
func NewLedger() *Ledger {
	return &Ledger{Wallet: NewWallet()}
}

// Credit aumenta o saldo e registra a entrada no ledger.
// Exige amount > 0; não há outro caminho de falha.
func (l *Ledger) Credit(amountCents int64, txType TxType, method, note string) (TransactionRecord, error) {
	if amountCents <= 0 {
		return TransactionRecord{}, ErrInvalidAmount
	}
	l.Wallet.BalanceCents += amountCents
	return l.append(amountCents, txType, Credit, method, note), nil
}

// Debit diminui o saldo e registra a entrada no ledger.
// Exige amount > 0 e saldo suficiente; nunca deixa o saldo negativo.
func (l *Ledger) Debit(amountCents int64, txType TxType, method, note string) (TransactionRecord, error) {
	if amountCents <= 0 {
		return TransactionRecord{}, ErrInvalidAmount
	}
	if amountCents > l.Wallet.BalanceCents {
		return TransactionRecord{}, ErrInsufficientFunds
	}
	l.Wallet.BalanceCents -= amountCents
	return l.append(amountCents, txType, Debit, method, note), nil
}

// append insere a entrada no topo do histórico (mais recente primeiro)
func (l *Ledger) append(amountCents int64, txType TxType, dir Direction, method, note string) TransactionRecord {
	rec := TransactionRecord{
		ID:          uuid.NewString(),
		Type:        txType,
		Direction:   dir,
		AmountCents: amountCents,
		Method:      method,
		Note:        note,
		Ts:          time.Now().UTC(),
	}
	l.Records = append([]TransactionRecord{rec}, l.Records...)
	return rec
}
