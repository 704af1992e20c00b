package booking

import (
	"fmt"
	"time"

	"wayfare/internal/domain/shared/money"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Transaction is one charged installment. TransactionID is the caller's
// submission id and the deduplication key; GatewayRef is what the payment
// gateway returned for it.
type Transaction struct {
	TransactionID string            `json:"transaction_id" bson:"transaction_id"`
	GatewayRef    string            `json:"gateway_ref" bson:"gateway_ref"`
	Amount        money.Money       `json:"amount" bson:"amount"`
	Method        string            `json:"method" bson:"method"`
	Status        TransactionStatus `json:"status" bson:"status"`
	Timestamp     time.Time         `json:"timestamp" bson:"timestamp"`
}

// BalanceError rejects a payment larger than the open balance.
type BalanceError struct {
	Amount    money.Money
	Remaining money.Money
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("booking: payment %s exceeds remaining balance %s", e.Amount, e.Remaining)
}

// ErrAmountExceedsBalance matches any BalanceError through errors.Is.
var ErrAmountExceedsBalance = &BalanceError{}

func (e *BalanceError) Is(target error) bool {
	_, ok := target.(*BalanceError)
	return ok
}

// Ledger is the ordered list of payment transactions plus the derived
// paid/remaining totals. It is owned by the booking aggregate; nothing
// outside the aggregate appends to it.
type Ledger struct {
	Status       PaymentStatus `json:"status" bson:"status"`
	Method       string        `json:"method,omitempty" bson:"method,omitempty"`
	Transactions []Transaction `json:"transactions" bson:"transactions"`
	TotalAmount  money.Money   `json:"total_amount" bson:"total_amount"`
	TotalPaid    money.Money   `json:"total_paid" bson:"total_paid"`
	Remaining    money.Money   `json:"remaining" bson:"remaining"`
}

func NewLedger(total money.Money) Ledger {
	return Ledger{
		Status:      PaymentPending,
		TotalAmount: total,
		TotalPaid:   money.Zero(total.Currency),
		Remaining:   total,
	}
}

// Find returns the prior application of a transaction id, or nil.
func (l *Ledger) Find(transactionID string) *Transaction {
	for i := range l.Transactions {
		if l.Transactions[i].TransactionID == transactionID {
			return &l.Transactions[i]
		}
	}
	return nil
}

func (l *Ledger) checkBalance(amount money.Money) error {
	if amount.Amount <= 0 {
		return fmt.Errorf("booking: payment amount must be positive, got %s", amount)
	}
	if amount.Currency != l.TotalAmount.Currency {
		return money.ErrCurrencyMismatch
	}
	if amount.Amount > l.Remaining.Amount {
		return &BalanceError{Amount: amount, Remaining: l.Remaining}
	}
	return nil
}

// apply appends a successful transaction and recomputes the totals.
// Invariant afterwards: Remaining == max(0, TotalAmount - TotalPaid) and
// Status reflects the balance.
func (l *Ledger) apply(tx Transaction) error {
	if err := l.checkBalance(tx.Amount); err != nil {
		return err
	}
	tx.Status = TransactionSuccess
	l.Transactions = append(l.Transactions, tx)
	l.TotalPaid, _ = l.TotalPaid.Add(tx.Amount)
	if tx.Method != "" {
		l.Method = tx.Method
	}
	l.recompute()
	return nil
}

func (l *Ledger) recompute() {
	remaining := l.TotalAmount.Amount - l.TotalPaid.Amount
	if remaining < 0 {
		remaining = 0
	}
	l.Remaining = money.Money{Amount: remaining, Currency: l.TotalAmount.Currency}
	switch {
	case l.Remaining.Amount <= 0:
		l.Status = PaymentCompleted
	case l.TotalPaid.Amount > 0:
		l.Status = PaymentPartial
	default:
		l.Status = PaymentPending
	}
}
