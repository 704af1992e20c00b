package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfare/internal/domain/shared/money"
)

func TestLedgerLifecycle(t *testing.T) {
	l := NewLedger(money.Must(100000, "INR"))
	assert.Equal(t, PaymentPending, l.Status)
	assert.Equal(t, int64(100000), l.Remaining.Amount)

	require.NoError(t, l.apply(Transaction{TransactionID: "tx-1", Amount: money.Must(30000, "INR"), Method: "card"}))
	assert.Equal(t, PaymentPartial, l.Status)
	assert.Equal(t, int64(30000), l.TotalPaid.Amount)
	assert.Equal(t, int64(70000), l.Remaining.Amount)
	assert.Equal(t, "card", l.Method)
	assert.Equal(t, TransactionSuccess, l.Transactions[0].Status)

	require.NoError(t, l.apply(Transaction{TransactionID: "tx-2", Amount: money.Must(70000, "INR"), Method: "upi"}))
	assert.Equal(t, PaymentCompleted, l.Status)
	assert.True(t, l.Remaining.IsZero())
	// Latest method wins.
	assert.Equal(t, "upi", l.Method)
}

func TestLedgerRejectsOverdraw(t *testing.T) {
	l := NewLedger(money.Must(20000, "INR"))

	err := l.apply(Transaction{TransactionID: "tx-1", Amount: money.Must(25000, "INR")})
	require.ErrorIs(t, err, ErrAmountExceedsBalance)

	var balErr *BalanceError
	require.ErrorAs(t, err, &balErr)
	assert.Equal(t, int64(25000), balErr.Amount.Amount)
	assert.Equal(t, int64(20000), balErr.Remaining.Amount)

	assert.Empty(t, l.Transactions)
	assert.Equal(t, PaymentPending, l.Status)
}

func TestLedgerRejectsNonPositiveAndWrongCurrency(t *testing.T) {
	l := NewLedger(money.Must(20000, "INR"))

	assert.Error(t, l.checkBalance(money.Must(0, "INR")))
	assert.Error(t, l.checkBalance(money.Must(-100, "INR")))
	assert.ErrorIs(t, l.checkBalance(money.Must(100, "USD")), money.ErrCurrencyMismatch)
}

func TestLedgerFind(t *testing.T) {
	l := NewLedger(money.Must(50000, "INR"))
	require.NoError(t, l.apply(Transaction{TransactionID: "tx-1", Amount: money.Must(10000, "INR")}))

	assert.NotNil(t, l.Find("tx-1"))
	assert.Nil(t, l.Find("tx-9"))
}
