package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wayfare/internal/app/policies"
	"wayfare/internal/domain/shared/money"
)

// StubGateway simulates the external charge processor for local and demo
// environments. It approves every well-formed charge; a production
// deployment swaps in a real gateway adapter behind the same port.
type StubGateway struct {
	Logger *slog.Logger
}

func (g StubGateway) Charge(ctx context.Context, amount money.Money, method string, transactionID string) (policies.ChargeResult, error) {
	if amount.Amount <= 0 {
		return policies.ChargeResult{}, fmt.Errorf("payments: non-positive charge %s", amount)
	}
	if transactionID == "" {
		return policies.ChargeResult{}, fmt.Errorf("payments: transaction id required")
	}
	ref := fmt.Sprintf("PAY-%d", time.Now().UnixNano())
	if g.Logger != nil {
		g.Logger.Debug("stub gateway charge approved", "amount", amount.String(), "method", method, "transaction_id", transactionID, "gateway_ref", ref)
	}
	return policies.ChargeResult{GatewayTransactionID: ref}, nil
}

var _ policies.PaymentGateway = StubGateway{}
