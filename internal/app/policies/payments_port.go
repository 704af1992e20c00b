package policies

import (
	"context"
	"errors"

	"wayfare/internal/domain/shared/money"
)

// ErrGatewayCharge wraps any failure surfaced by the payment gateway.
// Gateways are an external boundary; retry policy belongs to them, not to
// this core.
var ErrGatewayCharge = errors.New("payments: gateway charge failed")

// ChargeResult is the gateway's acknowledgement of a successful charge.
type ChargeResult struct {
	GatewayTransactionID string
}

// PaymentGateway is the call contract of the external charge processor.
// Its internal protocol is not modeled here.
type PaymentGateway interface {
	Charge(ctx context.Context, amount money.Money, method string, transactionID string) (ChargeResult, error)
}
