package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money keeps amounts in integer minor units (paise, cents) to avoid
// floating point drift in ledger arithmetic.
type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: strings.ToUpper(currency)}
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Multiply multiplies the amount by the provided integer factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// Percent returns the given percentage of the amount, rounded half-up.
func (m Money) Percent(pct int64) Money {
	return m.Scale(pct, 100)
}

// Scale multiplies the amount by num/den, rounding half away from zero.
// den must be positive.
func (m Money) Scale(num, den int64) Money {
	if den <= 0 {
		panic(fmt.Sprintf("money: non-positive denominator %d", den))
	}
	product := m.Amount * num
	half := den / 2
	var scaled int64
	if product >= 0 {
		scaled = (product + half) / den
	} else {
		scaled = (product - half) / den
	}
	return Money{Amount: scaled, Currency: m.Currency}
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// WithinTolerance reports whether the two amounts differ by at most tol
// minor units. Currency mismatch is never within tolerance.
func (m Money) WithinTolerance(other Money, tol int64) bool {
	if m.Currency != other.Currency {
		return false
	}
	diff := m.Amount - other.Amount
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}

func (m Money) String() string {
	sign := ""
	if m.Amount < 0 {
		sign = "-"
	}
	units := abs(m.Amount)
	return fmt.Sprintf("%s%d.%02d %s", sign, units/100, units%100, m.Currency)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}
