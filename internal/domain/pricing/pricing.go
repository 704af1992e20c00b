package pricing

import (
	"errors"
	"fmt"

	"wayfare/internal/domain/shared/money"
)

var (
	ErrCurrencyUnset     = errors.New("pricing: currency must be defined")
	ErrNoAdults          = errors.New("pricing: at least one adult traveler required")
	ErrNegativeTravelers = errors.New("pricing: traveler counts cannot be negative")
	ErrInvalidRooms      = errors.New("pricing: rooms must be positive")
	ErrFlightClass       = errors.New("pricing: unknown flight class")
	ErrAccommodation     = errors.New("pricing: unknown accommodation type")
)

// Tolerance is the maximum difference, in minor units, allowed between a
// caller-supplied total and the computed one.
const Tolerance = 1

// Fixed-rate surcharges applied to the pre-tax subtotal.
const (
	taxPercent         = 18
	platformFeePercent = 2
)

// FlightBaseRate is the per-traveler economy fare in whole currency units.
const FlightBaseRate = 15000

type AccommodationType string

const (
	AccommodationBudget   AccommodationType = "BUDGET"
	AccommodationMidRange AccommodationType = "MID_RANGE"
	AccommodationLuxury   AccommodationType = "LUXURY"
)

type FlightClass string

const (
	FlightEconomy  FlightClass = "ECONOMY"
	FlightBusiness FlightClass = "BUSINESS"
	FlightFirst    FlightClass = "FIRST"
)

// Travelers is the party composition a quote is computed for.
type Travelers struct {
	Adults   int `json:"adults" bson:"adults"`
	Children int `json:"children" bson:"children"`
	Infants  int `json:"infants" bson:"infants"`
}

func (t Travelers) Total() int {
	return t.Adults + t.Children + t.Infants
}

func (t Travelers) Validate() error {
	if t.Children < 0 || t.Infants < 0 || t.Adults < 0 {
		return ErrNegativeTravelers
	}
	if t.Adults < 1 {
		return ErrNoAdults
	}
	return nil
}

// QuoteInput carries everything the calculator needs; it never reaches for
// external state, so identical input always yields an identical quote.
type QuoteInput struct {
	Travelers      Travelers
	AdultPrice     money.Money
	Accommodation  AccommodationType
	Rooms          int
	FlightRequired bool
	FlightClass    FlightClass
	Discounts      money.Money
}

// Breakdown is the per-component cost split carried on the booking.
type Breakdown struct {
	PackageCost        money.Money `json:"package_cost" bson:"package_cost"`
	AccommodationCost  money.Money `json:"accommodation_cost" bson:"accommodation_cost"`
	TransportationCost money.Money `json:"transportation_cost" bson:"transportation_cost"`
	AdditionalServices money.Money `json:"additional_services" bson:"additional_services"`
}

// Quote is the full monetary result of a pricing run.
type Quote struct {
	BasePrice money.Money `json:"base_price" bson:"base_price"`
	Taxes     money.Money `json:"taxes" bson:"taxes"`
	Fees      money.Money `json:"fees" bson:"fees"`
	Discounts money.Money `json:"discounts" bson:"discounts"`
	Total     money.Money `json:"total" bson:"total"`
	Currency  string      `json:"currency" bson:"currency"`
	Breakdown Breakdown   `json:"breakdown" bson:"breakdown"`
}

// MismatchError reports a caller-supplied total diverging from the computed
// quote beyond Tolerance.
type MismatchError struct {
	Computed money.Money
	Provided money.Money
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("pricing: total mismatch: computed %s, provided %s", e.Computed, e.Provided)
}

// Calculate runs the multi-factor pricing formula:
// traveler cost (children 70%, infants 10% of adult fare), accommodation
// uplift per room, flight cost per traveler and class, then 18% tax and 2%
// platform fee on the subtotal, minus discounts.
func Calculate(in QuoteInput) (Quote, error) {
	if in.AdultPrice.Currency == "" {
		return Quote{}, ErrCurrencyUnset
	}
	if err := in.Travelers.Validate(); err != nil {
		return Quote{}, err
	}
	if in.Rooms < 1 {
		return Quote{}, ErrInvalidRooms
	}

	childPrice := in.AdultPrice.Percent(70)
	infantPrice := in.AdultPrice.Percent(10)

	travelerCost := in.AdultPrice.Multiply(int64(in.Travelers.Adults))
	travelerCost, _ = travelerCost.Add(childPrice.Multiply(int64(in.Travelers.Children)))
	travelerCost, _ = travelerCost.Add(infantPrice.Multiply(int64(in.Travelers.Infants)))

	upliftPct, err := accommodationUpliftPercent(in.Accommodation)
	if err != nil {
		return Quote{}, err
	}
	accommodationCost := travelerCost.Percent(upliftPct).Multiply(int64(in.Rooms))

	transportationCost := money.Zero(in.AdultPrice.Currency)
	if in.FlightRequired {
		mult, err := flightClassMultiplier(in.FlightClass)
		if err != nil {
			return Quote{}, err
		}
		perTraveler := money.Money{Amount: FlightBaseRate * 100, Currency: in.AdultPrice.Currency}
		transportationCost = perTraveler.Multiply(int64(in.Travelers.Total()) * mult)
	}

	additional := money.Zero(in.AdultPrice.Currency)

	subtotal := travelerCost
	subtotal, _ = subtotal.Add(accommodationCost)
	subtotal, _ = subtotal.Add(transportationCost)
	subtotal, _ = subtotal.Add(additional)

	taxes := subtotal.Percent(taxPercent)
	fees := subtotal.Percent(platformFeePercent)

	// Edges submit discount amounts in minor units without repeating the
	// currency; an unset currency inherits the package currency so the
	// discount applies instead of vanishing. A mismatched currency still
	// fails the subtraction below.
	discounts := in.Discounts
	if discounts.Currency == "" {
		discounts.Currency = in.AdultPrice.Currency
	}
	total, _ := subtotal.Add(taxes)
	total, _ = total.Add(fees)
	total, err = total.Sub(discounts)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		BasePrice: subtotal,
		Taxes:     taxes,
		Fees:      fees,
		Discounts: discounts,
		Total:     total,
		Currency:  in.AdultPrice.Currency,
		Breakdown: Breakdown{
			PackageCost:        travelerCost,
			AccommodationCost:  accommodationCost,
			TransportationCost: transportationCost,
			AdditionalServices: additional,
		},
	}, nil
}

// Verify compares a caller-supplied total against a freshly computed quote.
func Verify(in QuoteInput, providedTotal money.Money) (Quote, error) {
	quote, err := Calculate(in)
	if err != nil {
		return Quote{}, err
	}
	if !quote.Total.WithinTolerance(providedTotal, Tolerance) {
		return Quote{}, &MismatchError{Computed: quote.Total, Provided: providedTotal}
	}
	return quote, nil
}

// accommodationUpliftPercent is the multiplier minus one, in percent:
// the share of traveler cost added per room on top of the base stay.
func accommodationUpliftPercent(t AccommodationType) (int64, error) {
	switch t {
	case AccommodationBudget:
		return 0, nil
	case AccommodationMidRange:
		return 50, nil
	case AccommodationLuxury:
		return 150, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrAccommodation, t)
	}
}

func flightClassMultiplier(c FlightClass) (int64, error) {
	switch c {
	case FlightEconomy:
		return 1, nil
	case FlightBusiness:
		return 2, nil
	case FlightFirst:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrFlightClass, c)
	}
}
