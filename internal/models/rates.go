package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DayRatesResponse is the raw archive payload for one day, kept exactly as
// the API returned it. Normalization and filtering happen in the service.
type DayRatesResponse struct {
	Date         string      `json:"date"`
	Bank         string      `json:"bank,omitempty"`
	BaseCurrency int         `json:"baseCurrency,omitempty"`
	BaseCCYLit   string      `json:"baseCurrencyLit,omitempty"`
	ExchangeRate []RateEntry `json:"exchangeRate"`
}

// RateEntry carries both field-name generations the archive is known to
// emit: the national-bank pair and the bank's own pair. Either side may be
// missing for a given currency.
type RateEntry struct {
	BaseCCY        string           `json:"baseCurrency,omitempty"`
	Currency       string           `json:"currency"`
	SaleRateNB     *decimal.Decimal `json:"saleRateNB,omitempty"`
	PurchaseRateNB *decimal.Decimal `json:"purchaseRateNB,omitempty"`
	SaleRate       *decimal.Decimal `json:"saleRate,omitempty"`
	PurchaseRate   *decimal.Decimal `json:"purchaseRate,omitempty"`
}

// Sale resolves the sale rate through the schema candidates, national-bank
// field first.
func (e RateEntry) Sale() RateValue {
	return firstAvailable(e.SaleRateNB, e.SaleRate)
}

// Purchase resolves the purchase rate the same way as Sale.
func (e RateEntry) Purchase() RateValue {
	return firstAvailable(e.PurchaseRateNB, e.PurchaseRate)
}

func firstAvailable(candidates ...*decimal.Decimal) RateValue {
	for _, c := range candidates {
		if c != nil {
			return NewRateValue(*c)
		}
	}
	return UnavailableRate()
}

// RateValue is a decimal rate or an explicit "unavailable" marker for
// currencies the archive listed without a value.
type RateValue struct {
	value     decimal.Decimal
	available bool
}

func NewRateValue(d decimal.Decimal) RateValue {
	return RateValue{value: d, available: true}
}

func UnavailableRate() RateValue { return RateValue{} }

func (v RateValue) Available() bool { return v.available }

func (v RateValue) Decimal() decimal.Decimal { return v.value }

func (v RateValue) String() string {
	if !v.available {
		return "unavailable"
	}
	return v.value.String()
}

func (v RateValue) MarshalJSON() ([]byte, error) {
	if !v.available {
		return []byte(`"unavailable"`), nil
	}
	return []byte(v.value.String()), nil
}

type RateQuote struct {
	Sale     RateValue `json:"sale"`
	Purchase RateValue `json:"purchase"`
}

// DayReport is one date's filtered currency quotes. It serializes as a
// single-key object, {"01.12.2014": {"USD": {...}}}.
type DayReport struct {
	Date  string
	Rates map[CurrencyCode]RateQuote
}

func (d DayReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[CurrencyCode]RateQuote{d.Date: d.Rates})
}

// AggregateReport holds one DayReport per successfully parsed day, in
// request order: today first, oldest last.
type AggregateReport []DayReport
