package rates_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-rates/internal/clients/privatbank"
	"service-rates/internal/metrics"
	"service-rates/internal/models"
	"service-rates/internal/service/rates"
)

// promauto registers against the default registry, so the test binary gets
// exactly one Metrics instance.
var testMetrics = metrics.NewMetrics()

type stubSource struct {
	mu       sync.Mutex
	calls    int
	failing  map[string]bool
	payloads map[string]*models.DayRatesResponse
	delays   map[string]time.Duration
}

func (s *stubSource) Fetch(_ context.Context, _ *http.Client, date models.ArchiveDate) (*models.DayRatesResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	key := date.String()
	if d, ok := s.delays[key]; ok {
		time.Sleep(d)
	}
	if s.failing[key] {
		return nil, &privatbank.StatusError{URL: "stub://" + key, StatusCode: http.StatusServiceUnavailable}
	}
	payload, ok := s.payloads[key]
	if !ok {
		return nil, &privatbank.ConnectionError{URL: "stub://" + key, Err: context.DeadlineExceeded}
	}
	return payload, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func usdGbpPayload(date models.ArchiveDate) *models.DayRatesResponse {
	return &models.DayRatesResponse{
		Date: date.String(),
		Bank: "PB",
		ExchangeRate: []models.RateEntry{
			{Currency: "USD", SaleRateNB: dec("27.5"), PurchaseRateNB: dec("27.0")},
			{Currency: "GBP", SaleRateNB: dec("35.0"), PurchaseRateNB: dec("34.5")},
		},
	}
}

func newService(src rates.RateSource) *rates.Service {
	return rates.New(src, log.NewNopLogger(), testMetrics)
}

func TestService_GetRates_DaysOutOfRange(t *testing.T) {
	for _, days := range []int{0, 11, -1} {
		src := &stubSource{}
		svc := newService(src)

		report, err := svc.GetRates(context.Background(), days, models.NewCurrencySet([]string{"USD"}))

		require.Error(t, err)
		assert.ErrorIs(t, err, rates.ErrDaysOutOfRange)
		assert.Nil(t, report)
		assert.Equal(t, 0, src.callCount(), "days=%d must not hit the network", days)
	}
}

func TestService_GetRates_FiltersToRequestedCurrencies(t *testing.T) {
	dates := models.DatesBack(time.Now(), 3)
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{}}
	for _, d := range dates {
		src.payloads[d.String()] = usdGbpPayload(d)
	}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 3, models.NewCurrencySet([]string{"USD", "EUR"}))

	require.NoError(t, err)
	require.Len(t, report, 3)
	assert.Equal(t, 3, src.callCount())

	for i, day := range report {
		assert.Equal(t, dates[i].String(), day.Date)
		require.Len(t, day.Rates, 1, "GBP was not requested, EUR not in payload")

		quote, ok := day.Rates["USD"]
		require.True(t, ok)
		assert.True(t, quote.Sale.Decimal().Equal(decimal.RequireFromString("27.5")))
		assert.True(t, quote.Purchase.Decimal().Equal(decimal.RequireFromString("27.0")))
	}
}

func TestService_GetRates_SingleFailureDoesNotPoisonSiblings(t *testing.T) {
	dates := models.DatesBack(time.Now(), 4)
	src := &stubSource{
		payloads: map[string]*models.DayRatesResponse{},
		failing:  map[string]bool{dates[1].String(): true},
	}
	for _, d := range dates {
		src.payloads[d.String()] = usdGbpPayload(d)
	}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 4, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err, "per-day failures never surface to the caller")
	require.Len(t, report, 3)
	assert.Equal(t, 4, src.callCount(), "the failing day must not cancel siblings")

	want := []string{dates[0].String(), dates[2].String(), dates[3].String()}
	for i, day := range report {
		assert.Equal(t, want[i], day.Date)
	}
}

func TestService_GetRates_OddOffsetsFailing(t *testing.T) {
	dates := models.DatesBack(time.Now(), 10)
	src := &stubSource{
		payloads: map[string]*models.DayRatesResponse{},
		failing:  map[string]bool{},
	}
	for i, d := range dates {
		if i%2 == 1 {
			src.failing[d.String()] = true
			continue
		}
		src.payloads[d.String()] = usdGbpPayload(d)
	}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 10, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err)
	require.Len(t, report, 5)
	for i, day := range report {
		assert.Equal(t, dates[2*i].String(), day.Date, "surviving days keep request order")
	}
}

func TestService_GetRates_OrderIsRequestOrderNotCompletionOrder(t *testing.T) {
	dates := models.DatesBack(time.Now(), 5)
	src := &stubSource{
		payloads: map[string]*models.DayRatesResponse{},
		delays:   map[string]time.Duration{},
	}
	// Most recent day finishes last.
	for i, d := range dates {
		src.payloads[d.String()] = usdGbpPayload(d)
		src.delays[d.String()] = time.Duration(len(dates)-i) * 10 * time.Millisecond
	}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 5, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err)
	require.Len(t, report, 5)
	for i, day := range report {
		assert.Equal(t, dates[i].String(), day.Date)
	}
}

func TestService_GetRates_MissingSaleIsUnavailableNotError(t *testing.T) {
	date := models.DatesBack(time.Now(), 1)[0]
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{
		date.String(): {
			Date: date.String(),
			ExchangeRate: []models.RateEntry{
				{Currency: "USD", PurchaseRateNB: dec("27.0")},
			},
		},
	}}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 1, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err)
	require.Len(t, report, 1)

	quote := report[0].Rates["USD"]
	assert.False(t, quote.Sale.Available())
	assert.Equal(t, "unavailable", quote.Sale.String())
	assert.True(t, quote.Purchase.Available())
}

func TestService_GetRates_BankFieldsFallback(t *testing.T) {
	date := models.DatesBack(time.Now(), 1)[0]
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{
		date.String(): {
			Date: date.String(),
			ExchangeRate: []models.RateEntry{
				{Currency: "EUR", SaleRate: dec("43.7"), PurchaseRate: dec("42.9")},
			},
		},
	}}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 1, models.NewCurrencySet([]string{"EUR"}))

	require.NoError(t, err)
	require.Len(t, report, 1)

	quote := report[0].Rates["EUR"]
	assert.True(t, quote.Sale.Decimal().Equal(decimal.RequireFromString("43.7")))
	assert.True(t, quote.Purchase.Decimal().Equal(decimal.RequireFromString("42.9")))
}

func TestService_GetRates_StructurallyInvalidPayloadDropped(t *testing.T) {
	dates := models.DatesBack(time.Now(), 3)
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{
		// No date label.
		dates[0].String(): {ExchangeRate: []models.RateEntry{{Currency: "USD", SaleRateNB: dec("27.5")}}},
		// No rate list.
		dates[1].String(): {Date: dates[1].String()},
		dates[2].String(): usdGbpPayload(dates[2]),
	}}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 3, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, dates[2].String(), report[0].Date)
}

func TestService_GetRates_EmptyCurrencySet(t *testing.T) {
	date := models.DatesBack(time.Now(), 1)[0]
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{
		date.String(): usdGbpPayload(date),
	}}

	svc := newService(src)
	report, err := svc.GetRates(context.Background(), 1, models.NewCurrencySet(nil))

	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Empty(t, report[0].Rates)
}

func TestService_GetRates_Deterministic(t *testing.T) {
	dates := models.DatesBack(time.Now(), 3)
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{}}
	for _, d := range dates {
		src.payloads[d.String()] = usdGbpPayload(d)
	}

	svc := newService(src)
	currencies := models.NewCurrencySet([]string{"USD", "GBP"})

	first, err := svc.GetRates(context.Background(), 3, currencies)
	require.NoError(t, err)
	second, err := svc.GetRates(context.Background(), 3, currencies)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestLoggingService_Delegates(t *testing.T) {
	date := models.DatesBack(time.Now(), 1)[0]
	src := &stubSource{payloads: map[string]*models.DayRatesResponse{
		date.String(): usdGbpPayload(date),
	}}

	svc := rates.NewLoggingService(log.NewNopLogger(), newService(src))
	report, err := svc.GetRates(context.Background(), 1, models.NewCurrencySet([]string{"USD"}))

	require.NoError(t, err)
	require.Len(t, report, 1)

	_, err = svc.GetRates(context.Background(), 0, models.NewCurrencySet([]string{"USD"}))
	assert.ErrorIs(t, err, rates.ErrDaysOutOfRange)
}
