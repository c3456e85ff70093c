package rates

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"golang.org/x/sync/errgroup"

	"service-rates/internal/metrics"
	"service-rates/internal/models"
)

const (
	// MaxDays is the deepest the archive is queried in one call.
	MaxDays = 10

	fetchTimeout = 15 * time.Second
)

var ErrDaysOutOfRange = models.BizError("days_out_of_range", "days must be between 1 and 10")

// RateSource fetches the raw archive payload for a single date. The session
// is owned by the caller and shared across concurrent fetches.
type RateSource interface {
	Fetch(ctx context.Context, session *http.Client, date models.ArchiveDate) (*models.DayRatesResponse, error)
}

// Reporter is the caller-facing contract of the aggregation service.
type Reporter interface {
	GetRates(ctx context.Context, days int, currencies models.CurrencySet) (models.AggregateReport, error)
}

type Service struct {
	source RateSource
	logger log.Logger
	m      *metrics.Metrics
}

func New(source RateSource, logger log.Logger, m *metrics.Metrics) *Service {
	return &Service{source: source, logger: logger, m: m}
}

// GetRates fetches the last days of the archive concurrently, one request
// per date, and reduces the successful payloads into a report filtered to
// the requested currencies.
//
// A failed or malformed day is logged and dropped; it never fails the call
// and never cancels the sibling fetches. The report keeps request order
// (today first), not completion order, so identical calls produce identical
// output regardless of network timing.
func (s *Service) GetRates(ctx context.Context, days int, currencies models.CurrencySet) (models.AggregateReport, error) {
	if days < 1 || days > MaxDays {
		return nil, ErrDaysOutOfRange
	}
	s.m.ReportRequestsTotal.Inc()

	dates := models.DatesBack(time.Now(), days)

	// The session lives for exactly one aggregation run.
	session := &http.Client{Timeout: fetchTimeout}
	defer session.CloseIdleConnections()

	payloads := make([]*models.DayRatesResponse, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			payload, err := s.source.Fetch(gctx, session, date)
			if err != nil {
				s.m.FetchFailuresTotal.Inc()
				_ = s.logger.Log("msg", "day fetch dropped", "date", date.String(), "reason", err)
				return nil
			}
			payloads[i] = payload
			return nil
		})
	}
	// Join barrier. The goroutines absorb their own failures, so Wait never
	// returns an error and no branch cancels another.
	_ = g.Wait()

	report := make(models.AggregateReport, 0, len(dates))
	for i, payload := range payloads {
		if payload == nil {
			continue
		}

		day, err := buildDayReport(payload, currencies)
		if err != nil {
			s.m.DaysDroppedTotal.Inc()
			_ = s.logger.Log("msg", "day payload dropped", "date", dates[i].String(), "reason", err)
			continue
		}
		report = append(report, day)
	}

	return report, nil
}

func buildDayReport(payload *models.DayRatesResponse, currencies models.CurrencySet) (models.DayReport, error) {
	if payload.Date == "" {
		return models.DayReport{}, errors.New("payload has no date label")
	}
	if payload.ExchangeRate == nil {
		return models.DayReport{}, errors.New("payload has no exchangeRate list")
	}

	quotes := make(map[models.CurrencyCode]models.RateQuote)
	for _, entry := range payload.ExchangeRate {
		ccy := models.NewCurrencyCode(entry.Currency)
		if !currencies.Contains(ccy) {
			continue
		}
		quotes[ccy] = models.RateQuote{
			Sale:     entry.Sale(),
			Purchase: entry.Purchase(),
		}
	}

	return models.DayReport{Date: payload.Date, Rates: quotes}, nil
}
