package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"service-rates/internal/models"
)

// loggingService decorates a Reporter with request-level logging.
type loggingService struct {
	logger log.Logger
	next   Reporter
}

func NewLoggingService(logger log.Logger, next Reporter) Reporter {
	return &loggingService{logger: logger, next: next}
}

func (s *loggingService) GetRates(ctx context.Context, days int, currencies models.CurrencySet) (report models.AggregateReport, err error) {
	defer func(begin time.Time) {
		_ = s.logger.Log(
			"method", "get_rates",
			"days", days,
			"currencies", currencies.String(),
			"days_returned", len(report),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetRates(ctx, days, currencies)
}
