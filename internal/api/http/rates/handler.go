package rates

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"service-rates/internal/cache"
	"service-rates/internal/metrics"
	"service-rates/internal/models"
	ratessvc "service-rates/internal/service/rates"
)

type Handler struct {
	rates             ratessvc.Reporter
	cache             *cache.MemoryCache
	m                 *metrics.Metrics
	defaultDays       int
	defaultCurrencies []string
}

func New(r ratessvc.Reporter, c *cache.MemoryCache, m *metrics.Metrics, defaultDays int, defaultCurrencies []string) *Handler {
	return &Handler{
		rates:             r,
		cache:             c,
		m:                 m,
		defaultDays:       defaultDays,
		defaultCurrencies: defaultCurrencies,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/v1/rates", h.getRates)
}

func (h *Handler) getRates(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	days := h.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.observe(r, h.writeErr(w, models.BizError("bad_request", "days must be an integer")), begin)
			return
		}
		days = parsed
	}

	codes := h.defaultCurrencies
	if raw := r.URL.Query().Get("currencies"); raw != "" {
		codes = strings.Split(raw, ",")
	}
	currencies := models.NewCurrencySet(codes)

	key := cache.Key(days, currencies)
	if report, ok := h.cache.Get(r.Context(), key); ok {
		h.m.CacheHitsTotal.Inc()
		h.observe(r, h.writeJSON(w, report), begin)
		return
	}

	report, err := h.rates.GetRates(r.Context(), days, currencies)
	if err != nil {
		h.observe(r, h.writeErr(w, err), begin)
		return
	}
	h.cache.Set(r.Context(), key, report)

	h.observe(r, h.writeJSON(w, report), begin)
}

func (h *Handler) writeJSON(w http.ResponseWriter, report models.AggregateReport) int {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(report)
	return http.StatusOK
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) int {
	status := http.StatusInternalServerError
	out := &models.BusinessError{Code: "internal_error", Message: err.Error()}

	var bizErr *models.BusinessError
	if errors.As(err, &bizErr) {
		status = http.StatusBadRequest
		out = bizErr
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)

	return status
}

func (h *Handler) observe(r *http.Request, status int, begin time.Time) {
	h.m.HTTPRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(status)).Inc()
	h.m.HTTPRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(begin).Seconds())
}
