package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crypto-dash/internal/domain"
)

// Parámetros del proxy: TTL y tope por cache, timeout por tipo de lectura.
const (
	listTTL        = 5 * time.Minute
	listMaxEntries = 20
	listTimeout    = 15 * time.Second

	detailTTL        = 10 * time.Minute
	detailMaxEntries = 50
	detailTimeout    = 12 * time.Second
)

// Service es el proxy hacia la API de mercado: cache-first con TTL y
// degradación a datos viejos cuando el upstream falla o limita. Perder el
// cache sólo encarece las lecturas, nunca produce datos incorrectos.
type Service struct {
	logger   *zap.Logger
	upstream Upstream
	list     *ttlCache
	detail   *ttlCache
	now      func() time.Time
}

func NewService(logger *zap.Logger, upstream Upstream) *Service {
	return &Service{
		logger:   logger,
		upstream: upstream,
		list:     newTTLCache(listTTL, listMaxEntries),
		detail:   newTTLCache(detailTTL, detailMaxEntries),
		now:      time.Now,
	}
}

// WithClock inyecta el reloj, para controlar los TTL en tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Markets devuelve el listado de mercados para la moneda pedida.
func (s *Service) Markets(ctx context.Context, currency string) ([]domain.MarketEntry, error) {
	key := currency + "_250_all"
	now := s.now()

	if value, fresh, ok := s.list.Get(key, now); ok && fresh {
		return value.([]domain.MarketEntry), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	entries, err := s.upstream.Markets(fetchCtx, currency)
	if err != nil {
		if value, _, ok := s.list.Get(key, now); ok {
			s.logger.Warn("markets fetch failed, serving stale cache",
				zap.String("currency", currency), zap.Error(err))
			return value.([]domain.MarketEntry), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	s.list.Set(key, entries, s.now())
	return entries, nil
}

// Coin devuelve la ficha o la serie histórica de una moneda según kind
// ("details" o "chart").
func (s *Service) Coin(ctx context.Context, id, currency string, days int, kind string) (json.RawMessage, error) {
	key := fmt.Sprintf("%s_%s_%d_%s", id, currency, days, kind)
	now := s.now()

	if value, fresh, ok := s.detail.Get(key, now); ok && fresh {
		return value.(json.RawMessage), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	var payload json.RawMessage
	var err error
	if kind == "chart" {
		payload, err = s.upstream.MarketChart(fetchCtx, id, currency, days)
	} else {
		payload, err = s.upstream.CoinDetail(fetchCtx, id)
	}
	if err != nil {
		if value, _, ok := s.detail.Get(key, now); ok {
			s.logger.Warn("coin fetch failed, serving stale cache",
				zap.String("coin", id), zap.String("kind", kind), zap.Error(err))
			return value.(json.RawMessage), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	s.detail.Set(key, payload, s.now())
	return payload, nil
}
