package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/models"
)

// OccupancyCache wraps a CalendarStore with a redis read-through cache for
// OccupiedIntervals. Entries are keyed by a per-barber version that every successful
// reservation or status change bumps, so a write makes all earlier entries unreachable.
// Reservations always go to the underlying store.
//
// A missing version key is seeded with the current unix nanos, so an evicted key never
// comes back at a generation whose entries may still be cached.
type OccupancyCache struct {
	next   domain.CalendarStore
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewOccupancyCache(next domain.CalendarStore, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *OccupancyCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OccupancyCache{next: next, rdb: rdb, ttl: ttl, logger: logger, now: time.Now}
}

type cachedInterval struct {
	Start time.Time `json:"s"`
	End   time.Time `json:"e"`
}

func versionKey(barberID uint) string {
	return fmt.Sprintf("occ:%d:v", barberID)
}

func entryKey(barberID uint, version int64, window domain.Interval) string {
	return fmt.Sprintf("occ:%d:%d:%d:%d", barberID, version, window.Start.Unix(), window.End.Unix())
}

func (c *OccupancyCache) OccupiedIntervals(ctx context.Context, barberID uint, window domain.Interval) ([]domain.Interval, error) {
	version, err := c.version(ctx, barberID)
	if err != nil {
		c.logger.Warn("occupancy cache unavailable", "barber_id", barberID, "err", err)
		return c.next.OccupiedIntervals(ctx, barberID, window)
	}

	key := entryKey(barberID, version, window)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []cachedInterval
		if err := json.Unmarshal(raw, &cached); err == nil {
			out := make([]domain.Interval, len(cached))
			for i, ci := range cached {
				out[i] = domain.Interval{Start: ci.Start, End: ci.End}
			}
			return out, nil
		}
	}

	ivs, err := c.next.OccupiedIntervals(ctx, barberID, window)
	if err != nil {
		return nil, err
	}

	payload := make([]cachedInterval, len(ivs))
	for i, iv := range ivs {
		payload[i] = cachedInterval{Start: iv.Start, End: iv.End}
	}
	if raw, err := json.Marshal(payload); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("occupancy cache write failed", "barber_id", barberID, "err", err)
		}
	}
	return ivs, nil
}

func (c *OccupancyCache) TryReserve(ctx context.Context, req domain.ReserveRequest) (*models.Appointment, error) {
	ap, err := c.next.TryReserve(ctx, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, req.BarberID)
	return ap, nil
}

func (c *OccupancyCache) UpdateStatus(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	if err := c.next.UpdateStatus(ctx, ap, from); err != nil {
		return err
	}
	c.invalidate(ctx, ap.BarberID)
	return nil
}

func (c *OccupancyCache) GetAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.Appointment, error) {
	return c.next.GetAppointment(ctx, barbershopID, appointmentID)
}

func (c *OccupancyCache) ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	return c.next.ListAppointments(ctx, f)
}

// invalidate runs after the store committed, so it ignores the request context.
func (c *OccupancyCache) invalidate(ctx context.Context, barberID uint) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	key := versionKey(barberID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, c.now().UnixNano(), 0)
		pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		c.logger.Error("occupancy cache invalidation failed", "barber_id", barberID, "err", err)
	}
}

func (c *OccupancyCache) version(ctx context.Context, barberID uint) (int64, error) {
	key := versionKey(barberID)
	v, err := c.rdb.Get(ctx, key).Int64()
	if !errors.Is(err, redis.Nil) {
		return v, err
	}
	if err := c.rdb.SetNX(ctx, key, c.now().UnixNano(), 0).Err(); err != nil {
		return 0, err
	}
	return c.rdb.Get(ctx, key).Int64()
}

var _ domain.CalendarStore = (*OccupancyCache)(nil)
