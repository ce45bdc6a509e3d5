package calendars

import (
	"context"
	"strconv"

	"github.com/Aidin1998/calendars/internal/cache"
	"github.com/Aidin1998/calendars/internal/events"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/Aidin1998/calendars/pkg/metrics"
	"go.uber.org/zap"
)

func idKey(id int32) string      { return "calendar:id:" + strconv.FormatInt(int64(id), 10) }
func nameKey(name string) string { return "calendar:name:" + name }

// Service implements the calendar operations on top of Storage, with a
// read-through cache for single-record lookups and best-effort change events.
type Service struct {
	storage   Storage
	cache     cache.Store
	publisher events.Publisher
	clock     Clock
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the default MonotonicClock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService wires a calendar service. A nil store or publisher disables that concern.
func NewService(storage Storage, store cache.Store, publisher events.Publisher, logger *zap.Logger, opts ...Option) *Service {
	if store == nil {
		store = cache.NopStore{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &Service{
		storage:   storage,
		cache:     store,
		publisher: publisher,
		clock:     &MonotonicClock{},
		logger:    logger.Named("calendars"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all calendars in the partial view, ordered by id. Never cached.
func (s *Service) List(ctx context.Context) ([]PartialCalendar, error) {
	calendars, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}
	if calendars == nil {
		calendars = []PartialCalendar{}
	}
	return calendars, nil
}

func (s *Service) GetByID(ctx context.Context, id int32) (*Calendar, error) {
	if cal, ok := s.cachedByID(ctx, id); ok {
		return cal, nil
	}

	cal, err := s.storage.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, idKey(cal.ID), cal)
	return cal, nil
}

// GetByName looks a calendar up by exact name. The cached name entry only
// points at an id; it is trusted only while that id still carries the name.
func (s *Service) GetByName(ctx context.Context, name string) (*Calendar, error) {
	var id int32
	hit, err := s.cache.Get(ctx, nameKey(name), &id)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.String("name", name), zap.Error(err))
	} else if hit {
		if cal, ok := s.cachedByID(ctx, id); ok && cal.Name == name {
			return cal, nil
		}
	}

	cal, err := s.storage.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, idKey(cal.ID), cal)
	s.remember(ctx, nameKey(name), cal.ID)
	return cal, nil
}

// Create stores a new calendar with created_at equal to updated_at.
func (s *Service) Create(ctx context.Context, in Input) (*Calendar, error) {
	now := s.clock.Now()
	cal := &Calendar{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.Create(ctx, cal); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.CalendarCreated, CalendarID: cal.ID, Name: cal.Name, OccurredAt: now})
	return cal, nil
}

// Update overwrites name and description of calendar id and refreshes updated_at.
func (s *Service) Update(ctx context.Context, id int32, in Input) error {
	now := s.clock.Now()
	if err := s.storage.Update(ctx, id, in, now); err != nil {
		return err
	}

	s.forget(ctx, idKey(id), nameKey(in.Name))
	s.publish(ctx, events.Event{Type: events.CalendarUpdated, CalendarID: id, Name: in.Name, OccurredAt: now})
	return nil
}

// Delete removes calendar id and returns what it held.
func (s *Service) Delete(ctx context.Context, id int32) (*DeletedCalendar, error) {
	deleted, err := s.storage.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.forget(ctx, idKey(deleted.ID), nameKey(deleted.Name))
	s.publish(ctx, events.Event{Type: events.CalendarDeleted, CalendarID: deleted.ID, Name: deleted.Name, OccurredAt: s.clock.Now()})
	return deleted, nil
}

func (s *Service) cachedByID(ctx context.Context, id int32) (*Calendar, bool) {
	var cal Calendar
	hit, err := s.cache.Get(ctx, idKey(id), &cal)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.Int32("id", id), zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &cal, true
}

func (s *Service) remember(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
	}
}

// forget drops cache entries after a write. A failure here can leave a stale
// id entry until its TTL expires, so it is logged at error.
func (s *Service) forget(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Error("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	outcome := "ok"
	if err := s.publisher.Publish(ctx, event); err != nil {
		outcome = "error"
		s.logger.Warn("event publish failed",
			zap.String("type", string(event.Type)),
			zap.Int32("id", event.CalendarID),
			zap.Error(err))
	}
	metrics.EventsPublished.WithLabelValues(string(event.Type), outcome).Inc()
}

// IsNotFound reports whether err means the calendar does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.NotFound)
}
