// Package marketplace implements the catalog queries, the per-user cart and
// the checkout/booking transactions on top of a store.Storage.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/agbado/pkg/store"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CartCache stores rendered carts keyed by user.
type CartCache interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	SetCart(ctx context.Context, userID string, cart *CartView) error
	DeleteCart(ctx context.Context, userID string) error
}

// AuditSink persists a trail of completed transactions.
type AuditSink interface {
	Record(ctx context.Context, ev Event) error
}

// Notifier delivers user-facing notifications. Implementations must not
// block.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type EventKind string

const (
	EventOrderPlaced    EventKind = "order_placed"
	EventBookingCreated EventKind = "booking_created"
	EventUserRegistered EventKind = "user_registered"
)

// Event describes a completed transaction.
type Event struct {
	Kind     EventKind
	UserID   string
	EntityID string
	Amount   int
	At       time.Time
}

type Service struct {
	store    store.Storage
	cache    CartCache
	audit    AuditSink
	notifier Notifier
	logger   *zap.Logger

	locks *userLocks
	sfg   singleflight.Group

	auditSize int
	auditMu   sync.RWMutex
	auditQ    chan Event
	auditDone chan struct{}
	closed    bool
}

const defaultAuditQueue = 256

type Option func(*Service)

func WithCartCache(c CartCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithAuditSink(a AuditSink) Option {
	return func(s *Service) { s.audit = a }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAuditQueue bounds the number of events waiting for the audit sink.
// Events published while the queue is full are dropped.
func WithAuditQueue(size int) Option {
	return func(s *Service) { s.auditSize = size }
}

func NewService(st store.Storage, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  st,
		logger: logger.Named("marketplace"),
		locks:  newUserLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.audit != nil {
		if s.auditSize <= 0 {
			s.auditSize = defaultAuditQueue
		}
		s.auditQ = make(chan Event, s.auditSize)
		s.auditDone = make(chan struct{})
		go s.recordAudit()
	}
	return s
}

// Close flushes queued audit events. Events published afterwards are not
// recorded.
func (s *Service) Close() {
	s.auditMu.Lock()
	if s.closed || s.auditQ == nil {
		s.closed = true
		s.auditMu.Unlock()
		return
	}
	s.closed = true
	close(s.auditQ)
	s.auditMu.Unlock()
	<-s.auditDone
}

// lookup upgrades store absence into a typed not-found error.
func lookup[T any](row *T, err error, kind, id string) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	return row, nil
}

func (s *Service) publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if s.notifier != nil {
		s.notifier.Notify(context.Background(), ev)
	}
	s.enqueueAudit(ev)
}

func (s *Service) enqueueAudit(ev Event) {
	s.auditMu.RLock()
	defer s.auditMu.RUnlock()
	if s.auditQ == nil || s.closed {
		return
	}
	select {
	case s.auditQ <- ev:
	default:
		s.logger.Warn("Audit queue full, dropping event",
			zap.String("kind", string(ev.Kind)),
			zap.String("entity_id", ev.EntityID))
	}
}

func (s *Service) recordAudit() {
	defer close(s.auditDone)
	for ev := range s.auditQ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.audit.Record(ctx, ev); err != nil {
			s.logger.Warn("Failed to record audit event",
				zap.String("kind", string(ev.Kind)),
				zap.String("entity_id", ev.EntityID),
				zap.Error(err))
		}
		cancel()
	}
}
