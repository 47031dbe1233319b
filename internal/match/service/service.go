// Package service owns the live match session and bridges it to
// persistence: the local snapshot slot on every mutation, and the remote
// sheet of record at session start, completion, and cancellation. Remote
// writes are single attempts whose failures propagate to the caller and
// block the corresponding transition; the snapshot is only cleared once
// the remote side has accepted the terminal write.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/screenwake"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNoSession indicates no session is active.
	ErrNoSession = errors.New("no active session")
	// ErrSessionActive indicates a session is already in progress.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoSnapshot indicates the snapshot slot is empty or unusable.
	ErrNoSnapshot = errors.New("no resumable snapshot")
)

// Stores bundles the persistence dependencies of the match service.
type Stores struct {
	Snapshot storage.SnapshotStore
	Tracking storage.TrackingStore
	Rows     storage.GameRowStore
}

// MatchService drives one live session at a time.
type MatchService struct {
	stores  Stores
	emitter *telemetry.Emitter
	screen  screenwake.Lock
	logger  *log.Logger
	clock   func() time.Time
	tracer  trace.Tracer

	session domain.Session
	active  bool

	// pending holds a loaded-but-unresolved snapshot between the resume
	// prompt and the user's choice. promptShown enforces one prompt per
	// load even if entry is re-triggered.
	pending     *domain.Session
	promptShown bool
}

// Option configures a MatchService.
type Option func(*MatchService)

// WithTelemetry wires an operational event emitter.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(s *MatchService) { s.emitter = emitter }
}

// WithScreenWake wires a keep-awake lock held while tracking is live.
func WithScreenWake(lock screenwake.Lock) Option {
	return func(s *MatchService) { s.screen = lock }
}

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *MatchService) { s.logger = logger }
}

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MatchService) { s.clock = clock }
}

// New creates a match service over the given stores.
func New(stores Stores, opts ...Option) *MatchService {
	s := &MatchService{
		stores: stores,
		screen: screenwake.Nop{},
		logger: log.Default(),
		clock:  time.Now,
		tracer: otel.Tracer("commander-sphere/match"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns a copy of the current session.
func (s *MatchService) Session() (domain.Session, error) {
	if !s.active {
		return domain.Session{}, ErrNoSession
	}
	return s.session, nil
}

// Active reports whether a session is in progress.
func (s *MatchService) Active() bool {
	return s.active
}

// saveSnapshot persists the current session into the slot. Snapshot writes
// are last-write-wins and never block a mutation; failures are logged.
func (s *MatchService) saveSnapshot(ctx context.Context) {
	if err := s.stores.Snapshot.SaveSnapshot(ctx, s.session); err != nil {
		s.logger.Printf("save snapshot: %v", err)
	}
}

func (s *MatchService) emit(ctx context.Context, name string, attrs map[string]string) {
	if err := s.emitter.EmitSession(ctx, name, s.session.GroupID, s.session.ID, attrs); err != nil {
		s.logger.Printf("emit %s: %v", name, err)
	}
}

// nextGameID derives the next game id for the group from the sheet.
func (s *MatchService) nextGameID(ctx context.Context, groupID string, gameDate time.Time) (string, error) {
	refs, err := s.stores.Rows.ListGames(ctx, groupID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(refs))
	dates := make([]time.Time, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
		dates = append(dates, ref.Date)
	}
	return domain.NextGameID(ids, dates, gameDate), nil
}
