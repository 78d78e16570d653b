package session

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"datajoin/core/join"
	"datajoin/core/reconcile"
	"datajoin/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Selection names a record selection.
type Selection string

const (
	SelectAll   Selection = "all"
	SelectEnter Selection = "enter"
	SelectExit  Selection = "exit"
)

var (
	// ErrInvalidSelection is returned for an unknown selection name.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrClosed is returned when binding to a session that was deleted.
	ErrClosed = errors.New("session closed")
)

// Session is one named join over JSON objects.
type Session struct {
	id        string
	key       string
	createdAt time.Time
	logger    *zap.Logger

	mu       sync.Mutex
	join     *join.Join[string, map[string]any]
	records  *join.Objects[string, map[string]any, *Record]
	rule     join.Rule[string, map[string]any]
	built    int
	released int
	closed   bool
}

func newSession(key string, logger *zap.Logger) *Session {
	s := &Session{
		id:        uuid.NewString(),
		key:       key,
		createdAt: time.Now(),
		join:      join.New(join.WithEqual[string](sameObject)),
	}
	s.logger = logger.With(zap.String("session", s.id))
	s.rule = join.Func(s.identity)
	s.records = join.WithFactory(s.join, s.build, s.release)
	return s
}

// sameObject compares decoded JSON by content; every bind decodes fresh maps.
func sameObject(a, b map[string]any) bool {
	return reflect.DeepEqual(a, b)
}

func (s *Session) identity(obj map[string]any) (string, error) {
	v, ok := obj[s.key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %q", join.ErrFieldNotFound, s.key)
	}
	return utils.ToString(v), nil
}

func (s *Session) build(obj map[string]any) (*Record, error) {
	key, err := s.identity(obj)
	if err != nil {
		return nil, err
	}
	s.built++
	return &Record{
		ID:        uuid.NewString(),
		Key:       key,
		Data:      obj,
		Revision:  s.built,
		CreatedAt: time.Now(),
	}, nil
}

func (s *Session) release(r *Record) error {
	s.released++
	s.logger.Debug("Record released", zap.String("key", r.Key), zap.String("record", r.ID))
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Bind reconciles objects against the previously bound collection.
func (s *Session) Bind(objects []map[string]any) (*reconcile.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, s.id)
	}
	return s.bind(objects)
}

func (s *Session) bind(objects []map[string]any) (*reconcile.Report, error) {
	if err := s.join.Bind(objects, s.rule); err != nil {
		return nil, err
	}
	return reconcile.NewReport(s.id, s.join), nil
}

// Data returns the bound objects in bound order.
func (s *Session) Data() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.join.Data()
}

// Records returns the records of the given selection.
func (s *Session) Records(sel Selection) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch sel {
	case SelectAll, "":
		return s.records.All()
	case SelectEnter:
		return s.records.Enter()
	case SelectExit:
		return s.records.Exit()
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, sel)
	}
}

// Info describes the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.id,
		Key:       s.key,
		Size:      s.join.Len(),
		Version:   s.join.Version(),
		Released:  s.released,
		CreatedAt: s.createdAt,
	}
}

// Close binds an empty collection, releasing every record. Later binds fail with
// ErrClosed.
func (s *Session) Close() (*reconcile.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, s.id)
	}
	report, err := s.bind(nil)
	if err != nil {
		return nil, err
	}
	s.closed = true
	return report, nil
}
