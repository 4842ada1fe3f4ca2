// Package board owns the canonical in-memory board state. Every mutation
// leaves the board consistent and is written through to the configured
// persister; persistence is best-effort and never rolls a mutation back.
package board

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskly-api/domain"
)

// Persister receives the serialized board after every mutation.
type Persister interface {
	Save(ctx context.Context, b domain.PersistedBoard) error
}

// Store is the authoritative owner of all columns and tasks. The column
// set is fixed at construction; tasks move between columns but never
// leave the store except through DeleteTask.
type Store struct {
	mu         sync.Mutex
	order      []domain.ColumnID
	inProgress domain.ColumnID
	columns    map[domain.ColumnID][]domain.Task
	drags      map[string]dragSession

	persister      Persister
	persistTimeout time.Duration
	logger         *log.Logger
	newID          func() string
}

// Option adjusts Store construction.
type Option func(*Store)

// WithPersistTimeout bounds each write-through to the persister.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// withIDFunc replaces task/drag id generation, for deterministic tests.
func withIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates an empty board with the given fixed column set.
// inProgress names the column whose tasks carry the in-progress flag; it
// may be empty or name a column outside the set, in which case no task is
// ever flagged. persister may be nil for a purely in-memory board.
func NewStore(columns []domain.ColumnID, inProgress domain.ColumnID, persister Persister, logger *log.Logger, opts ...Option) *Store {
	if len(columns) == 0 {
		panic("board.NewStore: at least one column is required")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	s := &Store{
		order:          make([]domain.ColumnID, 0, len(columns)),
		inProgress:     inProgress,
		columns:        make(map[domain.ColumnID][]domain.Task, len(columns)),
		drags:          make(map[string]dragSession),
		persister:      persister,
		persistTimeout: 5 * time.Second,
		logger:         logger,
		newID:          uuid.NewString,
	}
	for _, id := range columns {
		if _, dup := s.columns[id]; dup {
			continue
		}
		s.order = append(s.order, id)
		s.columns[id] = nil
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// HasColumn reports whether id names a known column.
func (s *Store) HasColumn(id domain.ColumnID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.columns[id]
	return ok
}

// Columns returns the column ids in display order.
func (s *Store) Columns() []domain.ColumnID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ColumnID, len(s.order))
	copy(out, s.order)
	return out
}

// AddTask appends a task with the trimmed text to the named column and
// returns its freshly assigned id. Text that trims empty and unknown
// columns are rejected with an empty id and no state change. The error,
// when non-nil, is a persistence failure; the task was still added.
func (s *Store) AddTask(columnID domain.ColumnID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	s.mu.Lock()
	if _, ok := s.columns[columnID]; !ok {
		s.mu.Unlock()
		return "", nil
	}
	task := domain.Task{
		ID:         s.newID(),
		Text:       text,
		InProgress: columnID == s.inProgress,
	}
	s.columns[columnID] = append(s.columns[columnID], task)
	snapshot := s.serializeLocked()
	s.mu.Unlock()

	return task.ID, s.persist(snapshot)
}

// RenameTask replaces the task's text with the trimmed newText. Text that
// trims empty leaves the task untouched, matching the inline-edit revert
// behavior. Returns whether the rename was applied; the error, when
// non-nil, is a persistence failure.
func (s *Store) RenameTask(taskID, newText string) (bool, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return false, nil
	}

	s.mu.Lock()
	col, idx, ok := s.findLocked(taskID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	s.columns[col][idx].Text = newText
	snapshot := s.serializeLocked()
	s.mu.Unlock()

	return true, s.persist(snapshot)
}

// MoveTask removes the task from its current column and inserts it at
// destIndex in the destination column, clamping the index into range. A
// move within one column is the same remove-then-insert and neither
// duplicates nor drops the task. The in-progress flag is re-derived from
// the destination. Unknown task or column ids are silent no-ops.
func (s *Store) MoveTask(taskID string, destColumnID domain.ColumnID, destIndex int) (bool, error) {
	s.mu.Lock()
	if _, ok := s.columns[destColumnID]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	col, idx, ok := s.findLocked(taskID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}

	task := s.columns[col][idx]
	s.columns[col] = append(s.columns[col][:idx], s.columns[col][idx+1:]...)

	dest := s.columns[destColumnID]
	if destIndex < 0 {
		destIndex = 0
	}
	if destIndex > len(dest) {
		destIndex = len(dest)
	}
	task.InProgress = destColumnID == s.inProgress
	dest = append(dest, domain.Task{})
	copy(dest[destIndex+1:], dest[destIndex:])
	dest[destIndex] = task
	s.columns[destColumnID] = dest

	snapshot := s.serializeLocked()
	s.mu.Unlock()

	return true, s.persist(snapshot)
}

// DeleteTask removes the task from its owning column. Unknown ids are a
// silent no-op and do not trigger a persist.
func (s *Store) DeleteTask(taskID string) (bool, error) {
	s.mu.Lock()
	col, idx, ok := s.findLocked(taskID)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	s.columns[col] = append(s.columns[col][:idx], s.columns[col][idx+1:]...)
	snapshot := s.serializeLocked()
	s.mu.Unlock()

	return true, s.persist(snapshot)
}

// Serialize returns the durable column-to-texts mapping in column order.
func (s *Store) Serialize() domain.PersistedBoard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serializeLocked()
}

// Hydrate replaces the whole board from a persisted blob. Persisted
// column ids without a matching known column are ignored; known columns
// absent from the blob start empty. Every task gets a fresh id and its
// in-progress flag re-derived from the column it lands in. Hydrate does
// not write back to the persister.
func (s *Store) Hydrate(persisted domain.PersistedBoard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		texts := persisted[string(id)]
		tasks := make([]domain.Task, 0, len(texts))
		for _, text := range texts {
			tasks = append(tasks, domain.Task{
				ID:         s.newID(),
				Text:       text,
				InProgress: id == s.inProgress,
			})
		}
		s.columns[id] = tasks
	}
}

// Snapshot returns a deep copy of the board for rendering.
func (s *Store) Snapshot() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := domain.Board{Columns: make([]domain.Column, 0, len(s.order))}
	for _, id := range s.order {
		tasks := make([]domain.Task, len(s.columns[id]))
		copy(tasks, s.columns[id])
		b.Columns = append(b.Columns, domain.Column{ID: id, Tasks: tasks})
	}
	return b
}

func (s *Store) serializeLocked() domain.PersistedBoard {
	out := make(domain.PersistedBoard, len(s.order))
	for _, id := range s.order {
		texts := make([]string, 0, len(s.columns[id]))
		for _, t := range s.columns[id] {
			texts = append(texts, t.Text)
		}
		out[string(id)] = texts
	}
	return out
}

func (s *Store) findLocked(taskID string) (domain.ColumnID, int, bool) {
	for _, id := range s.order {
		for i, t := range s.columns[id] {
			if t.ID == taskID {
				return id, i, true
			}
		}
	}
	return "", 0, false
}

// persist writes the snapshot through to the persister. Failures are
// logged and returned but the in-memory board stays authoritative for the
// rest of the session.
func (s *Store) persist(snapshot domain.PersistedBoard) error {
	if s.persister == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, snapshot); err != nil {
		s.logger.WithError(err).Warn("board persist failed; in-memory state remains authoritative")
		return err
	}
	return nil
}
