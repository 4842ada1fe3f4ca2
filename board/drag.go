package board

import "taskly-api/domain"

// dragSession is the short-lived context of one drag gesture. It lives
// only in process memory and is consumed exactly once: by DropDrag on a
// successful drop or CancelDrag when the gesture is abandoned.
type dragSession struct {
	taskID string
	origin domain.ColumnID
}

// StartDrag opens a drag session for the task and returns its id. Returns
// false when the task does not exist.
func (s *Store) StartDrag(taskID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	origin, _, ok := s.findLocked(taskID)
	if !ok {
		return "", false
	}
	id := s.newID()
	s.drags[id] = dragSession{taskID: taskID, origin: origin}
	return id, true
}

// DropDrag consumes the session and moves its task to destIndex in the
// destination column. An unknown session id reports false with no state
// change; a session whose task was deleted mid-drag is consumed but moves
// nothing, matching the core's silent no-op policy. The error, when
// non-nil, is a persistence failure from the underlying move.
func (s *Store) DropDrag(dragID string, destColumnID domain.ColumnID, destIndex int) (bool, error) {
	s.mu.Lock()
	sess, ok := s.drags[dragID]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.drags, dragID)
	s.mu.Unlock()

	_, err := s.MoveTask(sess.taskID, destColumnID, destIndex)
	return true, err
}

// CancelDrag discards the session without touching the board. The
// placement previews run during the gesture have no persisted effect.
func (s *Store) CancelDrag(dragID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drags[dragID]; !ok {
		return false
	}
	delete(s.drags, dragID)
	return true
}

// DragOrigin reports the column the dragged task started in, for
// presentation-layer affordances. False when the session is unknown.
func (s *Store) DragOrigin(dragID string) (domain.ColumnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.drags[dragID]
	if !ok {
		return "", false
	}
	return sess.origin, true
}
