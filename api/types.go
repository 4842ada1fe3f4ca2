package api

import "taskly-api/domain"

// Board is the store surface the handlers render and mutate.
type Board interface {
	Snapshot() domain.Board
	Serialize() domain.PersistedBoard
	HasColumn(id domain.ColumnID) bool
	AddTask(columnID domain.ColumnID, text string) (string, error)
	RenameTask(taskID, newText string) (bool, error)
	MoveTask(taskID string, destColumnID domain.ColumnID, destIndex int) (bool, error)
	DeleteTask(taskID string) (bool, error)
	StartDrag(taskID string) (string, bool)
	DropDrag(dragID string, destColumnID domain.ColumnID, destIndex int) (bool, error)
	CancelDrag(dragID string) bool
}
