package api

import "taskly-api/placement"

const requestMaxSize = 64 * 1024 // 64 KiB

type addTaskRequest struct {
	Text string `json:"text"`
}

type addTaskResponse struct {
	ID string `json:"id"`
}

type renameTaskRequest struct {
	Text string `json:"text"`
}

// moveRequest targets a destination column with either an explicit index
// or the pointer geometry of the column's remaining cards, in which case
// the placement resolver picks the index.
type moveRequest struct {
	ColumnID string               `json:"columnId"`
	Index    *int                 `json:"index,omitempty"`
	PointerY float64              `json:"pointerY,omitempty"`
	Cards    []placement.CardRect `json:"cards,omitempty"`
}

type placementRequest struct {
	PointerY float64              `json:"pointerY"`
	Cards    []placement.CardRect `json:"cards"`
}

type placementResponse struct {
	Index int `json:"index"`
}

type startDragRequest struct {
	TaskID string `json:"taskId"`
}

type startDragResponse struct {
	DragID string `json:"dragId"`
}
