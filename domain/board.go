package domain

// ColumnID names one of the board's fixed columns.
type ColumnID string

// Column is one workflow stage with its tasks in display order.
type Column struct {
	ID    ColumnID `json:"id"`
	Tasks []Task   `json:"tasks"`
}

// Board is the full renderable board state, columns in display order.
type Board struct {
	Columns []Column `json:"columns"`
}

// PersistedBoard is the durable form of the board: column id to ordered
// task texts. Task identity and the in-progress flag are deliberately
// dropped; reload rebuilds tasks from text alone.
type PersistedBoard map[string][]string
