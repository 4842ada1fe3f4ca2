package domain

// Task represents a single card on the board.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// InProgress is true only while the task sits in the designated
	// in-progress column; it gates the timer-start affordance.
	InProgress bool `json:"inProgress,omitempty"`
}
