package placement

import "testing"

func TestInsertIndex(t *testing.T) {
	column := []CardRect{
		{ID: "a", Top: 0, Height: 40},
		{ID: "b", Top: 50, Height: 40},
		{ID: "c", Top: 100, Height: 40},
	}

	tests := []struct {
		name     string
		pointerY float64
		cards    []CardRect
		want     int
	}{
		{name: "between first and second midpoints", pointerY: 60, cards: column, want: 1},
		{name: "above everything", pointerY: -10, cards: column, want: 0},
		{name: "above first midpoint", pointerY: 10, cards: column, want: 0},
		{name: "exactly on a midpoint goes after it", pointerY: 70, cards: column, want: 2},
		{name: "below last midpoint appends", pointerY: 130, cards: column, want: 3},
		{name: "far below appends", pointerY: 10000, cards: column, want: 3},
		{name: "empty column appends at zero", pointerY: 42, cards: nil, want: 0},
		{name: "single card above midpoint", pointerY: 5, cards: column[:1], want: 0},
		{name: "single card below midpoint", pointerY: 25, cards: column[:1], want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertIndex(tt.pointerY, tt.cards); got != tt.want {
				t.Fatalf("InsertIndex(%v) = %d, want %d", tt.pointerY, got, tt.want)
			}
		})
	}
}

func TestInsertIndexTieBreakPrefersFirstInColumnOrder(t *testing.T) {
	// Two overlapping cards with identical midpoints: the fold must keep
	// the first candidate it saw.
	cards := []CardRect{
		{ID: "a", Top: 100, Height: 40},
		{ID: "b", Top: 100, Height: 40},
	}
	if got := InsertIndex(110, cards); got != 0 {
		t.Fatalf("expected first card to win the tie, got index %d", got)
	}
}

func TestInsertIndexDoesNotMutateCandidates(t *testing.T) {
	cards := []CardRect{{ID: "a", Top: 0, Height: 40}, {ID: "b", Top: 50, Height: 40}}
	before := make([]CardRect, len(cards))
	copy(before, cards)

	_ = InsertIndex(33, cards)

	for i := range cards {
		if cards[i] != before[i] {
			t.Fatalf("candidate %d mutated: %#v != %#v", i, cards[i], before[i])
		}
	}
}
