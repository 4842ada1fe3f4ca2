// Package placement computes where a dragged card lands among the cards
// already in a column. It is a pure function of pointer position and card
// geometry so drop behavior can be tested without a rendering environment.
package placement

import "math"

// CardRect is the vertical extent of one rendered card, in the same
// coordinate space as the pointer event. The dragged card itself must not
// be included in the candidate list.
type CardRect struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// InsertIndex returns the index at which the dragged card should be
// inserted into the column described by cards. A card is a candidate when
// the pointer sits above its vertical midpoint; among candidates the one
// whose midpoint is closest wins, first in column order on exact ties.
// With no candidates the card is appended.
func InsertIndex(pointerY float64, cards []CardRect) int {
	idx := len(cards)
	closest := math.Inf(-1)
	for i, c := range cards {
		offset := pointerY - (c.Top + c.Height/2)
		if offset < 0 && offset > closest {
			closest = offset
			idx = i
		}
	}
	return idx
}
