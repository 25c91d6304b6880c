package domain

// Trick holds one slot per absolute seat. Lead is the 0-based seat whose
// card sets the suit to follow.
type Trick struct {
	Cards []Card
	Lead  int
}

// NewTrick returns an empty trick for n seats led by the given seat.
func NewTrick(n, lead int) Trick {
	return Trick{Cards: make([]Card, n), Lead: lead}
}

// Count is the number of filled slots.
func (t Trick) Count() int {
	n := 0
	for _, c := range t.Cards {
		if c != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether no card has been played yet.
func (t Trick) Empty() bool { return t.Count() == 0 }

// Full reports whether every seat has played.
func (t Trick) Full() bool {
	return len(t.Cards) > 0 && t.Count() == len(t.Cards)
}

// LedCard returns the card in the lead seat, or 0 if the leader has not played.
func (t Trick) LedCard() Card {
	if t.Lead < 0 || t.Lead >= len(t.Cards) {
		return 0
	}
	return t.Cards[t.Lead]
}

// LedSuit is the suit of the lead card, SuitNone when nothing has been led.
func (t Trick) LedSuit() Suit {
	return t.LedCard().Suit()
}

// Place puts c in the seat's slot. It reports false when the seat is out of
// range or already played.
func (t *Trick) Place(seat int, c Card) bool {
	if seat < 0 || seat >= len(t.Cards) || t.Cards[seat] != 0 {
		return false
	}
	t.Cards[seat] = c
	return true
}

// Reset empties the trick and hands the lead to seat.
func (t *Trick) Reset(lead int) {
	for i := range t.Cards {
		t.Cards[i] = 0
	}
	t.Lead = lead
}

// Clone returns an independent copy.
func (t Trick) Clone() Trick {
	return Trick{Cards: append([]Card(nil), t.Cards...), Lead: t.Lead}
}

// NextToAct scans seats in clockwise order starting at the 1-based startSeat
// and returns the first 0-based seat with an empty slot. It returns false
// when every slot is filled or there are no slots.
func NextToAct(startSeat int, slots []Card) (int, bool) {
	n := len(slots)
	if n == 0 {
		return 0, false
	}
	start := startSeat - 1
	if start < 0 || start >= n {
		start = 0
	}
	for k := 0; k < n; k++ {
		seat := (start + k) % n
		if slots[seat] == 0 {
			return seat, true
		}
	}
	return 0, false
}
