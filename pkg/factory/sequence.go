package factory

import "github.com/google/uuid"

// GenFunc produces a value from a sequence counter. The first call of a fresh
// or reset sequence receives 1.
type GenFunc func(n int) any

// Sequence is a named monotonic counter feeding a GenFunc. Sequences are
// owned by a Definition; two definitions may each declare a sequence with
// the same name without sharing state.
type Sequence struct {
	name    string
	fn      GenFunc
	counter int
}

// NewSequence creates a sequence whose counter starts at zero.
func NewSequence(name string, fn GenFunc) *Sequence {
	return &Sequence{name: name, fn: fn}
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// Next advances the counter and returns the generated value.
func (s *Sequence) Next() any {
	s.counter++
	return s.fn(s.counter)
}

// Counter returns the last counter value handed to the GenFunc.
func (s *Sequence) Counter() int {
	return s.counter
}

// Reset rewinds the counter so the next value is generated from 1 again.
func (s *Sequence) Reset() {
	s.counter = 0
}

// inlineSequenceName returns a process-unique name for a sequence declared
// at the call site. UUIDv7 embeds a millisecond timestamp and random bits.
func inlineSequenceName() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "inline-" + id.String()
}
