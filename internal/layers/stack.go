// Fixed five-slot layer stack
package layers

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"image-filter-layers/internal/algorithms"
)

// SlotCount is the fixed number of layer slots.
const SlotCount = 5

// DefaultStrength is the strength a fresh slot starts with.
const DefaultStrength = 1.0

var (
	ErrSlotOutOfRange    = errors.New("layer slot out of range")
	ErrNonFiniteStrength = errors.New("strength is not a finite number")
)

// Layer is one slot of the stack.
type Layer struct {
	Enabled  bool
	Filter   algorithms.FilterKind
	Strength float64
}

// DefaultLayer returns a disabled layer with the first filter kind and
// strength 1.0.
func DefaultLayer() Layer {
	return Layer{
		Enabled:  false,
		Filter:   algorithms.DefaultKind,
		Strength: DefaultStrength,
	}
}

// Validate checks that the filter is a known kind and the strength is finite.
func (l Layer) Validate() error {
	if !l.Filter.Valid() {
		return &ValidationError{Field: "filter", Err: fmt.Errorf("%w: %s", algorithms.ErrUnknownFilter, l.Filter)}
	}
	if math.IsNaN(l.Strength) || math.IsInf(l.Strength, 0) {
		return &ValidationError{Field: "strength", Err: ErrNonFiniteStrength}
	}
	return nil
}

// ValidationError reports a rejected stack mutation.
type ValidationError struct {
	Slot  int // 1-based, 0 when not tied to a slot
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Slot > 0 {
		return fmt.Sprintf("layer %d %s: %v", e.Slot, e.Field, e.Err)
	}
	return fmt.Sprintf("layer %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Stack is an ordered, fixed-length sequence of layers. Slots are addressed
// 1..SlotCount and are applied in ascending slot order. The zero value is not
// the default stack; use Default.
type Stack struct {
	slots [SlotCount]Layer
}

// Default returns a stack with every slot set to DefaultLayer.
func Default() Stack {
	var s Stack
	for i := range s.slots {
		s.slots[i] = DefaultLayer()
	}
	return s
}

func checkSlot(slot int) error {
	if slot < 1 || slot > SlotCount {
		return &ValidationError{Slot: slot, Field: "slot", Err: fmt.Errorf("%w: %d not in 1..%d", ErrSlotOutOfRange, slot, SlotCount)}
	}
	return nil
}

// Layer returns the layer in slot (1-based). Out-of-range slots yield the
// default layer and false.
func (s Stack) Layer(slot int) (Layer, bool) {
	if checkSlot(slot) != nil {
		return DefaultLayer(), false
	}
	return s.slots[slot-1], true
}

// SetLayer replaces a slot after validating the new value. On error the stack
// is left unchanged.
func (s *Stack) SetLayer(slot int, l Layer) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := l.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Slot = slot
		}
		return err
	}
	s.slots[slot-1] = l
	return nil
}

// SetEnabled toggles a slot.
func (s *Stack) SetEnabled(slot int, enabled bool) error {
	l, ok := s.Layer(slot)
	if !ok {
		return checkSlot(slot)
	}
	l.Enabled = enabled
	return s.SetLayer(slot, l)
}

// SetFilter changes the filter of a slot.
func (s *Stack) SetFilter(slot int, kind algorithms.FilterKind) error {
	l, ok := s.Layer(slot)
	if !ok {
		return checkSlot(slot)
	}
	l.Filter = kind
	return s.SetLayer(slot, l)
}

// SetFilterName resolves name and changes the filter of a slot.
func (s *Stack) SetFilterName(slot int, name string) error {
	kind, err := algorithms.ParseFilterKind(name)
	if err != nil {
		return &ValidationError{Slot: slot, Field: "filter", Err: err}
	}
	return s.SetFilter(slot, kind)
}

// SetStrength changes the strength of a slot.
func (s *Stack) SetStrength(slot int, strength float64) error {
	l, ok := s.Layer(slot)
	if !ok {
		return checkSlot(slot)
	}
	l.Strength = strength
	return s.SetLayer(slot, l)
}

// Swap exchanges the contents of two slots.
func (s *Stack) Swap(a, b int) error {
	if err := checkSlot(a); err != nil {
		return err
	}
	if err := checkSlot(b); err != nil {
		return err
	}
	s.slots[a-1], s.slots[b-1] = s.slots[b-1], s.slots[a-1]
	return nil
}

// Reset restores every slot to DefaultLayer.
func (s *Stack) Reset() {
	*s = Default()
}

// All yields (slot, layer) pairs in execution order.
func (s Stack) All() iter.Seq2[int, Layer] {
	return func(yield func(int, Layer) bool) {
		for i, l := range s.slots {
			if !yield(i+1, l) {
				return
			}
		}
	}
}

// Validate checks every slot.
func (s Stack) Validate() error {
	for slot, l := range s.All() {
		if err := l.Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Slot = slot
			}
			return err
		}
	}
	return nil
}

// EnabledCount returns the number of enabled slots.
func (s Stack) EnabledCount() int {
	n := 0
	for _, l := range s.slots {
		if l.Enabled {
			n++
		}
	}
	return n
}
