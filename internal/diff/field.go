// Package diff computes per-field change detection between the committed
// player state and a newly delivered partial snapshot.
//
// Each logical field is a typed lens (Field) that knows how to read the value
// from a Snapshot, how to pick it from a Partial, and how to write it back.
// A field that is absent from the partial is never reported as changed and
// always resolves to the committed value.
package diff

import (
	"reflect"

	"github.com/five82/marquee/internal/player"
)

// Change is the outcome of diffing one field. Value is the new value when
// Changed is true and the committed value otherwise, so callers can always
// read an effective value.
type Change[T any] struct {
	Changed bool
	Value   T
}

// Field is a typed accessor for one dotted path of the snapshot tree.
type Field[T any] struct {
	Path string
	get  func(*player.Snapshot) T
	pick func(*player.Partial) (T, bool)
	set  func(*player.Snapshot, T)
}

// Diff compares the field in old against next. It does not mutate either
// argument and may be called any number of times.
func (f Field[T]) Diff(old *player.Snapshot, next *player.Partial) Change[T] {
	var prev T
	if old != nil {
		prev = f.get(old)
	}
	if next == nil {
		return Change[T]{Value: prev}
	}
	value, ok := f.pick(next)
	if !ok || equal(prev, value) {
		return Change[T]{Value: prev}
	}
	return Change[T]{Changed: true, Value: value}
}

func (f Field[T]) merge(dst *player.Snapshot, next *player.Partial) bool {
	value, ok := f.pick(next)
	if !ok {
		return false
	}
	changed := !equal(f.get(dst), value)
	f.set(dst, value)
	return changed
}

func (f Field[T]) path() string { return f.Path }

// equal compares by value. Empty and nil slices or maps are the same value at
// any depth, so a committed copy equals the payload it was merged from.
func equal(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	return equalValue(va, vb)
}

func equalValue(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Len() {
			if !equalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range a.NumField() {
			if !equalValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalValue(a.Elem(), b.Elem())
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !equalValue(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.IsNil() && b.IsNil()
	default:
		return a.Equal(b)
	}
}

func present[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
