package curve

import (
	"errors"
	"fmt"
)

// ErrNoKeys is returned when a curve is constructed without keys.
var ErrNoKeys = errors.New("curve: at least one key is required")

// ErrUnsortedKeys is returned when key times are not strictly increasing.
var ErrUnsortedKeys = errors.New("curve: key times must be strictly increasing")

// Key is a single control point of a Curve.
type Key struct {
	Time  float32
	Value float32
}

// Curve is an immutable piecewise-linear function defined by keys.
// Evaluating outside the key range returns the first or last value.
type Curve struct {
	keys []Key
}

// New creates a Curve from keys ordered by strictly increasing time.
//
// Parameters:
//   - keys: control points
//
// Returns:
//   - Curve: the curve
//   - error: ErrNoKeys or ErrUnsortedKeys if the keys are invalid
func New(keys ...Key) (Curve, error) {
	if len(keys) == 0 {
		return Curve{}, ErrNoKeys
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Time <= keys[i-1].Time {
			return Curve{}, fmt.Errorf("key %d at %.3f after %.3f: %w", i, keys[i].Time, keys[i-1].Time, ErrUnsortedKeys)
		}
	}
	cp := make([]Key, len(keys))
	copy(cp, keys)
	return Curve{keys: cp}, nil
}

// Linear returns a two-key curve from (t0, v0) to (t1, v1). It panics if t1 <= t0,
// which only happens for hard-coded programmer input.
func Linear(t0, v0, t1, v1 float32) Curve {
	c, err := New(Key{t0, v0}, Key{t1, v1})
	if err != nil {
		panic(err)
	}
	return c
}

// Evaluate samples the curve at time t.
func (c Curve) Evaluate(t float32) float32 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}
	for i := 1; i < n; i++ {
		b := c.keys[i]
		if t > b.Time {
			continue
		}
		a := c.keys[i-1]
		f := (t - a.Time) / (b.Time - a.Time)
		return a.Value + (b.Value-a.Value)*f
	}
	return c.keys[n-1].Value
}

// NonIncreasing reports whether every key's value is <= the previous key's value.
func (c Curve) NonIncreasing() bool {
	for i := 1; i < len(c.keys); i++ {
		if c.keys[i].Value > c.keys[i-1].Value {
			return false
		}
	}
	return true
}

// Keys returns a copy of the curve's keys.
func (c Curve) Keys() []Key {
	cp := make([]Key, len(c.keys))
	copy(cp, c.keys)
	return cp
}

// Empty reports whether the curve has no keys.
func (c Curve) Empty() bool {
	return len(c.keys) == 0
}
