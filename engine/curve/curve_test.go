package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoKeys)

	_, err = New(Key{0, 1}, Key{0, 0.5})
	assert.ErrorIs(t, err, ErrUnsortedKeys)

	_, err = New(Key{10, 1}, Key{5, 0.5})
	assert.ErrorIs(t, err, ErrUnsortedKeys)
}

func TestEvaluate(t *testing.T) {
	c, err := New(Key{0, 1}, Key{30, 0.4}, Key{90, 0})
	require.NoError(t, err)

	cases := []struct {
		name string
		at   float32
		want float32
	}{
		{"before_range", -5, 1},
		{"first_key", 0, 1},
		{"mid_first_segment", 15, 0.7},
		{"second_key", 30, 0.4},
		{"mid_second_segment", 60, 0.2},
		{"after_range", 180, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, c.Evaluate(tc.at), 1e-5)
		})
	}
	assert.True(t, c.NonIncreasing())
}

func TestNonIncreasingDetectsRise(t *testing.T) {
	c, err := New(Key{0, 0.2}, Key{10, 0.8})
	require.NoError(t, err)
	assert.False(t, c.NonIncreasing())
	assert.Equal(t, float32(0), Curve{}.Evaluate(3))
	assert.True(t, Curve{}.Empty())
}

func TestKeysIsACopy(t *testing.T) {
	c := Linear(0, 1, 1, 0)
	keys := c.Keys()
	keys[0].Value = 99
	assert.Equal(t, float32(1), c.Evaluate(0))
}
