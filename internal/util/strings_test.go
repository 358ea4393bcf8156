package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"empty", []string{}, nil},
		{"no duplicates", []string{"b", "a"}, []string{"b", "a"}},
		{"keeps first occurrence", []string{"A-2", "A-1", "A-2", "A-3", "A-1"}, []string{"A-2", "A-1", "A-3"}},
		{"empty string is a value", []string{"", "x", ""}, []string{"", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueStrings(tt.in))
		})
	}
}

func TestUniqueStrings_DoesNotAlias(t *testing.T) {
	in := []string{"a", "b"}
	out := UniqueStrings(in)
	out[0] = "z"
	assert.Equal(t, "a", in[0])
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"R001", "R004", "R010"}, SortedKeys(map[string]int{"R010": 1, "R001": 2, "R004": 3}))
	assert.Empty(t, SortedKeys(map[string]bool{}))
	assert.Empty(t, SortedKeys[struct{}](nil))
}
