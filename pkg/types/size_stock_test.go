package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeStockTotal(t *testing.T) {
	s := SizeStock{"S": 5, "M": 10, "L": 15}
	assert.Equal(t, 30, s.Total())
	assert.Equal(t, 0, SizeStock{}.Total())
}

func TestSizeStockHas(t *testing.T) {
	s := SizeStock{"S": 0, "M": 3}
	assert.True(t, s.Has("S"))
	assert.True(t, s.Has("M"))
	assert.False(t, s.Has("XL"))
}

func TestSizeStockLabelsSorted(t *testing.T) {
	s := SizeStock{"M": 1, "L": 2, "S": 3}
	assert.Equal(t, []string{"L", "M", "S"}, s.Labels())
}
