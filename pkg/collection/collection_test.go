package collection

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"pending", "shipped"}, "pending"))
	assert.False(t, Contains([]string{"pending"}, "cancelled"))
}

func TestSum(t *testing.T) {
	type item struct{ qty int }
	total := Sum([]item{{2}, {3}}, func(i item) int { return i.qty })
	assert.Equal(t, 5, total)
}

func TestKeyBy(t *testing.T) {
	type row struct {
		ID   uint
		Name string
	}
	got := KeyBy([]row{{1, "a"}, {2, "b"}}, func(r row) uint { return r.ID })
	assert.Equal(t, "b", got[2].Name)
}
