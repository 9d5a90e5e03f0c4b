package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: DefaultPageLimit}, Page{}.Normalize())
	assert.Equal(t, Page{Number: 1, Limit: MaxPageLimit}, Page{Number: -3, Limit: 500}.Normalize())
	assert.Equal(t, MaxPageNumber, Page{Number: int(^uint(0) >> 1), Limit: 10}.Normalize().Number)
}

func TestPage_SkipStaysPositiveAtBounds(t *testing.T) {
	p := Page{Number: 1 << 62, Limit: 1 << 20}.Normalize()
	assert.Equal(t, int64(MaxPageNumber-1)*int64(MaxPageLimit), p.Skip())
	assert.EqualValues(t, 0, Page{Number: 1, Limit: 20}.Skip())
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(Page{Number: 2, Limit: 20}, 41)
	assert.Equal(t, PageInfo{Total: 41, Page: 2, Limit: 20, TotalPages: 3}, info)
}
