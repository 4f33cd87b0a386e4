package helpers

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size int
		offset     uint64
		limit      int
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 0, 0, DefaultPageSize},
		{2, MaxPageSize + 1, uint64(DefaultPageSize), DefaultPageSize},
		{math.MaxInt, 10, uint64(math.MaxInt/10-1) * 10, 10},
		{922337203685477582, 10, uint64(math.MaxInt/10-1) * 10, 10},
	}
	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset)
		assert.Equal(t, tt.limit, limit)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(42, 2, 10)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, int64(42), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=3&size=abc", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestParsePaginationParams_CapsPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=922337203685477582&size=100", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, MaxPage, page)
	assert.Equal(t, 100, size)

	offset, limit := CalculateOffsetLimit(page, size)
	assert.Equal(t, uint64(MaxPage-1)*100, offset)
	assert.Equal(t, 100, limit)
}

func TestCalculateSliceIndices(t *testing.T) {
	tests := []struct {
		name       string
		offset     uint64
		limit      int
		total      int
		start, end int
	}{
		{"first page", 0, 10, 25, 0, 10},
		{"last partial page", 20, 10, 25, 20, 25},
		{"past the end", 30, 10, 25, 25, 25},
		{"huge offset", math.MaxUint64, 10, 25, 25, 25},
		{"huge limit", 5, math.MaxInt, 25, 5, 25},
		{"empty", 0, 10, 0, 0, 0},
		{"zero limit", 0, 0, 25, 0, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tt.offset, tt.limit, tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
