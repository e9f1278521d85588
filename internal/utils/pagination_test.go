package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/practicehub/catalog-api/internal/constants"
)

func paramsFor(t *testing.T, rawQuery string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, constants.DefaultPageSize},
		{"explicit", "page=3&page_size=50", 3, 50},
		{"zero page clamps", "page=0", 1, constants.DefaultPageSize},
		{"negative page clamps", "page=-2", 1, constants.DefaultPageSize},
		{"oversized page size falls back", "page_size=5000", 1, constants.DefaultPageSize},
		{"garbage falls back", "page=abc&page_size=xyz", 1, constants.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsFor(t, tt.query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.pageSize, params.PageSize)
		})
	}
}
