package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	params := PaginationParams{Page: 1, Limit: 10}

	assert.Equal(t, 0, params.TotalPages(0))
	assert.Equal(t, 1, params.TotalPages(1))
	assert.Equal(t, 1, params.TotalPages(10))
	assert.Equal(t, 2, params.TotalPages(11))
	assert.Equal(t, 5, params.TotalPages(50))
}
