package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(3), TotalPages(21, 10))
	assert.Equal(t, int64(2), TotalPages(20, 10))
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}
