package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInStock(t *testing.T) {
	zero := int64(0)
	three := int64(3)

	assert.True(t, (&Product{StockQuantity: nil}).InStock(), "unknown counts as available")
	assert.True(t, (&Product{StockQuantity: &three}).InStock())
	assert.False(t, (&Product{StockQuantity: &zero}).InStock())
}
