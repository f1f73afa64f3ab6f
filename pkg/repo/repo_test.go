package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLimitOffset(t *testing.T) {
	assert.Equal(t, "LIMIT 10 OFFSET 20", FormatLimitOffset(10, 20))
	assert.Equal(t, "LIMIT 10", FormatLimitOffset(10, 0))
	assert.Equal(t, "OFFSET 20", FormatLimitOffset(0, 20))
	assert.Equal(t, "", FormatLimitOffset(0, 0))
}
