package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceForwardOnly(t *testing.T) {
	assert.True(t, CanAdvance(StatusOpen, StatusInProgress))
	assert.True(t, CanAdvance(StatusInProgress, StatusResolved))
	assert.True(t, CanAdvance(StatusInProgress, StatusClosed))
	assert.True(t, CanAdvance(StatusResolved, StatusClosed))

	assert.False(t, CanAdvance(StatusOpen, StatusResolved))
	assert.False(t, CanAdvance(StatusResolved, StatusOpen))
	assert.False(t, CanAdvance(StatusClosed, StatusOpen))
	assert.False(t, CanAdvance(StatusOpen, StatusOpen))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("Em Andamento")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)

	_, ok = ParseStatus("open")
	assert.False(t, ok)
}
