package constants

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "covgate", AppName)
	assert.Equal(t, "covgate", CommandName)
}
