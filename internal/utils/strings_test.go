package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "Desk Lamp", NormalizeSpace("  Desk \t  Lamp \n"))
	assert.Equal(t, "", NormalizeSpace("   "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail(" Ana@Example.COM "))
}
