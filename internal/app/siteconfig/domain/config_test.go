package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	assert.Len(t, defs, 18)

	seen := map[string]bool{}
	for _, d := range defs {
		assert.False(t, seen[d.Key], d.Key)
		seen[d.Key] = true
		assert.NotEmpty(t, d.Description)
	}

	_, ok := Describe("business_hours_sunday")
	assert.True(t, ok)
	_, ok = Describe("favourite_colour")
	assert.False(t, ok)
}
