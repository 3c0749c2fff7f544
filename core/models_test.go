package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, IDFromContent("why do my hands shake"), IDFromContent("why do my hands shake"))
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("hands shake"), IDFromContent("chest pain"))
	})

	t.Run("empty content is valid", func(t *testing.T) {
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestDefaultQueryOptions(t *testing.T) {
	opts := DefaultQueryOptions()
	assert.Equal(t, 3, opts.MaxConceptTerms)
	assert.True(t, opts.IncludeSubheadings)
	assert.Nil(t, opts.DateRange)
}
