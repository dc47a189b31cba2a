package revalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "page:/", PageKey("/"))
	assert.Equal(t, "page:/properties/prop-1", PageKey("/properties/prop-1"))
	// Path tokens are opaque; no normalization happens.
	assert.Equal(t, "page:/favorites/", PageKey("/favorites/"))
}
