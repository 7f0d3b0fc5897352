package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, NilIfEmpty(""))
	assert.Equal(t, "a", *NilIfEmpty("a"))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "x", Deref(P("x")))
}
