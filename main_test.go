package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"catalog", "--category", "Combos"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Combo Família")
	assert.NotContains(t, out.String(), "Pudim")
	assert.Contains(t, out.String(), "Caixa 12")
	assert.Contains(t, out.String(), "Vale Refeição")
}

func TestCatalogCommandUnknownCategory(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"catalog", "--category", "Sorvetes"})

	assert.Error(t, root.Execute())
}
