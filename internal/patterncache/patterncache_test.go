// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterncache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	c := New()

	re, err := c.Compile(`item\s7\.`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("ITEM 7."), "patterns are case-insensitive")

	again, err := c.Compile(`item\s7\.`)
	require.NoError(t, err)
	assert.Same(t, re, again)
	assert.Equal(t, 1, c.Len())
}

func TestCompile_DotMatchesNewline(t *testing.T) {
	re, err := New().Compile(`Item\s9.{0,10}Changes`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("Item 9.\n\nChanges"))
}

func TestCompile_Invalid(t *testing.T) {
	c := New()
	_, err := c.Compile(`Item\s(1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Item\s(1`)
	assert.Equal(t, 0, c.Len(), "failed compilations are not cached")
}

func TestCompile_Concurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Compile(`Note\s12`)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
