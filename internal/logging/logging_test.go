package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("debug", "console", &buf)
	require.NoError(t, err)

	Component(l, "planner").Info("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"component": "planner"`)
	assert.Contains(t, out, "INFO")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", "json", &buf)
	require.NoError(t, err)

	l.Info("json check")
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"msg":"json check"`)
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", "json", &buf)
	require.NoError(t, err)

	l.Info("dropped")
	assert.Empty(t, buf.String())
}

func TestRejectsBadInput(t *testing.T) {
	_, err := New("loud", "json", nil)
	assert.Error(t, err)
	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}

func TestComponentNilLogger(t *testing.T) {
	assert.NotPanics(t, func() { Component(nil, "x").Info("ok") })
}
