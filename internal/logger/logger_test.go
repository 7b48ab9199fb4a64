package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsPairsKeysAndValues(t *testing.T) {
	f := fields([]interface{}{"method", "POST", "status", 201})

	assert.Equal(t, "POST", f["method"])
	assert.Equal(t, 201, f["status"])
}

func TestFieldsIgnoresNonStringKeys(t *testing.T) {
	f := fields([]interface{}{42, "value", "ok", true})

	assert.NotContains(t, f, 42)
	assert.Equal(t, true, f["ok"])
}

func TestInitDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Info("logger initialised", "test", true)
		Debugf("debug %s", "message")
	})
}
