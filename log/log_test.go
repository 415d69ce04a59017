package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNopByDefault(t *testing.T) {
	Disable()
	assert.NotPanics(t, func() { Error().Msg("dropped") })
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	t.Cleanup(Disable)

	Debug().Msg("hidden")
	Warn().Int("cap", 16).Msg("shrink failed")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shrink failed"`)
	assert.Contains(t, buf.String(), `"cap":16`)
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.DebugLevel)
	t.Cleanup(Disable)

	Status("pop", "SUCCESS", nil)
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"func":"pop"`)

	buf.Reset()
	Status("pop", "UNDERFLOW", errors.New("pop from empty string"))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":"UNDERFLOW"`)
	assert.Contains(t, buf.String(), `"error":"pop from empty string"`)
}
