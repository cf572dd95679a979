package testutil

import (
	"bytes"
	"math/rand"

	"github.com/rs/zerolog"
)

// NewTestRNG returns a seeded source so scripted games replay identically
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger discards everything
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// CaptureLogger returns a trace-level JSON logger and the buffer it writes to
func CaptureLogger() (zerolog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return zerolog.New(buf).Level(zerolog.TraceLevel), buf
}
