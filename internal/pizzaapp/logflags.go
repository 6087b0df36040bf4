package pizzaapp

import "github.com/edward-ap/pizzaindex/internal/audio"

// SetTraceLogEnabled toggles verbose/file logging for libVLC initialisation.
// Call this before creating the App so the audio backend can see the flag.
func SetTraceLogEnabled(b bool) { audio.SetTraceLoggingEnabled(b) }
