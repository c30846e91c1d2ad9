// Package gtest contains helpers shared by tests in this module.
package gtest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a logger that writes through t.Log,
// so output is associated with the test that produced it.
func NewLogger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}
