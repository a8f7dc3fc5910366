// Package testutil holds shared helpers for package tests.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/kasuganosora/aitoolkit/goap"
)

// Logger returns a zap logger wired to the test's output.
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}

// RunAll replays a plan to completion on bb, failing the test if the plan
// does not drain within max steps.
func RunAll[T goap.State[T]](t *testing.T, p *goap.Plan[T], bb *T, max int) {
	t.Helper()
	for i := 0; p.IsActive(); i++ {
		if i >= max {
			t.Fatalf("plan did not drain within %d steps (%d remaining)", max, p.Size())
		}
		p.RunNext(bb)
	}
}
