package app

import (
	"os"
	"sync"
)

const testModeEnv = "HAVEN_TEST_MODE"

var (
	testMode     bool
	testModeOnce sync.Once
)

// InTestMode reports whether the binaries should skip runtime side effects.
// Test packages set HAVEN_TEST_MODE before any main runs.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testMode = os.Getenv(testModeEnv) == "1"
	})
	return testMode
}
