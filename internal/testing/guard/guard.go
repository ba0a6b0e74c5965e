// Package guard forces test mode before any runtime side effects occur.
// Import it for side effects from packages whose tests would otherwise
// boot servers or workers.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("HAVEN_TEST_MODE") == "" {
			_ = os.Setenv("HAVEN_TEST_MODE", "1")
		}
	})
}
