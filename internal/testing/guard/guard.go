package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("POLICEPLUS_TEST_MODE") == "" {
			_ = os.Setenv("POLICEPLUS_TEST_MODE", "1")
		}
	})
}
