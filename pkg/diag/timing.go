package diag

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	// Set OVERLAY_PERF=1 to enable performance logging
	perfEnabled = os.Getenv("OVERLAY_PERF") == "1"
	perfFile    *os.File
	perfMutex   sync.Mutex
	perfOnce    sync.Once
)

func init() {
	if perfEnabled {
		perfOnce.Do(func() {
			var err error
			perfFile, err = os.OpenFile("/tmp/excalibur-perf.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				perfEnabled = false
			}
		})
	}
}

// Timer tracks elapsed time for a named operation
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing an operation
func Start(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop ends timing and logs the result
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if perfEnabled && perfFile != nil {
		perfMutex.Lock()
		fmt.Fprintf(perfFile, "%s: %s: %v\n", time.Now().Format("15:04:05.000"), t.name, elapsed)
		perfMutex.Unlock()
	}
	return elapsed
}
