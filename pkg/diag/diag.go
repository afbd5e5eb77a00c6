// Package diag provides crash and event logging for the overlay processes.
// Both logs go to /tmp so a wedged TUI can be diagnosed after the fact
// without a terminal attached.
package diag

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

var (
	crashLog *log.Logger
	eventLog *log.Logger
)

// InitCrashLog opens /tmp/excalibur-<name>-crash.log. Falls back to stderr
// if the file cannot be opened.
func InitCrashLog(name string) {
	path := fmt.Sprintf("/tmp/excalibur-%s-crash.log", name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		crashLog = log.New(os.Stderr, "[CRASH] ", log.LstdFlags)
		return
	}
	crashLog = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
}

// InitEventLog opens /tmp/excalibur-<name>-events.log. Falls back to stderr
// if the file cannot be opened.
func InitEventLog(name string) {
	path := fmt.Sprintf("/tmp/excalibur-%s-events.log", name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		eventLog = log.New(os.Stderr, "[EVENT] ", log.LstdFlags)
		return
	}
	eventLog = log.New(f, "[event] ", log.LstdFlags|log.Lmicroseconds)
}

// Event writes a line to the event log. No-op before InitEventLog.
func Event(format string, args ...interface{}) {
	if eventLog != nil {
		eventLog.Printf(format, args...)
	}
}

func logCrash(context string, r interface{}) {
	if crashLog == nil {
		crashLog = log.New(os.Stderr, "[CRASH] ", log.LstdFlags)
	}
	crashLog.Printf("=== CRASH in %s ===", context)
	crashLog.Printf("Panic: %v", r)
	crashLog.Printf("Stack trace:\n%s", debug.Stack())
	crashLog.Printf("=== END CRASH ===\n")
}

// RecoverAndLog recovers a panic in the calling goroutine and records it in
// the crash log. Use as: defer diag.RecoverAndLog("pollLoop")
func RecoverAndLog(context string) {
	if r := recover(); r != nil {
		logCrash(context, r)
	}
}
