// Package telemetry wires process-wide logging and panic reporting.
package telemetry

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var initOnce sync.Once

// PanicHook receives a recovered panic value before it is re-raised.
type PanicHook func(v interface{})

var (
	hookMu    sync.Mutex
	panicHook PanicHook
)

// Init configures the process logger exactly once. Production environments
// (APP_ENVIRONMENT=prod) log JSON; everything else gets the human-readable
// text formatter. The level falls back to info when unset or unparsable.
// Subsequent calls are no-ops, so libraries and tests can call it freely.
func Init(appName, level string) {
	initOnce.Do(func() {
		if os.Getenv("APP_ENVIRONMENT") == "prod" {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logrus.SetLevel(lvl)
		logrus.WithField("app", appName).Debug("telemetry initialized")

		RegisterPanicHook(func(v interface{}) {
			logrus.WithField("panic", v).Error("panic recovered")
		})
	})
}

// RegisterPanicHook adds a hook in front of the existing chain. The new hook
// runs first and the previous ones still run after it, so registering never
// silently replaces earlier diagnostics.
func RegisterPanicHook(hook PanicHook) {
	hookMu.Lock()
	defer hookMu.Unlock()
	prev := panicHook
	if prev == nil {
		panicHook = hook
		return
	}
	panicHook = func(v interface{}) {
		hook(v)
		prev(v)
	}
}

// ReportPanic runs the hook chain for a recovered value and re-panics, so
// goroutines keep crash semantics while still reporting. Use as:
//
//	defer telemetry.ReportPanic()
func ReportPanic() {
	v := recover()
	if v == nil {
		return
	}
	hookMu.Lock()
	hook := panicHook
	hookMu.Unlock()
	if hook != nil {
		hook(v)
	}
	panic(v)
}

var testOnce sync.Once

// InitTest enables log output in tests when ENABLE_LOGGING=1 is set, and
// silences it otherwise. Call at the top of a test that wants logs.
func InitTest() {
	testOnce.Do(func() {
		if os.Getenv("ENABLE_LOGGING") == "1" {
			Init("test", "debug")
			return
		}
		logrus.SetLevel(logrus.PanicLevel)
	})
}
