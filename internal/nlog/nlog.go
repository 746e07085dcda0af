// Package nlog is a small leveled logger used for index construction and
// degraded-path events. It writes to a single io.Writer rather than
// rotating log files, since qpick is a library invoked from short-lived
// CLI processes, not a long-running daemon that needs log rotation.
package nlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var sevTag = [...]string{"I", "W", "E"}

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// SetOutput redirects all subsequent log lines; primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

func log(sev severity, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	ts := time.Now().Format("0102 15:04:05.000000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "%s%s %s\n", sevTag[sev], ts, msg)
}

func Infof(format string, args ...any)    { log(sevInfo, format, args...) }
func Warningf(format string, args ...any) { log(sevWarn, format, args...) }
func Errorf(format string, args ...any)   { log(sevErr, format, args...) }

func Infoln(args ...any)    { log(sevInfo, "%s", fmt.Sprint(args...)) }
func Warningln(args ...any) { log(sevWarn, "%s", fmt.Sprint(args...)) }
func Errorln(args ...any)   { log(sevErr, "%s", fmt.Sprint(args...)) }
