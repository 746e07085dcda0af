//go:build !qpickdebug

// Package debug provides lightweight assertions that compile to no-ops
// unless the qpickdebug build tag is set.
package debug

func ON() bool { return false }

func Assert(_ bool, _ ...any)            {}
func Assertf(_ bool, _ string, _ ...any) {}
func AssertNoErr(_ error)                {}
func AssertFunc(_ func() bool, _ ...any) {}
