package cos

import "unsafe"

// UnsafeB returns the bytes backing s without copying. The caller must not
// mutate the result, and must not retain it past the lifetime of s.
func UnsafeB(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// UnsafeS returns a string backed by b without copying.
func UnsafeS(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
