package pairing

import "testing"

func TestRoundTrip(t *testing.T) {
	cases := [][2]uint32{
		{0, 0},
		{0, 10000},
		{123456, 7},
		{7, 123456},
		{1, 1},
		{4294967295, 0},
	}
	for _, c := range cases {
		v := Pair(c[0], c[1])
		x, y := Unpair(v)
		if x != c[0] || y != c[1] {
			t.Fatalf("Pair/Unpair(%d,%d) round-trip got (%d,%d)", c[0], c[1], x, y)
		}
	}
}

func TestRoundTripExhaustiveSmall(t *testing.T) {
	const bucketSize = 64
	for x := uint32(0); x < bucketSize; x++ {
		for y := uint32(0); y < bucketSize; y++ {
			v := Pair(x, y)
			gx, gy := Unpair(v)
			if gx != x || gy != y {
				t.Fatalf("Pair/Unpair(%d,%d) round-trip got (%d,%d)", x, y, gx, gy)
			}
		}
	}
}
