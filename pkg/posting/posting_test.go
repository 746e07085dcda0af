package posting

import (
	"os"
	"testing"
)

func writeBucket(t *testing.T, records []Record) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "shard-*")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		buf := make([]byte, IDSize)
		buf[0] = byte(r.PQID)
		buf[1] = byte(r.PQID >> 8)
		buf[2] = byte(r.PQID >> 16)
		buf[3] = byte(r.PQID >> 24)
		buf[4] = r.Remainder
		buf[5] = r.TR
		buf[6] = r.F
		if _, err := f.Write(buf); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestReadBucketExact(t *testing.T) {
	want := []Record{
		{PQID: 1, Remainder: 0, TR: 100, F: 255},
		{PQID: 2, Remainder: 1, TR: 50, F: 10},
	}
	f := writeBucket(t, want)
	defer f.Close()

	r := NewReader(f, 8)
	got := r.ReadBucket(0, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestReadBucketShortFileTruncates(t *testing.T) {
	f := writeBucket(t, []Record{{PQID: 1, Remainder: 0, TR: 1, F: 1}})
	defer f.Close()

	r := NewReader(f, 8)
	got := r.ReadBucket(0, 5) // claims 5 but file only has 1
	if len(got) != 1 {
		t.Fatalf("expected truncated read of 1 record, got %d", len(got))
	}
}

func TestReadBucketPastEOFReturnsEmpty(t *testing.T) {
	f := writeBucket(t, nil)
	defer f.Close()

	r := NewReader(f, 8)
	got := r.ReadBucket(100, 3)
	if len(got) != 0 {
		t.Fatalf("expected empty read past EOF, got %d records", len(got))
	}
}

func TestQueryIDRoundTrip(t *testing.T) {
	const nrShards = 7
	// The last qid is the largest one a uint32 pqid can carry for nrShards.
	for _, qid := range []uint64{0, 1, 6, 7, 8, uint64(1<<32-1)*nrShards + nrShards - 1} {
		pqid, rem := SplitQueryID(qid, nrShards)
		if rem >= nrShards {
			t.Fatalf("remainder %d >= nrShards %d", rem, nrShards)
		}
		rec := Record{PQID: pqid, Remainder: rem}
		if got := rec.QueryID(nrShards); got != qid {
			t.Fatalf("QueryID round trip: got %d want %d", got, qid)
		}
	}
}
