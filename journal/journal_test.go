package journal

import (
	"bytes"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2018, 1, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestAppendAssignsSequence(t *testing.T) {
	j := NewWithClock(fixedClock())

	e1 := j.Append("Transfer", map[string]string{"amount": "10"})
	e2 := j.Append("Approval", nil)

	if e1.Seq != 0 || e2.Seq != 1 {
		t.Errorf("sequences = %d, %d, want 0, 1", e1.Seq, e2.Seq)
	}
	if e1.ID == "" || e1.ID == e2.ID {
		t.Error("entry IDs must be unique and non-empty")
	}
	if j.Len() != 2 {
		t.Errorf("Len = %d, want 2", j.Len())
	}
}

func TestByName(t *testing.T) {
	j := NewWithClock(fixedClock())
	j.Append("Transfer", nil)
	j.Append("Approval", nil)
	j.Append("Transfer", nil)

	transfers := j.ByName("Transfer")
	if len(transfers) != 2 {
		t.Fatalf("ByName(Transfer) = %d entries, want 2", len(transfers))
	}
	if transfers[0].Seq != 0 || transfers[1].Seq != 2 {
		t.Errorf("ByName order wrong: %d, %d", transfers[0].Seq, transfers[1].Seq)
	}

	if got := j.ByName("Finalized"); got != nil {
		t.Errorf("ByName(Finalized) = %v, want nil", got)
	}
}

func TestLast(t *testing.T) {
	j := NewWithClock(fixedClock())

	if _, ok := j.Last(); ok {
		t.Error("Last on empty journal reported an entry")
	}

	j.Append("Transfer", nil)
	j.Append("Finalized", nil)
	last, ok := j.Last()
	if !ok || last.Name != "Finalized" {
		t.Errorf("Last = %v, %v, want Finalized entry", last, ok)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	j := NewWithClock(fixedClock())
	j.Append("Transfer", nil)

	got := j.Entries()
	got[0].Name = "mutated"

	if j.Entries()[0].Name != "Transfer" {
		t.Error("Entries must return a copy")
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	j := NewWithClock(fixedClock())
	j.Append("Transfer", map[string]string{"from": "0xaa", "amount": "5"})
	j.Append("Finalized", nil)

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, j.Entries()); err != nil {
		t.Fatalf("WriteJSONL failed: %v", err)
	}

	back, err := ReadJSONL(&buf)
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("round trip = %d entries, want 2", len(back))
	}
	if back[0].Name != "Transfer" || back[0].Attrs["amount"] != "5" {
		t.Errorf("first entry mangled: %+v", back[0])
	}
	if back[1].Name != "Finalized" {
		t.Errorf("second entry mangled: %+v", back[1])
	}
}

func TestReadJSONLRejectsGarbage(t *testing.T) {
	if _, err := ReadJSONL(bytes.NewBufferString("{not json}\n")); err == nil {
		t.Error("expected error for malformed line")
	}
}
