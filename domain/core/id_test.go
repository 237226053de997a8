package core

import (
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2015, time.March, 4, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2015-03-04", "2015-03-04 13:45:00", "2015-03-04T08:00:00Z", "03/04/2015"} {
		got, err := ParseDate(input)
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("Expected error for unparsable date")
	}
}

func TestComputeSubsetHashIgnoresOrder(t *testing.T) {
	dataset := NewDatasetID()
	filters := map[string]string{"condition": "Good Loan"}
	a := ComputeSubsetHash(dataset, []string{"3:500", "1:100", "2:200"}, filters)
	b := ComputeSubsetHash(dataset, []string{"1:100", "2:200", "3:500"}, filters)
	if a != b {
		t.Errorf("Expected equal hashes, got %s and %s", a, b)
	}

	c := ComputeSubsetHash(dataset, []string{"1:100", "2:200", "3:500"}, map[string]string{"condition": "Bad Loan"})
	if a == c {
		t.Error("Expected different filters to change the hash")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12-character short hash, got %q", a.Short())
	}
}

func TestComputeSubsetHashCoversContentAndLoad(t *testing.T) {
	dataset := NewDatasetID()
	base := ComputeSubsetHash(dataset, []string{"1:1000"}, nil)

	if base == ComputeSubsetHash(dataset, []string{"1:50000"}, nil) {
		t.Error("Expected a changed row to change the hash")
	}
	if base == ComputeSubsetHash(NewDatasetID(), []string{"1:1000"}, nil) {
		t.Error("Expected another load of the same rows to change the hash")
	}
}
