package models

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// **Property: Pages partition the collection**
// *For any* total and limit, the page bounds of pages 1..TotalPages cover
// [0, total) exactly once, and the page after the last is empty.
func TestPropertyPageBoundsPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("bounds are contiguous and complete", prop.ForAll(
		func(total, limit int) bool {
			pages := TotalPages(total, limit)
			next := 0
			for page := 1; page <= pages; page++ {
				start, end := PageBounds(page, limit, total)
				if start != next || end <= start || end-start > limit {
					return false
				}
				next = end
			}
			if next != total {
				return false
			}
			start, end := PageBounds(pages+1, limit, total)
			return start == end
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 50),
	))

	properties.Property("total pages is the ceiling of total over limit", prop.ForAll(
		func(total, limit int) bool {
			pages := TotalPages(total, limit)
			if total == 0 {
				return pages == 0
			}
			return (pages-1)*limit < total && pages*limit >= total
		},
		gen.IntRange(0, 10000),
		gen.IntRange(1, 200),
	))

	properties.Property("far pages are empty whatever the offset", prop.ForAll(
		func(page, limit, total int) bool {
			start, end := PageBounds(page, limit, total)
			return start == total && end == total
		},
		gen.OneGenOf(gen.Const(math.MaxInt), gen.IntRange(math.MaxInt/4, math.MaxInt)),
		gen.IntRange(1, 100),
		gen.IntRange(0, 500),
	))

	properties.Property("large limits stay within the collection", prop.ForAll(
		func(limit, total int) bool {
			start, end := PageBounds(1, limit, total)
			return start == 0 && end == total
		},
		gen.IntRange(math.MaxInt/2, math.MaxInt),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}

func TestPageBoundsFifteenRecords(t *testing.T) {
	tests := []struct {
		page, limit int
		start, end  int
	}{
		{1, 10, 0, 10},
		{2, 10, 10, 15},
		{3, 10, 15, 15},
		{4, 5, 15, 15},
		{1, 100, 0, 15},
		{math.MaxInt, 2, 15, 15},
		{1<<62 + 1, 4, 15, 15},
		{1<<62 + 1, 2, 15, 15},
		{2, math.MaxInt, 15, 15},
	}

	for _, tt := range tests {
		start, end := PageBounds(tt.page, tt.limit, 15)
		if start != tt.start || end != tt.end {
			t.Errorf("PageBounds(%d, %d, 15) = [%d, %d), want [%d, %d)", tt.page, tt.limit, start, end, tt.start, tt.end)
		}
	}
	if got := TotalPages(15, 10); got != 2 {
		t.Errorf("TotalPages(15, 10) = %d, want 2", got)
	}
	if got := TotalPages(15, math.MaxInt); got != 1 {
		t.Errorf("TotalPages(15, MaxInt) = %d, want 1", got)
	}
	if got := TotalPages(0, 10); got != 0 {
		t.Errorf("TotalPages(0, 10) = %d, want 0", got)
	}
}

// **Property: Patch application only touches present fields**
// *For any* record and patch, fields absent from the patch keep their value
// and present fields take the patch value.
func TestPropertyPatchApply(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genOptional := gen.PtrOf(gen.AlphaString())

	properties.Property("absent fields are preserved", prop.ForAll(
		func(owner, text string, newOwner, newText *string) bool {
			r := &LogRecord{ID: "log-1", Owner: owner, LogText: text}
			patch := LogRecordPatch{Owner: newOwner, LogText: newText}

			applied := patch.Apply(r)
			if applied == patch.IsEmpty() {
				return false
			}

			wantOwner, wantText := owner, text
			if newOwner != nil {
				wantOwner = *newOwner
			}
			if newText != nil {
				wantText = *newText
			}
			return r.Owner == wantOwner && r.LogText == wantText && r.ID == "log-1"
		},
		gen.AlphaString(),
		gen.AlphaString(),
		genOptional,
		genOptional,
	))

	properties.TestingRun(t)
}

func TestLogRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  LogRecord
		wantErr error
	}{
		{name: "valid", record: LogRecord{Owner: "User 1", LogText: "started"}},
		{name: "blank owner", record: LogRecord{Owner: "  \t", LogText: "started"}, wantErr: ErrOwnerRequired},
		{name: "empty text", record: LogRecord{Owner: "User 1"}, wantErr: ErrLogTextRequired},
		{name: "both missing reports owner first", record: LogRecord{}, wantErr: ErrOwnerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogRecordClone(t *testing.T) {
	now := time.Now().UTC()
	orig := &LogRecord{ID: "a", Owner: "User 2", LogText: strings.Repeat("x", 8), CreatedAt: now, UpdatedAt: now}

	c := orig.Clone()
	if c == orig || *c != *orig {
		t.Fatalf("Clone() = %+v, want an equal distinct value", c)
	}
	c.Owner = "changed"
	if orig.Owner != "User 2" {
		t.Error("mutating the clone changed the original")
	}

	var nilRecord *LogRecord
	if nilRecord.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
