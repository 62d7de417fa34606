package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Repository", KeyRepo, "repo1", Repository("repo1")},
		{"Path", KeyPath, "docs/a.md", Path("docs/a.md")},
		{"PageID", KeyPageID, "p1", PageID("p1")},
		{"ParentID", KeyParentID, "p0", ParentID("p0")},
		{"Title", KeyTitle, "api - Guide", Title("api - Guide")},
		{"Digest", KeyDigest, "abc", Digest("abc")},
		{"Status", KeyStatus, "unchanged", Status("unchanged")},
		{"Method", KeyMethod, "PATCH", Method("PATCH")},
		{"URL", KeyURL, "http://example", URL("http://example")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := Blocks(3); a.Key != KeyBlocks || a.Value.Int64() != 3 {
		t.Fatalf("unexpected blocks attr %v", a)
	}
	if a := Attempt(2); a.Key != KeyAttempt || a.Value.Int64() != 2 {
		t.Fatalf("unexpected attempt attr %v", a)
	}
	if a := DurationMS(1.5); a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr %v", a)
	}
}
