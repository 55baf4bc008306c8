package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelect_PrefixAndOrder(t *testing.T) {
	got, err := Select([]string{"know-b", "foo", "know-a", "knowledge-index", "Know-c"}, "know-", nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if diff := cmp.Diff([]string{"know-a", "know-b"}, got); diff != "" {
		t.Errorf("Select mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_Exclude(t *testing.T) {
	names := []string{"know-a", "know-archive-2023", "know-b", "know-sandbox"}

	got, err := Select(names, "know-", []string{"know-archive-*", "*sandbox"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if diff := cmp.Diff([]string{"know-a", "know-b"}, got); diff != "" {
		t.Errorf("Select mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_NoMatches(t *testing.T) {
	got, err := Select([]string{"foo", "bar"}, "know-", nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no names, got %v", got)
	}
}

func TestRecords(t *testing.T) {
	links := Links{SourceBaseURL: "https://github.com/", ViewerBaseURL: "https://gitmcp.io"}

	got := Records("acme", []string{"know-a"}, links)

	want := []Record{{
		Name:      "know-a",
		SourceURL: "https://github.com/acme/know-a",
		ViewerURL: "https://gitmcp.io/acme/know-a",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateExclude(t *testing.T) {
	if err := ValidateExclude([]string{"know-archive-*", "*-{old,tmp}"}); err != nil {
		t.Errorf("expected valid patterns, got: %v", err)
	}
	if err := ValidateExclude([]string{"know-[a"}); err == nil {
		t.Error("expected error for unterminated character class")
	}
}
