package cli

import (
	"strings"
	"testing"
)

func TestParseItemID(t *testing.T) {
	id, err := parseItemID("17")
	if err != nil || id != 17 {
		t.Fatalf("parseItemID(17) = %d, %v", id, err)
	}

	for _, bad := range []string{"", "milk", "1.5"} {
		if _, err := parseItemID(bad); err == nil {
			t.Fatalf("parseItemID(%q) must fail", bad)
		} else if !strings.Contains(err.Error(), bad) {
			t.Fatalf("error should name the bad id: %v", err)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("EINKAUFSZETTEL_TEST_VAR", "")
	if got := envOr("EINKAUFSZETTEL_TEST_VAR", "fallback"); got != "fallback" {
		t.Fatalf("empty env must fall back, got %q", got)
	}
	t.Setenv("EINKAUFSZETTEL_TEST_VAR", "set")
	if got := envOr("EINKAUFSZETTEL_TEST_VAR", "fallback"); got != "set" {
		t.Fatalf("got %q", got)
	}
}
