package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("SUPPLYNET_TEST_VALUE", "")
	if got := Get("SUPPLYNET_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("SUPPLYNET_TEST_VALUE", "console")
	if got := Get("SUPPLYNET_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"": false, "0": false, "false": false, "1": true, "true": true, "yes": true}
	for raw, want := range cases {
		t.Setenv("SUPPLYNET_TEST_FLAG", raw)
		if got := Bool("SUPPLYNET_TEST_FLAG", false); got != want {
			t.Fatalf("Bool(%q) = %v, want %v", raw, got, want)
		}
	}
}
