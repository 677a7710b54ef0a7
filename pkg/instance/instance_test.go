package instance

import "testing"

func TestGetIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.2")
	t.Setenv("HOSTNAME", "ip-10-0-0-1")
	if got := GetID(); got != "web.2" {
		t.Fatalf("expected dyno id, got %q", got)
	}
}

func TestGetIDFallsBackToLocal(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("HOSTNAME", "")
	if got := GetID(); got != "local" {
		t.Fatalf("expected local, got %q", got)
	}
}
