package theme

import (
	"testing"

	"github.com/theirongolddev/advisor/internal/present"
)

func TestByNameDefaultsToIndigo(t *testing.T) {
	if got := ByName("no-such-theme").Name; got != "indigo" {
		t.Fatalf("ByName(unknown) = %q, want indigo", got)
	}
	if got := ByName("terminal").Name; got != "terminal" {
		t.Fatalf("ByName(terminal) = %q", got)
	}
}

func TestRoleResolution(t *testing.T) {
	th := Indigo
	if th.Role(present.RoleGreen) != th.Green {
		t.Error("RoleGreen did not resolve to Green")
	}
	if th.Role(present.RoleMuted) != th.TextMuted {
		t.Error("RoleMuted did not resolve to TextMuted")
	}
	if th.Role(present.Role(99)) != th.TextMuted {
		t.Error("unknown role should fall back to TextMuted")
	}
}
