package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	Version = "1.2.3"
	Commit = "abc123def456"
	Date = "2026-01-15T08:00:00Z"

	info := GetInfo()

	if info.Version != "1.2.3" {
		t.Errorf("Version = %v, want 1.2.3", info.Version)
	}
	if info.Commit != "abc123def456" {
		t.Errorf("Commit = %v, want abc123def456", info.Commit)
	}
	if info.Date != "2026-01-15T08:00:00Z" {
		t.Errorf("Date = %v, want 2026-01-15T08:00:00Z", info.Date)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %v, want %v", info.Platform, want)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abc123def456",
		Date:      "2026-01-15",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	got := info.String()
	for _, substr := range []string{"flowforge", "1.2.3", "abc123de", "2026-01-15", "go1.24.6", "linux/amd64"} {
		if !strings.Contains(got, substr) {
			t.Errorf("String() = %v, missing %v", got, substr)
		}
	}
	if strings.Contains(got, "abc123def456") {
		t.Errorf("String() = %v, commit should be truncated to 8 chars", got)
	}
}

func TestInfoStringShortCommit(t *testing.T) {
	info := Info{Version: "dev", Commit: "abc", Date: "unknown"}
	if got := info.String(); !strings.Contains(got, "abc") {
		t.Errorf("String() = %v, want untruncated short commit", got)
	}
}

func TestInfoShort(t *testing.T) {
	if got := (Info{Version: "1.2.3-rc1"}).Short(); got != "1.2.3-rc1" {
		t.Errorf("Short() = %v, want 1.2.3-rc1", got)
	}
}

func TestDefaultValues(t *testing.T) {
	info := GetInfo()
	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("GetInfo() has empty build fields: %+v", info)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("GetInfo() has empty runtime fields: %+v", info)
	}
}
