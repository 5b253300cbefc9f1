package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

// complete runs cobra's hidden completion command and returns the offered
// values, without the trailing directive line.
func complete(t *testing.T, args ...string) []string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"__complete"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("__complete %v: %v", args, err)
	}

	var values []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		values = append(values, strings.SplitN(line, "\t", 2)[0])
	}
	return values
}

func TestCompleteStrategy(t *testing.T) {
	tests := []struct {
		cmd, prefix string
		want        string
	}{
		{"paint", "", "scan,indexed"},
		{"paint", "in", "indexed"},
		{"serve", "s", "scan"},
	}
	for _, tt := range tests {
		got := strings.Join(complete(t, tt.cmd, "--strategy", tt.prefix), ",")
		if got != tt.want {
			t.Errorf("%s --strategy %q completes %q, want %q", tt.cmd, tt.prefix, got, tt.want)
		}
	}
}

func TestCompleteFormat(t *testing.T) {
	got := complete(t, "paint", "--format", "")
	if strings.Join(got, ",") != "png,jpg,gif,bmp,tiff" {
		t.Errorf("--format completes %v", got)
	}
	if got := complete(t, "paint", "--format", "t"); len(got) != 1 || got[0] != "tiff" {
		t.Errorf("--format t completes %v, want [tiff]", got)
	}
}
