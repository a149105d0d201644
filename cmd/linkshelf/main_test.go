package main

import (
	"strings"
	"testing"

	"github.com/docopt/docopt-go"
)

func parse(t *testing.T, args ...string) docopt.Opts {
	t.Helper()
	parser := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}
	opts, err := parser.ParseArgs(usage, args, version)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return opts
}

func TestUsage_Commands(t *testing.T) {
	tests := []struct {
		args    []string
		command string
	}{
		{[]string{}, ""},
		{[]string{"tui"}, "tui"},
		{[]string{"tui", "tags/go"}, "tui"},
		{[]string{"serve"}, "serve"},
		{[]string{"store", "--db=records.json"}, "store"},
		{[]string{"find", "go", "docs"}, "find"},
		{[]string{"tags"}, "tags"},
		{[]string{"import", "bookmarks.html"}, "import"},
		{[]string{"export"}, "export"},
		{[]string{"check", "--prune"}, "check"},
		{[]string{"--config=/tmp/c.yaml", "tags"}, "tags"},
	}

	commands := []string{"tui", "serve", "store", "find", "tags", "import", "export", "check"}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			opts := parse(t, tt.args...)
			for _, c := range commands {
				if got := isSet(opts, c); got != (c == tt.command) {
					t.Errorf("%s: expected %v, got %v", c, c == tt.command, got)
				}
			}
		})
	}
}

func TestUsage_Values(t *testing.T) {
	opts := parse(t, "--config=/tmp/c.yaml", "store", "--addr=:9000", "--db=records.json")
	if got := optString(opts, "--config"); got != "/tmp/c.yaml" {
		t.Errorf("expected config path, got %q", got)
	}
	if got := optString(opts, "--addr"); got != ":9000" {
		t.Errorf("expected addr, got %q", got)
	}
	if got := optString(opts, "--db"); got != "records.json" {
		t.Errorf("expected db, got %q", got)
	}

	opts = parse(t, "tui", "tags/go")
	if got := optString(opts, "<route>"); got != "tags/go" {
		t.Errorf("expected route, got %q", got)
	}
	if got := optString(opts, "--addr"); got != "" {
		t.Errorf("expected no addr, got %q", got)
	}

	if isSet(parse(t, "check"), "--prune") {
		t.Error("expected --prune to default to false")
	}

	opts = parse(t, "find", "go", "docs")
	if query, _ := opts["<query>"].([]string); strings.Join(query, " ") != "go docs" {
		t.Errorf("expected query words, got %v", opts["<query>"])
	}
}
