package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "path escape", err: PathEscapeError("escape").Build(), expected: 7},
		{name: "build summary", err: BuildError("3 files failed").Build(), expected: 11},
		{name: "render error", err: RenderError("exec").Build(), expected: 11},
		{name: "lookup error", err: TemplateLookupError("missing").Build(), expected: 11},
		{name: "asset error", err: AssetMetadataError("no date").Build(), expected: 11},
		{name: "internal error", err: InternalError("bug").Build(), expected: 10},
		{name: "wrapped config error", err: fmt.Errorf("load: %w", ConfigError("bad").Build()), expected: 7},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	err := ConfigError("output_dir must not equal source_dir").WithContext("path", "/srv/site/_bollard.yaml").Build()

	got := quiet.FormatError(err)
	if got != "Error: output_dir must not equal source_dir (/srv/site/_bollard.yaml)" {
		t.Errorf("unexpected quiet message %q", got)
	}
	if verbose.FormatError(err) != err.Error() {
		t.Errorf("verbose mode should print the full error")
	}
	if quiet.FormatError(InternalError("nil map").Build()) != "Internal error occurred (use -v for details)" {
		t.Errorf("internal errors should be hidden in quiet mode")
	}
	if quiet.FormatError(nil) != "" {
		t.Errorf("nil error should format as empty")
	}
	if quiet.FormatError(&customError{msg: "x"}) != "Error: x" {
		t.Errorf("unexpected unclassified message")
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	var code int
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(BuildError("2 files failed").WithContext("failures", 2).Build())

	if code != 11 {
		t.Errorf("expected exit code 11, got %d", code)
	}
	if !strings.Contains(buf.String(), "category=build") {
		t.Errorf("expected category in log output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "failures=2") {
		t.Errorf("expected context in log output, got %q", buf.String())
	}
}
