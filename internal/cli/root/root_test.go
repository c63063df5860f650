package root

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
	"github.com/regenrek/peakydash/internal/panel"
)

func testDeps(out *bytes.Buffer) Dependencies {
	deps := DefaultDependencies("test")
	deps.Stdout = out
	deps.Stderr = out
	return deps
}

func TestRegistryRejectsDuplicatesAndMissingHandlers(t *testing.T) {
	reg := NewRegistry()
	ok := func(CommandContext) error { return nil }
	if err := reg.Register(Command{ID: "arrange", Handler: ok}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(Command{ID: "arrange", Handler: ok}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	err := reg.Register(Command{ID: "prettify"})
	if err == nil || !strings.Contains(err.Error(), "missing CLI handler for prettify") {
		t.Fatalf("expected missing handler error, got %v", err)
	}
	cmd, found := reg.Lookup("arrange")
	if !found || cmd.Name != "arrange" {
		t.Fatalf("Lookup() = %#v, %v", cmd, found)
	}
}

func TestRunPassesArgsAndEmitsText(t *testing.T) {
	var out bytes.Buffer
	reg := NewRegistry()
	var got []string
	_ = reg.Register(Command{ID: "widgets", MinArgs: 1, MaxArgs: -1, JSON: true, Handler: func(ctx CommandContext) error {
		got = ctx.Args
		return ctx.Emit(map[string]int{"n": len(ctx.Args)}, func(w io.Writer) error {
			_, err := w.Write([]byte("text\n"))
			return err
		})
	}})
	runner, err := NewRunner(testDeps(&out), reg)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if err := runner.Run(context.Background(), []string{"peakydash", "widgets", "a.yml", "b"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(got, ",") != "a.yml,b" || out.String() != "text\n" {
		t.Fatalf("args=%v out=%q", got, out.String())
	}
}

func TestRunJSONEnvelopes(t *testing.T) {
	var out bytes.Buffer
	reg := NewRegistry()
	_ = reg.Register(Command{ID: "widgets", MaxArgs: -1, JSON: true, Handler: func(ctx CommandContext) error {
		return ctx.Emit([]string{"p1"}, nil)
	}})
	_ = reg.Register(Command{ID: "duplicate", MaxArgs: -1, JSON: true, Handler: func(CommandContext) error {
		return errors.Join(errors.New("dup"), panel.ErrUnknownPanel)
	}})
	runner, _ := NewRunner(testDeps(&out), reg)

	if err := runner.Run(context.Background(), []string{"peakydash", "--json", "widgets"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var ok output.SuccessEnvelope
	if err := json.Unmarshal(out.Bytes(), &ok); err != nil || !ok.Ok || ok.Meta.Command != "widgets" {
		t.Fatalf("success envelope = %+v err=%v", ok, err)
	}

	out.Reset()
	err := runner.Run(context.Background(), []string{"peakydash", "--json", "duplicate"})
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	var failed output.ErrorEnvelope
	if err := json.Unmarshal(out.Bytes(), &failed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if failed.Ok || failed.Error.Code != output.CodeUnknownPanel {
		t.Fatalf("error envelope = %+v", failed)
	}
}

func TestRunValidatesArgs(t *testing.T) {
	var out bytes.Buffer
	reg := NewRegistry()
	_ = reg.Register(Command{ID: "validate", MinArgs: 1, MaxArgs: 1, Handler: func(CommandContext) error { return nil }})
	runner, _ := NewRunner(testDeps(&out), reg)

	err := runner.Run(context.Background(), []string{"peakydash", "validate"})
	var usage *UsageError
	if !errors.As(err, &usage) || !strings.Contains(err.Error(), "at least 1") {
		t.Fatalf("expected usage error, got %v", err)
	}
	err = runner.Run(context.Background(), []string{"peakydash", "validate", "a", "b"})
	if !errors.As(err, &usage) || !strings.Contains(err.Error(), "at most 1") {
		t.Fatalf("expected usage error, got %v", err)
	}
	err = runner.Run(context.Background(), []string{"peakydash", "--json", "validate", "a"})
	if err == nil {
		t.Fatalf("expected --json to be rejected")
	}
	if !strings.Contains(out.String(), output.CodeInvalidArgs) {
		t.Fatalf("expected invalid_args envelope, got %q", out.String())
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"peakydash", "widgets"}, ""},
		{[]string{"peakydash", "--config", "/tmp/c.yml", "widgets"}, "/tmp/c.yml"},
		{[]string{"peakydash", "--config=/tmp/d.yml"}, "/tmp/d.yml"},
		{[]string{"peakydash", "-config", "e.yml"}, "e.yml"},
		{[]string{"peakydash", "--", "--config", "x"}, ""},
		{[]string{"peakydash", "--config"}, ""},
	}
	for _, tc := range cases {
		if got := ConfigPathFromArgs(tc.args); got != tc.want {
			t.Fatalf("ConfigPathFromArgs(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
