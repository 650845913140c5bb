package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/runner")

// Runner launches one scraper script at a time and turns its stdout
// into the object the script printed last. There is no retry and no
// per-script timeout, cancelling ctx is the only way to stop a hung
// child.
type Runner struct {
	// Interpreter executes the scripts, typically "python".
	Interpreter string
	// TempDir overrides TEMP/TMP for the child. Playwright's mkdtemp
	// fails with ENOENT under task schedulers that strip the
	// environment, pinning the directory avoids that.
	TempDir string
}

// Run executes `<interpreter> <script> <args...>` and extracts the
// last object from its stdout. A non-zero exit yields *ExecError with
// the captured output verbatim plus any fresh debug artifacts.
func (r Runner) Run(ctx context.Context, script string, args ...string) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if r.TempDir != "" {
		os.MkdirAll(r.TempDir, 0777)
	}

	overrides := map[string]string{
		// the scrapers print korean text, without these the child
		// falls back to the console codepage on windows and stdout
		// decoding breaks
		"PYTHONUTF8":       "1",
		"PYTHONIOENCODING": "utf-8",
	}
	if r.TempDir != "" {
		overrides["TEMP"] = r.TempDir
		overrides["TMP"] = r.TempDir
	}

	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := overrides[key]; !overridden {
			env = append(env, kv)
		}
	}
	for key, value := range overrides {
		env = append(env, key+"="+value)
	}

	cmd := exec.CommandContext(ctx, r.Interpreter, append([]string{script}, args...)...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.InfoContext(
		ctx, "run script",
		"interpreter", r.Interpreter,
		"script", script,
		"args", strings.Join(args, " "),
	)

	started := time.Now()
	err := cmd.Run()
	if err != nil {
		execErr := &ExecError{
			Script: script,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Artifacts: collectArtifacts(
				filepath.Join(filepath.Dir(script), "debug"),
				started,
			),
			Err: err,
		}
		span.RecordError(execErr)
		span.SetStatus(codes.Error, "script exited non-zero")
		return nil, execErr
	}

	obj, err := ExtractLastObject(stdout.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not extract object from stdout")
		return nil, err
	}
	return obj, nil
}
