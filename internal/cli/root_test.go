package cli

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/insomnia-documenter/internal/paths"
)

// runCLI executes the root command with base as the working directory.
func runCLI(t *testing.T, base string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(paths.EnvTemplateDir, "")
	t.Setenv(paths.EnvSettingsPath, "")

	prev := slog.Default()
	defer slog.SetDefault(prev)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(Env{BaseDir: base, Stdout: &stdout, Stderr: &stderr})
	if args == nil {
		// cobra falls back to os.Args when given nil
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNoInputIsUsageError(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir())

	if code := ExitCode(err); code != ExitUsage {
		t.Errorf("ExitCode = %d, want %d", code, ExitUsage)
	}
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("error = %v, want ErrNoInput", err)
	}
	if !strings.Contains(stdout, "You must provide an exported Insomnia config") {
		t.Errorf("usage message missing from stdout: %q", stdout)
	}
}

func TestSingleFilePipeline(t *testing.T) {
	base := t.TempDir()
	export := `{"_type":"export","__export_format":4,"resources":[]}`
	writeFile(t, filepath.Join(base, "export.json"), export)

	stdout, stderr, err := runCLI(t, base, "--config", "export.json", "--output", "public")
	if err != nil {
		t.Fatalf("Execute() error = %v (stderr %q)", err, stderr)
	}

	out := filepath.Join(base, "public")
	for _, name := range []string{"index.html", "assets/app.js", "assets/style.css"} {
		if !exists(filepath.Join(out, filepath.FromSlash(name))) {
			t.Errorf("template file %s missing", name)
		}
	}

	got, err := os.ReadFile(filepath.Join(out, "insomnia.json"))
	if err != nil {
		t.Fatalf("reading insomnia.json: %v", err)
	}
	if string(got) != export {
		t.Errorf("insomnia.json = %q, want %q", got, export)
	}
	if exists(filepath.Join(out, "logo.png")) {
		t.Error("logo.png created without --logo")
	}

	for _, msg := range []string{"Getting files ready...", "Adding Insomnia JSON...", "Done!"} {
		if !strings.Contains(stdout, msg) {
			t.Errorf("stdout missing %q: %q", msg, stdout)
		}
	}
	if strings.Contains(stdout, "Adding custom logo...") {
		t.Errorf("logo step announced without --logo: %q", stdout)
	}
}

func TestSingleFilePipelineWithLogo(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "export.json"), `{}`)

	var logo bytes.Buffer
	if err := png.Encode(&logo, image.NewRGBA(image.Rect(0, 0, 48, 48))); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(base, "brand", "logo.png"), logo.String())

	stdout, stderr, err := runCLI(t, base, "-c", "export.json", "-l", "brand/logo.png")
	if err != nil {
		t.Fatalf("Execute() error = %v (stderr %q)", err, stderr)
	}

	got, err := os.ReadFile(filepath.Join(base, "logo.png"))
	if err != nil {
		t.Fatalf("reading logo.png: %v", err)
	}
	if !bytes.Equal(got, logo.Bytes()) {
		t.Error("logo.png is not byte-identical to the source")
	}
	if !strings.Contains(stdout, "Adding custom logo...") {
		t.Errorf("stdout missing logo step: %q", stdout)
	}
	if strings.Contains(stdout, "warning") {
		t.Errorf("unexpected warning for a 48x48 logo: %q", stdout)
	}
}

func TestSingleFilePipelineWarnsOnOddLogo(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "export.json"), `{}`)
	writeFile(t, filepath.Join(base, "logo.png"), "definitely not a png")

	stdout, _, err := runCLI(t, base, "-c", "export.json", "-l", "logo.png", "-o", "out")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "warning") {
		t.Errorf("expected a logo warning: %q", stdout)
	}
	if !exists(filepath.Join(base, "out", "logo.png")) {
		t.Error("logo.png should still be copied")
	}
}

func TestSingleFilePipelineRerunInOutputDir(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "insomnia.json"), `{"resources":[1]}`)
	writeFile(t, filepath.Join(base, "logo.png"), "LOGODATA")

	if _, stderr, err := runCLI(t, base, "-c", "insomnia.json", "-l", "logo.png"); err != nil {
		t.Fatalf("Execute() error = %v (stderr %q)", err, stderr)
	}

	for name, want := range map[string]string{
		"insomnia.json": `{"resources":[1]}`,
		"logo.png":      "LOGODATA",
	} {
		got, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestSingleFilePipelineMissingConfig(t *testing.T) {
	base := t.TempDir()

	_, stderr, err := runCLI(t, base, "-c", "missing.json")
	if code := ExitCode(err); code != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stderr, "missing.json") {
		t.Errorf("stderr should name the missing file: %q", stderr)
	}
}

func TestSingleFilePipelineOutputNotCreatable(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "export.json"), `{}`)
	writeFile(t, filepath.Join(base, "blocker"), "a file, not a directory")

	_, stderr, err := runCLI(t, base, "-c", "export.json", "-o", "blocker/site")
	if code := ExitCode(err); code != ExitOutputMissing {
		t.Errorf("ExitCode = %d, want %d", code, ExitOutputMissing)
	}
	if !strings.Contains(stderr, "creating output directory") {
		t.Errorf("stderr missing failure: %q", stderr)
	}
}

func TestYAMLPipeline(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "apis", "myapi", ".insomnia", "RequestGroup", "fld_1.yml"),
		"_id: fld_1\ntype: Request Group\nname: Users\n")
	writeFile(t, filepath.Join(base, "apis", "myapi", ".insomnia", "Request", "req_1.yml"),
		"_id: req_1\ntype: HTTP Request\nname: List users\n")
	writeFile(t, filepath.Join(base, "apis", "broken", ".insomnia", "req.yml"), "name: no type\n")

	stdout, stderr, err := runCLI(t, base, "-y", "apis/broken", "-y", "apis/myapi", "-o", "docs")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := filepath.Join(base, "docs")
	got, err := os.ReadFile(filepath.Join(out, "myapi.json"))
	if err != nil {
		t.Fatalf("reading myapi.json: %v", err)
	}
	want := `{"resources":[{"_id":"req_1","name":"List users","_type":"http_request"},{"_id":"fld_1","name":"Users","_type":"request_group"}]}`
	if string(got) != want {
		t.Errorf("myapi.json =\n%s\nwant\n%s", got, want)
	}

	if exists(filepath.Join(out, "broken.json")) {
		t.Error("broken.json written for a failing group")
	}
	if !strings.Contains(stdout, "group broken") {
		t.Errorf("group failure not reported on stdout: %q", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want nothing at the default log level", stderr)
	}
	if exists(filepath.Join(out, "index.html")) {
		t.Error("template copied by the YAML pipeline")
	}
}

func TestConfigTakesPrecedenceOverYAML(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "export.json"), `{}`)
	writeFile(t, filepath.Join(base, "myapi", ".insomnia", "a.yml"), "type: Request\n")

	if _, _, err := runCLI(t, base, "-c", "export.json", "-y", "myapi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !exists(filepath.Join(base, "insomnia.json")) {
		t.Error("insomnia.json missing")
	}
	if exists(filepath.Join(base, "myapi.json")) {
		t.Error("myapi.json written although --config was given")
	}
}

func TestSettingsFileDefaults(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, ".insomnia-documenter.toml"), `
output = "from-settings"
yaml = ["petstore"]
render_descriptions = true
`)
	writeFile(t, filepath.Join(base, "petstore", ".insomnia", "req.yml"),
		"type: Request\ndescription: \"**bold**\"\n")

	if _, _, err := runCLI(t, base); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(base, "from-settings", "petstore.json"))
	if err != nil {
		t.Fatalf("reading petstore.json: %v", err)
	}
	if !strings.Contains(string(got), `"descriptionHtml":"<p><strong>bold</strong></p>\n"`) {
		t.Errorf("petstore.json = %s", got)
	}
}

func TestFlagsOverrideSettings(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "docs.toml"), `output = "ignored"`+"\n"+`yaml = ["ignored"]`)
	writeFile(t, filepath.Join(base, "real", ".insomnia", "a.yml"), "type: Request\n")

	if _, _, err := runCLI(t, base, "--settings", "docs.toml", "-y", "real", "-o", "chosen"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !exists(filepath.Join(base, "chosen", "real.json")) {
		t.Error("real.json missing from flag output directory")
	}
	if exists(filepath.Join(base, "ignored")) {
		t.Error("settings output used despite --output")
	}
}

func TestInvalidSettingsFile(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, ".insomnia-documenter.toml"), `log_level = "loud"`)

	_, stderr, err := runCLI(t, base, "-y", "x")
	if code := ExitCode(err); code != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stderr, "log_level") {
		t.Errorf("stderr missing validation error: %q", stderr)
	}
}

func TestLogFile(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "myapi", ".insomnia", "a.yml"), "type: Request\n")

	if _, _, err := runCLI(t, base, "-y", "myapi", "--log-level", "info", "--log-file", "logs/run.log"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "logs", "run.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"group":"myapi"`) {
		t.Errorf("log file missing group record: %s", data)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "insomnia-documenter ") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("unknown flag"), ExitFailure},
		{"exit error", &ExitError{Code: ExitOutputMissing}, ExitOutputMissing},
		{"wrapped exit error", errors.Join(errors.New("ctx"), &ExitError{Code: 3}), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "--nope")
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if Reported(err) {
		t.Error("flag errors are not printed by the command and must not count as reported")
	}
}
