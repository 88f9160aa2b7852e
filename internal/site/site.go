// Package site materializes the static documentation site: the template tree
// plus the workspace export and an optional logo.
package site

import (
	"embed"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tessro/insomnia-documenter/internal/paths"
)

//go:embed all:public
var templateFS embed.FS

// LogoSize is the expected edge length of the logo, in pixels.
const LogoSize = 48

// Template returns the site template compiled into the binary.
func Template() fs.FS {
	sub, err := fs.Sub(templateFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadTemplate returns the template tree to copy: the directory named by
// INSOMNIA_DOCUMENTER_TEMPLATE when set, otherwise the embedded one.
func LoadTemplate() (fs.FS, error) {
	dir := paths.TemplateDir()
	if dir == "" {
		return Template(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// OutputError reports that the output directory could not be created.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("creating output directory %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// Materializer writes a documentation site into OutputDir.
type Materializer struct {
	Template  fs.FS
	OutputDir string
}

// EnsureOutput creates the output directory and its parents.
func (m *Materializer) EnsureOutput() error {
	if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
		return &OutputError{Path: m.OutputDir, Err: err}
	}
	return nil
}

// CopyTemplate copies the template tree into the output directory,
// overwriting files that already exist. Files are written with default
// permissions and fresh modification times; entries in the output directory
// that are not part of the template are left alone.
func (m *Materializer) CopyTemplate() error {
	return fs.WalkDir(m.Template, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip the root "." entry
		if path == "." {
			return nil
		}

		destPath := filepath.Join(m.OutputDir, filepath.FromSlash(path))

		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}

		content, err := fs.ReadFile(m.Template, path)
		if err != nil {
			return fmt.Errorf("read template file %s: %w", path, err)
		}

		if err := os.WriteFile(destPath, content, 0o644); err != nil {
			return fmt.Errorf("write file %s: %w", destPath, err)
		}

		return nil
	})
}

// AddConfig copies the workspace export verbatim to insomnia.json.
func (m *Materializer) AddConfig(src string) error {
	return copyFile(src, filepath.Join(m.OutputDir, paths.ExportFile))
}

// AddLogo copies the logo verbatim to logo.png.
func (m *Materializer) AddLogo(src string) error {
	return copyFile(src, filepath.Join(m.OutputDir, paths.LogoFile))
}

// copyFile copies src to dst byte for byte. When both names refer to the
// same file, the file is left as it is.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return nil
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}

// Logo validation errors.
var (
	ErrLogoNotPNG    = errors.New("logo is not a PNG image")
	ErrLogoWrongSize = errors.New("logo is not 48x48 pixels")
)

// InspectLogo checks that the file at path is a 48x48 PNG. A non-nil error
// wrapping ErrLogoNotPNG or ErrLogoWrongSize describes a logo that will still
// be copied but may render poorly; any other error means the file could not
// be read.
func InspectLogo(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogoNotPNG, err)
	}
	if cfg.Width != LogoSize || cfg.Height != LogoSize {
		return fmt.Errorf("%w (got %dx%d)", ErrLogoWrongSize, cfg.Width, cfg.Height)
	}
	return nil
}
