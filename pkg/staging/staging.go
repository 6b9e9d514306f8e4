// Package staging copies picked background images into a local directory
// before they are used.
package staging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// DefaultDir is the staging directory used when none is configured.
const DefaultDir = "uploads"

// ErrUnsupportedType is returned for files that are not PNG, JPEG or WEBP.
var ErrUnsupportedType = errors.New("unsupported image type")

var allowed = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Allowed reports whether name has a supported image extension.
func Allowed(name string) bool {
	return allowed[strings.ToLower(filepath.Ext(name))]
}

// Extensions lists the supported extensions without the dot.
func Extensions() []string {
	return []string{"png", "jpg", "jpeg", "webp"}
}

// Stager writes files into Dir.
type Stager struct {
	dir string
	log *slog.Logger
}

// New creates dir if it does not exist.
func New(dir string, log *slog.Logger) (*Stager, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Stager{dir: dir, log: log}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// CopyFile copies src into the staging directory under its base name and
// returns the staged path. An existing staged file of the same name is
// replaced. A src that already is the staged file is returned untouched.
func (s *Stager) CopyFile(src string) (string, error) {
	if !Allowed(src) {
		return "", fmt.Errorf("%s: %w", src, ErrUnsupportedType)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	name := sanitizeFilename(filepath.Base(src))
	if s.isStaged(in, name) {
		s.log.Debug("background already staged", "path", src)
		return filepath.Join(s.dir, name), nil
	}

	return s.Save(name, in)
}

// isStaged reports whether the open file in is the staged file name.
func (s *Stager) isStaged(in *os.File, name string) bool {
	if name == "" {
		return false
	}
	srcInfo, err := in.Stat()
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, dstInfo)
}

// Save writes r into the staging directory as name and returns the staged
// path. Only the base name of name is used.
func (s *Stager) Save(name string, r io.Reader) (string, error) {
	clean := sanitizeFilename(name)
	if clean == "" || !Allowed(clean) {
		return "", fmt.Errorf("%q: %w", name, ErrUnsupportedType)
	}
	return s.write(clean, r)
}

// SaveUnique is Save with a ULID prefix, so concurrent uploads of the same
// name never overwrite each other.
func (s *Stager) SaveUnique(name string, r io.Reader) (string, error) {
	clean := sanitizeFilename(name)
	if clean == "" || !Allowed(clean) {
		return "", fmt.Errorf("%q: %w", name, ErrUnsupportedType)
	}
	return s.write(ulid.Make().String()+"_"+clean, r)
}

// Path resolves a staged file name to its path. It reports false when the
// name is not a plain file inside the staging directory.
func (s *Stager) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	p := filepath.Join(s.dir, name)
	st, err := os.Stat(p)
	if err != nil || !st.Mode().IsRegular() {
		return "", false
	}
	return p, true
}

// write streams r into a temp file and renames it to name, so an existing
// staged file is only replaced by a complete copy.
func (s *Stager) write(name string, r io.Reader) (string, error) {
	dst := filepath.Join(s.dir, name)
	out, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	tmp := out.Name()

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0644)
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	s.log.Info("background staged", "path", dst, "size", humanize.Bytes(uint64(n)))
	return dst, nil
}

// sanitizeFilename keeps the base name and replaces separators and spaces.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}
