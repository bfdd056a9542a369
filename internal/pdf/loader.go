package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
	"github.com/a3tai/mcp-label-reader/internal/pdf/security"
)

var pdfMagic = []byte("%PDF-")

// Loader reads label uploads from disk after validating path and size
type Loader struct {
	maxFileSize int64
	guard       *security.PathGuard
}

// NewLoader creates a loader confined to directory
func NewLoader(maxFileSize int64, directory string) (*Loader, error) {
	guard, err := security.NewPathGuard(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path guard: %w", err)
	}
	return &Loader{maxFileSize: maxFileSize, guard: guard}, nil
}

// Directory returns the directory uploads are read from
func (l *Loader) Directory() string {
	return l.guard.Root()
}

// MaxFileSize returns the maximum accepted upload size in bytes
func (l *Loader) MaxFileSize() int64 {
	return l.maxFileSize
}

// Load validates path and returns the file contents
func (l *Loader) Load(path string) ([]byte, error) {
	resolved, err := l.guard.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		if !l.guard.Exists() {
			return nil, fmt.Errorf("label directory does not exist: %s", l.guard.Root())
		}
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := l.validateFileInfo(resolved, info); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := ValidateBytes(data, l.maxFileSize); err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeInvalidFile, "invalid upload", err).WithFile(path)
	}
	return data, nil
}

func (l *Loader) validateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > l.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), l.maxFileSize)
	}
	return nil
}

// ValidateBytes performs the cheap checks on an in-memory upload: size and
// the PDF header. It does not parse the document.
func ValidateBytes(data []byte, maxFileSize int64) error {
	if len(data) == 0 {
		return fmt.Errorf("upload is empty")
	}
	if maxFileSize > 0 && int64(len(data)) > maxFileSize {
		return fmt.Errorf("upload too large: %d bytes (max: %d bytes)", len(data), maxFileSize)
	}
	// Some generators prepend a few junk bytes before the header
	head := data[:min(len(data), 1024)]
	if !bytes.Contains(head, pdfMagic) {
		return fmt.Errorf("missing %%PDF header")
	}
	return nil
}
