package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// snapshot copies the history database at src to a uniquely named temp file
// so it can be read while the browser holds the original open and locked.
// The returned cleanup func removes the copy and is safe to call on every
// exit path.
func snapshot(src string) (path string, cleanup func(), err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", nil, fmt.Errorf("open history store: %w", err)
	}
	defer in.Close()

	path = filepath.Join(os.TempDir(), "linktrack-history-"+uuid.NewString()+".db")
	out, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create snapshot: %w", err)
	}

	cleanup = func() { os.Remove(path) }

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		cleanup()
		return "", nil, fmt.Errorf("copy history store: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close snapshot: %w", err)
	}

	return path, cleanup, nil
}
