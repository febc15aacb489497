package cover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Uploader writes cover images to object storage.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, content []byte) error
}

// Seed uploads every known cover found in dir. Missing files are skipped;
// the number of uploaded covers is returned.
func Seed(ctx context.Context, up Uploader, dir string) (int, error) {
	n := 0
	for _, c := range Covers {
		content, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(c, "/")))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("read cover %s: %w", c, err)
		}
		if err := up.Upload(ctx, c, "image/png", content); err != nil {
			return n, fmt.Errorf("upload cover %s: %w", c, err)
		}
		n++
	}
	return n, nil
}
