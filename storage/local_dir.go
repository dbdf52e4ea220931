package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type localDirUploader struct {
	root string
}

// NewLocalDirUploader writes uploads below root. It is used when no R2
// bucket is configured.
func NewLocalDirUploader(root string) (FileUploader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %q: %w", abs, err)
	}
	return &localDirUploader{root: abs}, nil
}

func (u *localDirUploader) path(key string) (string, error) {
	p := filepath.Join(u.root, filepath.FromSlash(key))
	if p != u.root && !strings.HasPrefix(p, u.root+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes the export directory", key)
	}
	return p, nil
}

func (u *localDirUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := u.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", p, err)
	}
	defer f.Close()

	sum := md5.New()
	if _, err := io.Copy(io.MultiWriter(f, sum), reader); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", p, err)
	}
	return &UploadResult{Key: key, Location: u.GetPublicURL(key), ETag: hex.EncodeToString(sum.Sum(nil))}, nil
}

func (u *localDirUploader) Delete(ctx context.Context, key string) error {
	p, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

func (u *localDirUploader) GetPublicURL(key string) string {
	p, err := u.path(key)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}
