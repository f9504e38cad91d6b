package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStore はアップロードをローカルディスクに保存してURLを返す。
// 本番ではオブジェクトストレージ実装に差し替える前提の窓口。
type LocalFileStore struct {
	baseDir string
	baseURL string
}

func NewLocalFileStore(baseDir string, baseURL string) *LocalFileStore {
	return &LocalFileStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload はファイルを保存して恒久URLを返す。
func (s *LocalFileStore) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned := filepath.Clean(path)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid path: %s", path)
	}

	dst := filepath.Join(s.baseDir, cleaned)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return s.baseURL + "/" + filepath.ToSlash(cleaned), nil
}
