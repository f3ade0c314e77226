// Package storage хранит загруженные обложки статей на локальном диске.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxImageSize = 5 << 20
	imagesSubdir = "articles"
)

var (
	ErrNotImage = errors.New("upload is not a supported image")
	ErrTooLarge = errors.New("upload exceeds size limit")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, imagesSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir — корень для раздачи /media/.
func (s *LocalStore) Dir() string { return s.dir }

// Save проверяет тип по содержимому и пишет файл под uuid-именем.
// Возвращает путь относительно корня media.
func (s *LocalStore) Save(ctx context.Context, up models.Upload) (string, error) {
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	ext, ok := imageExt[http.DetectContentType(data)]
	if !ok {
		logger.WithCtx(ctx).Warn("Загружен не-image файл", zap.String("filename", up.Filename))
		return "", ErrNotImage
	}

	rel := path.Join(imagesSubdir, uuid.NewString()+ext)
	if err := os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(rel)), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	logger.WithCtx(ctx).Info("Обложка сохранена", zap.String("path", rel), zap.Int("size", len(data)))
	return rel, nil
}

// Remove удаляет ранее сохранённый файл; отсутствие файла не ошибка.
func (s *LocalStore) Remove(ctx context.Context, rel string) error {
	clean := path.Clean("/" + rel)
	if !strings.HasPrefix(clean, "/"+imagesSubdir+"/") {
		return fmt.Errorf("refusing to remove %q", rel)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
