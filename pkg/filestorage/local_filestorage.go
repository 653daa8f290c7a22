// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalFileStorage — локальная реализация для разработки и инсталляций без
// Cloudinary. Handle — путь файла относительно basePath, URL — путь под
// статическим роутом /uploads.
type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Store(ctx context.Context, data []byte, originalFileName string, hint Hint) (StoredFile, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return StoredFile{}, err
	}

	if err := os.WriteFile(filepath.Join(fullDirPath, uniqueFileName), data, 0o644); err != nil {
		return StoredFile{}, err
	}

	handle := filepath.ToSlash(filepath.Join(datePath, uniqueFileName))
	return StoredFile{URL: "/uploads/" + handle, Handle: handle}, nil
}

func (s *LocalFileStorage) Release(ctx context.Context, handle string) error {
	// Защита от выхода за пределы basePath.
	cleaned := filepath.Clean(filepath.FromSlash(handle))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("недопустимый идентификатор файла: %s", handle)
	}

	fullPath := filepath.Join(s.basePath, cleaned)

	// Если файла и так нет, считаем операцию успешной.
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}
