package filestorage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage хранит файлы на внешнем хостинге Cloudinary.
// Handle — это public_id загруженного ресурса.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cloudinaryURL string) (FileStorageInterface, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось инициализировать клиент Cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: "workshop"}, nil
}

func (s *CloudinaryStorage) Store(ctx context.Context, data []byte, originalFileName string, hint Hint) (StoredFile, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	}
	if hint == HintImage {
		// Для изображений хостинг сам подбирает качество и формат доставки.
		params.ResourceType = "image"
	}

	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return StoredFile{}, fmt.Errorf("ошибка загрузки файла на Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return StoredFile{}, fmt.Errorf("Cloudinary отклонил загрузку: %s", res.Error.Message)
	}

	return StoredFile{URL: res.SecureURL, Handle: res.PublicID}, nil
}

func (s *CloudinaryStorage) Release(ctx context.Context, handle string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("ошибка удаления файла с Cloudinary: %w", err)
	}
	// "not found" считаем успехом: файла и так нет.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("Cloudinary не удалил файл: %s", res.Result)
	}
	return nil
}
