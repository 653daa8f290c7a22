package filestorage

import "context"

// Hint подсказывает хостингу тип содержимого. Влияет только на оптимизацию
// доставки, никогда — на корректность.
type Hint string

const (
	HintImage Hint = "image"
	HintOther Hint = "other"
)

// StoredFile — стабильная ссылка на сохраненный файл.
// URL отдается клиентам, Handle используется только для удаления/замены
// и наружу не публикуется.
type StoredFile struct {
	URL    string
	Handle string
}

// FileStorageInterface определяет контракт для сервиса хранения файлов.
type FileStorageInterface interface {
	Store(ctx context.Context, data []byte, originalFileName string, hint Hint) (StoredFile, error)
	// Release удаляет ранее сохраненный файл. Отсутствие файла — не ошибка,
	// чтобы удаление оставалось идемпотентным.
	Release(ctx context.Context, handle string) error
}
