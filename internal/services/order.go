package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	"workshop-system/internal/repositories"
	apperrors "workshop-system/pkg/errors"
	"workshop-system/pkg/filestorage"
	"workshop-system/pkg/utils"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, d dto.CreateOrderDTO, file *multipart.FileHeader) (*entities.Order, error)
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	UpdateOrder(ctx context.Context, id int64, d dto.UpdateOrderDTO, rawBody []byte, file *multipart.FileHeader) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	SearchOrders(ctx context.Context, filter dto.OrderSearchFilter) ([]entities.Order, error)
}

// OrderService держит запись в БД и файл на хостинге согласованными.
// Общей транзакции между ними нет, поэтому порядок шагов фиксирован:
// сначала загрузка нового файла, и только после успеха — запись/удаление
// старого (store-then-release).
type OrderService struct {
	orderRepo   repositories.OrderRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:   orderRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, filestorage.Hint, error) {
	src, err := file.Open()
	if err != nil {
		return nil, filestorage.HintOther, fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, filestorage.HintOther, fmt.Errorf("не удалось прочитать загруженный файл: %w", err)
	}

	hint := filestorage.HintOther
	if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		hint = filestorage.HintImage
	}
	return data, hint, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, d dto.CreateOrderDTO, file *multipart.FileHeader) (*entities.Order, error) {
	var attURL, attHandle *string

	if file != nil {
		data, hint, err := readUpload(file)
		if err != nil {
			return nil, err
		}
		stored, err := s.fileStorage.Store(ctx, data, file.Filename, hint)
		if err != nil {
			// Загрузка не удалась — заказ не создаем, компенсировать нечего.
			return nil, err
		}
		attURL, attHandle = &stored.URL, &stored.Handle
	}

	order, err := s.orderRepo.CreateOrder(ctx, d, attURL, attHandle)
	if err != nil {
		if attHandle != nil {
			// Запись не создана, файл уже на хостинге — подчищаем, чтобы не
			// копить сирот. Неудача здесь только логируется.
			if relErr := s.fileStorage.Release(ctx, *attHandle); relErr != nil {
				s.logger.Warn("не удалось удалить файл после неудачного создания заказа",
					zap.String("handle", *attHandle), zap.Error(relErr))
			}
		}
		return nil, err
	}

	return order, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	return s.orderRepo.FindOrder(ctx, id)
}

func (s *OrderService) UpdateOrder(ctx context.Context, id int64, d dto.UpdateOrderDTO, rawBody []byte, file *multipart.FileHeader) (*entities.Order, error) {
	existing, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := buildOrderPatch(d, rawBody)
	if err != nil {
		return nil, err
	}

	var newHandle string
	if file != nil {
		data, hint, err := readUpload(file)
		if err != nil {
			return nil, err
		}
		stored, err := s.fileStorage.Store(ctx, data, file.Filename, hint)
		if err != nil {
			// Новый файл не загрузился — заказ не трогаем, старый файл цел.
			return nil, err
		}
		patch["attachment_url"] = stored.URL
		patch["attachment_handle"] = stored.Handle
		newHandle = stored.Handle
	}

	if len(patch) == 0 {
		return existing, nil
	}

	order, err := s.orderRepo.UpdateOrder(ctx, id, patch)
	if err != nil {
		if newHandle != "" {
			if relErr := s.fileStorage.Release(ctx, newHandle); relErr != nil {
				s.logger.Warn("не удалось удалить файл после неудачного обновления заказа",
					zap.String("handle", newHandle), zap.Error(relErr))
			}
		}
		return nil, err
	}

	// store-then-release: старый файл удаляется только после того, как заказ
	// уже указывает на новый. Неудачное удаление — утечка на хостинге, а не
	// потеря данных, поэтому обновление все равно успешно.
	if file != nil && existing.HasAttachment() {
		if relErr := s.fileStorage.Release(ctx, existing.AttachmentHandle); relErr != nil {
			s.logger.Warn("не удалось удалить прежний файл заказа",
				zap.Int64("orderId", id),
				zap.String("handle", existing.AttachmentHandle),
				zap.Error(relErr),
			)
		}
	}

	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	existing, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return err
	}

	// Контракт для пользователя — исчезновение записи; файл удаляем
	// по возможности, неудача не блокирует удаление.
	if existing.HasAttachment() {
		if err := s.fileStorage.Release(ctx, existing.AttachmentHandle); err != nil {
			s.logger.Warn("не удалось удалить файл заказа",
				zap.Int64("orderId", id),
				zap.String("handle", existing.AttachmentHandle),
				zap.Error(err),
			)
		}
	}

	return s.orderRepo.DeleteOrder(ctx, id)
}

func (s *OrderService) SearchOrders(ctx context.Context, filter dto.OrderSearchFilter) ([]entities.Order, error) {
	return s.orderRepo.SearchOrders(ctx, filter)
}

func buildOrderPatch(d dto.UpdateOrderDTO, rawBody []byte) (map[string]interface{}, error) {
	sent, err := utils.SentFields(rawBody)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]interface{})

	stringFields := []struct {
		json   string
		column string
		value  *string
	}{
		{"orderName", "order_name", d.OrderName},
		{"number", "number", d.Number},
		{"work", "work", d.Work},
		{"status", "status", d.Status},
		{"type", "type", d.Type},
		{"paymentStatus", "payment_status", d.PaymentStatus},
	}
	for _, f := range stringFields {
		if sent[f.json] {
			patch[f.column] = f.value
		}
	}

	if sent["addDate"] {
		patch["add_date"] = parseDateValue(d.AddDate)
	}
	if sent["deliveryDate"] {
		patch["delivery_date"] = parseDateValue(d.DeliveryDate)
	}
	if sent["totalAmount"] {
		patch["total_amount"] = d.TotalAmount
	}
	if sent["receivedPayment"] {
		patch["received_payment"] = d.ReceivedPayment
	}
	if sent["clientId"] {
		if d.ClientID == nil {
			return nil, apperrors.NewInvalidInputError("поле clientId не может быть null")
		}
		patch["client_id"] = *d.ClientID
	}

	return patch, nil
}

func parseDateValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	// Формат уже проверен валидатором DTO.
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return t
}
