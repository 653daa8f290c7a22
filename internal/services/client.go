package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	"workshop-system/internal/repositories"
	apperrors "workshop-system/pkg/errors"
	"workshop-system/pkg/filestorage"
	"workshop-system/pkg/utils"
)

type ClientServiceInterface interface {
	CreateClient(ctx context.Context, d dto.CreateClientDTO) (*entities.Client, error)
	GetClients(ctx context.Context) ([]entities.Client, error)
	GetClientWithOrders(ctx context.Context, id int64) (*dto.ClientWithOrdersDTO, error)
	UpdateClient(ctx context.Context, id int64, d dto.UpdateClientDTO, rawBody []byte) (*entities.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type ClientService struct {
	clientRepo  repositories.ClientRepositoryInterface
	orderRepo   repositories.OrderRepositoryInterface
	txManager   repositories.TxManagerInterface
	cache       repositories.CacheRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewClientService(
	clientRepo repositories.ClientRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cache repositories.CacheRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ClientServiceInterface {
	return &ClientService{
		clientRepo:  clientRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		cache:       cache,
		fileStorage: fileStorage,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func clientCacheKey(id int64) string {
	return fmt.Sprintf("client:%d", id)
}

func (s *ClientService) CreateClient(ctx context.Context, d dto.CreateClientDTO) (*entities.Client, error) {
	return s.clientRepo.CreateClient(ctx, d)
}

func (s *ClientService) GetClients(ctx context.Context) ([]entities.Client, error) {
	return s.clientRepo.GetClients(ctx)
}

func (s *ClientService) GetClientWithOrders(ctx context.Context, id int64) (*dto.ClientWithOrdersDTO, error) {
	client, err := s.findClientCached(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByClient(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	return &dto.ClientWithOrdersDTO{Client: client, Orders: orders}, nil
}

// findClientCached читает клиента из кеша; при любой проблеме с кешем
// просто идет в БД — кеш не должен ронять запросы.
func (s *ClientService) findClientCached(ctx context.Context, id int64) (*entities.Client, error) {
	key := clientCacheKey(id)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var client entities.Client
		if err := json.Unmarshal([]byte(cached), &client); err == nil {
			return &client, nil
		}
		s.logger.Warn("не удалось разобрать клиента из кеша", zap.String("key", key))
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("ошибка чтения из кеша", zap.String("key", key), zap.Error(err))
	}

	client, err := s.clientRepo.FindClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(client); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("не удалось записать клиента в кеш", zap.String("key", key), zap.Error(err))
		}
	}

	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id int64, d dto.UpdateClientDTO, rawBody []byte) (*entities.Client, error) {
	sent, err := utils.SentFields(rawBody)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]interface{})
	if sent["name"] {
		if d.Name == nil {
			return nil, apperrors.NewInvalidInputError("поле name не может быть null")
		}
		patch["name"] = *d.Name
	}
	if sent["mobileNumber"] {
		if d.MobileNumber == nil {
			return nil, apperrors.NewInvalidInputError("поле mobileNumber не может быть null")
		}
		patch["mobile_number"] = *d.MobileNumber
	}
	if sent["address"] {
		patch["address"] = d.Address
	}
	if sent["city"] {
		patch["city"] = d.City
	}

	if len(patch) == 0 {
		return s.clientRepo.FindClient(ctx, id)
	}

	client, err := s.clientRepo.UpdateClient(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return client, nil
}

// DeleteClient удаляет клиента и все его заказы одной транзакцией,
// после коммита подчищает файлы на хостинге. Неудачная зачистка
// логируется, но результат операции не меняет.
func (s *ClientService) DeleteClient(ctx context.Context, id int64) (err error) {
	orders, err := s.orderRepo.ListByClient(ctx, nil, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.orderRepo.DeleteByClientInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.clientRepo.DeleteClientInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)

	for _, order := range orders {
		if !order.HasAttachment() {
			continue
		}
		if err := s.fileStorage.Release(ctx, order.AttachmentHandle); err != nil {
			s.logger.Warn("не удалось удалить файл заказа при каскадном удалении клиента",
				zap.Int64("orderId", order.ID),
				zap.String("handle", order.AttachmentHandle),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *ClientService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Del(ctx, clientCacheKey(id)); err != nil {
		s.logger.Warn("не удалось инвалидировать кеш клиента", zap.Int64("clientId", id), zap.Error(err))
	}
}
