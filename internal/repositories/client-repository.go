package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	apperrors "workshop-system/pkg/errors"
)

const (
	clientTable  = "clients"
	clientFields = `id, name, mobile_number, address, city, created_at, updated_at`
)

type ClientRepositoryInterface interface {
	GetClients(ctx context.Context) ([]entities.Client, error)
	FindClient(ctx context.Context, id int64) (*entities.Client, error)
	CreateClient(ctx context.Context, d dto.CreateClientDTO) (*entities.Client, error)
	UpdateClient(ctx context.Context, id int64, patch map[string]interface{}) (*entities.Client, error)
	DeleteClientInTx(ctx context.Context, tx pgx.Tx, id int64) error
}

type clientRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewClientRepository(storage *pgxpool.Pool, logger *zap.Logger) ClientRepositoryInterface {
	return &clientRepository{storage: storage, logger: logger}
}

func (r *clientRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *clientRepository) scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.MobileNumber, &c.Address, &c.City,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования clients: %w", err)
	}
	return &c, nil
}

func (r *clientRepository) GetClients(ctx context.Context) ([]entities.Client, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(clientFields).From(clientTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для GetClients: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка клиентов: %w", err)
	}
	defer rows.Close()

	clients := make([]entities.Client, 0)
	for rows.Next() {
		c, err := r.scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *clientRepository) FindClient(ctx context.Context, id int64) (*entities.Client, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(clientFields).From(clientTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindClient: %w", err)
	}
	return r.scanClient(r.storage.QueryRow(ctx, query, args...))
}

func (r *clientRepository) CreateClient(ctx context.Context, d dto.CreateClientDTO) (*entities.Client, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(clientTable).
		Columns("name", "mobile_number", "address", "city").
		Values(d.Name, d.MobileNumber, d.Address, d.City).
		Suffix("RETURNING " + clientFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для CreateClient: %w", err)
	}
	return r.scanClient(r.storage.QueryRow(ctx, query, args...))
}

// UpdateClient применяет только присланные колонки; множество колонок уже
// провалидировано сервисом.
func (r *clientRepository) UpdateClient(ctx context.Context, id int64, patch map[string]interface{}) (*entities.Client, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update(clientTable).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + clientFields)
	for column, value := range patch {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для UpdateClient: %w", err)
	}
	return r.scanClient(r.storage.QueryRow(ctx, query, args...))
}

func (r *clientRepository) DeleteClientInTx(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления клиента: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
