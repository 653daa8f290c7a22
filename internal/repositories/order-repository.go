package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	apperrors "workshop-system/pkg/errors"
)

const (
	orderTable = "orders"
	// Суммы приводятся к float8, чтобы сканироваться в null.Float64 без
	// промежуточного разбора numeric.
	orderFields = `id, order_name, number, work, status, type, payment_status,
		add_date, delivery_date, total_amount::float8, received_payment::float8,
		attachment_url, attachment_handle, client_id, created_at, updated_at`

	dateLayout = "2006-01-02"
)

type OrderRepositoryInterface interface {
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	CreateOrder(ctx context.Context, d dto.CreateOrderDTO, attURL, attHandle *string) (*entities.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch map[string]interface{}) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	SearchOrders(ctx context.Context, filter dto.OrderSearchFilter) ([]entities.Order, error)
	ListByClient(ctx context.Context, tx pgx.Tx, clientID int64) ([]entities.Order, error)
	DeleteByClientInTx(ctx context.Context, tx pgx.Tx, clientID int64) error
}

type orderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &orderRepository{storage: storage, logger: logger}
}

func (r *orderRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *orderRepository) scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	var addDate, deliveryDate sql.NullTime
	var attachmentHandle sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderName, &o.Number, &o.Work, &o.Status, &o.Type, &o.PaymentStatus,
		&addDate, &deliveryDate, &o.TotalAmount, &o.ReceivedPayment,
		&o.AttachmentURL, &attachmentHandle, &o.ClientID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования orders: %w", err)
	}

	if addDate.Valid {
		o.AddDate = null.StringFrom(addDate.Time.Format(dateLayout))
	}
	if deliveryDate.Valid {
		o.DeliveryDate = null.StringFrom(deliveryDate.Time.Format(dateLayout))
	}
	if attachmentHandle.Valid {
		o.AttachmentHandle = attachmentHandle.String
	}

	return &o, nil
}

// wrapOrderWriteError переводит нарушение внешнего ключа client_id в ошибку
// валидации, остальное отдает как есть.
func wrapOrderWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperrors.NewInvalidInputError("клиент с указанным clientId не существует")
	}
	return err
}

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	// Формат уже проверен валидатором DTO.
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func (r *orderRepository) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(orderFields).From(orderTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindOrder: %w", err)
	}
	return r.scanOrder(r.storage.QueryRow(ctx, query, args...))
}

func (r *orderRepository) CreateOrder(ctx context.Context, d dto.CreateOrderDTO, attURL, attHandle *string) (*entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(orderTable).
		Columns(
			"order_name", "number", "work", "status", "type", "payment_status",
			"add_date", "delivery_date", "total_amount", "received_payment",
			"attachment_url", "attachment_handle", "client_id",
		).
		Values(
			d.OrderName, d.Number, d.Work, d.Status, d.Type, d.PaymentStatus,
			parseDatePtr(d.AddDate), parseDatePtr(d.DeliveryDate), d.TotalAmount, d.ReceivedPayment,
			attURL, attHandle, d.ClientID,
		).
		Suffix("RETURNING " + orderFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для CreateOrder: %w", err)
	}

	order, err := r.scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapOrderWriteError(err)
	}
	return order, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, id int64, patch map[string]interface{}) (*entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Update(orderTable).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + orderFields)
	for column, value := range patch {
		builder = builder.Set(column, value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для UpdateOrder: %w", err)
	}

	order, err := r.scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapOrderWriteError(err)
	}
	return order, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter dto.OrderSearchFilter) ([]entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(orderFields).From(orderTable)

	if filter.Name != "" {
		builder = builder.Where(sq.ILike{"order_name": "%" + filter.Name + "%"})
	}
	if filter.Number != "" {
		builder = builder.Where(sq.Eq{"number": filter.Number})
	}
	// Диапазон дат учитывается только целиком, включительно с обеих сторон.
	if filter.FromDate != nil && filter.ToDate != nil {
		builder = builder.
			Where(sq.GtOrEq{"add_date": *filter.FromDate}).
			Where(sq.LtOrEq{"add_date": *filter.ToDate})
	}

	query, args, err := builder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для SearchOrders: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска заказов: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(rows)
}

func (r *orderRepository) ListByClient(ctx context.Context, tx pgx.Tx, clientID int64) ([]entities.Order, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(orderFields).From(orderTable).
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для ListByClient: %w", err)
	}

	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заказов клиента: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(rows)
}

func (r *orderRepository) DeleteByClientInTx(ctx context.Context, tx pgx.Tx, clientID int64) error {
	if _, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM orders WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("ошибка каскадного удаления заказов клиента: %w", err)
	}
	return nil
}

func (r *orderRepository) collectOrders(rows pgx.Rows) ([]entities.Order, error) {
	orders := make([]entities.Order, 0)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
