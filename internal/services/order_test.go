package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/entities"
	apperrors "workshop-system/pkg/errors"
	"workshop-system/pkg/filestorage"
)

// --- фейковый репозиторий заказов ---

type fakeOrderRepo struct {
	orders     map[int64]entities.Order
	nextID     int64
	createErr  error
	updateErr  error
	createCnt  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]entities.Order)}
}

func (r *fakeOrderRepo) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := o
	return &copied, nil
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, d dto.CreateOrderDTO, attURL, attHandle *string) (*entities.Order, error) {
	r.createCnt++
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	o := entities.Order{ID: r.nextID, ClientID: d.ClientID}
	if d.OrderName != nil {
		o.OrderName = null.StringFrom(*d.OrderName)
	}
	if d.Status != nil {
		o.Status = null.StringFrom(*d.Status)
	}
	if d.TotalAmount != nil {
		o.TotalAmount = null.Float64From(*d.TotalAmount)
	}
	if d.ReceivedPayment != nil {
		o.ReceivedPayment = null.Float64From(*d.ReceivedPayment)
	}
	if attURL != nil {
		o.AttachmentURL = null.StringFrom(*attURL)
		o.AttachmentHandle = *attHandle
	}
	r.orders[o.ID] = o
	return r.FindOrder(ctx, o.ID)
}

func (r *fakeOrderRepo) UpdateOrder(ctx context.Context, id int64, patch map[string]interface{}) (*entities.Order, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for column, value := range patch {
		switch column {
		case "order_name":
			o.OrderName = toNullString(value)
		case "number":
			o.Number = toNullString(value)
		case "work":
			o.Work = toNullString(value)
		case "status":
			o.Status = toNullString(value)
		case "type":
			o.Type = toNullString(value)
		case "payment_status":
			o.PaymentStatus = toNullString(value)
		case "attachment_url":
			o.AttachmentURL = toNullString(value)
		case "attachment_handle":
			if s, ok := value.(string); ok {
				o.AttachmentHandle = s
			} else {
				o.AttachmentHandle = ""
			}
		case "total_amount":
			if f, ok := value.(*float64); ok && f != nil {
				o.TotalAmount = null.Float64From(*f)
			} else {
				o.TotalAmount = null.Float64{}
			}
		case "received_payment":
			if f, ok := value.(*float64); ok && f != nil {
				o.ReceivedPayment = null.Float64From(*f)
			} else {
				o.ReceivedPayment = null.Float64{}
			}
		case "add_date":
			if t, ok := value.(time.Time); ok {
				o.AddDate = null.StringFrom(t.Format("2006-01-02"))
			} else {
				o.AddDate = null.String{}
			}
		case "delivery_date":
			if t, ok := value.(time.Time); ok {
				o.DeliveryDate = null.StringFrom(t.Format("2006-01-02"))
			} else {
				o.DeliveryDate = null.String{}
			}
		case "client_id":
			if v, ok := value.(int64); ok {
				o.ClientID = v
			}
		}
	}
	r.orders[id] = o
	return r.FindOrder(ctx, id)
}

func toNullString(value interface{}) null.String {
	switch v := value.(type) {
	case string:
		return null.StringFrom(v)
	case *string:
		if v != nil {
			return null.StringFrom(*v)
		}
	}
	return null.String{}
}

func (r *fakeOrderRepo) DeleteOrder(ctx context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) SearchOrders(ctx context.Context, filter dto.OrderSearchFilter) ([]entities.Order, error) {
	res := make([]entities.Order, 0)
	for _, o := range r.orders {
		res = append(res, o)
	}
	return res, nil
}

func (r *fakeOrderRepo) ListByClient(ctx context.Context, tx pgx.Tx, clientID int64) ([]entities.Order, error) {
	res := make([]entities.Order, 0)
	for _, o := range r.orders {
		if o.ClientID == clientID {
			res = append(res, o)
		}
	}
	return res, nil
}

func (r *fakeOrderRepo) DeleteByClientInTx(ctx context.Context, tx pgx.Tx, clientID int64) error {
	for id, o := range r.orders {
		if o.ClientID == clientID {
			delete(r.orders, id)
		}
	}
	return nil
}

// --- фейковое файловое хранилище ---

type fakeStorage struct {
	storeErr   error
	releaseErr error
	seq        int
	stored     []string
	released   []string
}

func (s *fakeStorage) Store(ctx context.Context, data []byte, originalFileName string, hint filestorage.Hint) (filestorage.StoredFile, error) {
	if s.storeErr != nil {
		return filestorage.StoredFile{}, s.storeErr
	}
	s.seq++
	f := filestorage.StoredFile{
		URL:    fmt.Sprintf("https://assets.test/f%d", s.seq),
		Handle: fmt.Sprintf("f%d", s.seq),
	}
	s.stored = append(s.stored, f.Handle)
	return f, nil
}

func (s *fakeStorage) Release(ctx context.Context, handle string) error {
	s.released = append(s.released, handle)
	return s.releaseErr
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newOrderServiceForTest(repo *fakeOrderRepo, storage *fakeStorage) OrderServiceInterface {
	return NewOrderService(repo, storage, zap.NewNop())
}

func strPtr(s string) *string      { return &s }
func f64Ptr(f float64) *float64    { return &f }

func TestOrderService_CreateOrder_WithFile(t *testing.T) {
	repo := newFakeOrderRepo()
	storage := &fakeStorage{}
	svc := newOrderServiceForTest(repo, storage)

	d := dto.CreateOrderDTO{OrderName: strPtr("Banner"), ClientID: 1}
	order, err := svc.CreateOrder(context.Background(), d, makeFileHeader(t, "proof.png", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, order.AttachmentURL.Valid)
	assert.NotEmpty(t, order.AttachmentHandle)
	assert.Equal(t, []string{order.AttachmentHandle}, storage.stored)
}

func TestOrderService_CreateOrder_UploadFailureAborts(t *testing.T) {
	repo := newFakeOrderRepo()
	storage := &fakeStorage{storeErr: fmt.Errorf("квота исчерпана")}
	svc := newOrderServiceForTest(repo, storage)

	d := dto.CreateOrderDTO{OrderName: strPtr("Banner"), ClientID: 1}
	_, err := svc.CreateOrder(context.Background(), d, makeFileHeader(t, "proof.png", []byte("x")))
	require.Error(t, err)

	// Запись не должна появиться, если загрузка файла провалилась.
	assert.Equal(t, 0, repo.createCnt)
	assert.Empty(t, repo.orders)
}

func TestOrderService_CreateOrder_WithoutFile(t *testing.T) {
	repo := newFakeOrderRepo()
	storage := &fakeStorage{}
	svc := newOrderServiceForTest(repo, storage)

	d := dto.CreateOrderDTO{OrderName: strPtr("Banner"), ClientID: 7, TotalAmount: f64Ptr(200), ReceivedPayment: f64Ptr(50)}
	order, err := svc.CreateOrder(context.Background(), d, nil)
	require.NoError(t, err)

	assert.False(t, order.AttachmentURL.Valid)
	assert.False(t, order.HasAttachment())
	assert.Empty(t, storage.stored)
}

func TestOrderService_UpdateOrder_StoreThenRelease(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{
		ID: 1, ClientID: 1,
		AttachmentURL:    null.StringFrom("https://assets.test/old"),
		AttachmentHandle: "old-handle",
	}
	// Удаление старого файла ломается, но обновление обязано пройти.
	storage := &fakeStorage{releaseErr: fmt.Errorf("хостинг недоступен")}
	svc := newOrderServiceForTest(repo, storage)

	order, err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{}, []byte(`{}`),
		makeFileHeader(t, "new.png", []byte("new")))
	require.NoError(t, err)

	assert.NotEqual(t, "old-handle", order.AttachmentHandle)
	assert.Equal(t, []string{order.AttachmentHandle}, storage.stored)
	// Попытка удаления старого файла была, и ее неудача никого не уронила.
	assert.Equal(t, []string{"old-handle"}, storage.released)
}

func TestOrderService_UpdateOrder_NoPriorAttachment(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{ID: 1, ClientID: 1}
	storage := &fakeStorage{}
	svc := newOrderServiceForTest(repo, storage)

	order, err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{}, []byte(`{}`),
		makeFileHeader(t, "first.png", []byte("first")))
	require.NoError(t, err)

	assert.True(t, order.HasAttachment())
	// Прежнего файла не было — удалять нечего.
	assert.Empty(t, storage.released)
}

func TestOrderService_UpdateOrder_UploadFailureKeepsOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{
		ID: 1, ClientID: 1,
		OrderName:        null.StringFrom("Banner"),
		AttachmentURL:    null.StringFrom("https://assets.test/old"),
		AttachmentHandle: "old-handle",
	}
	storage := &fakeStorage{storeErr: fmt.Errorf("сбой сети")}
	svc := newOrderServiceForTest(repo, storage)

	_, err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{Status: strPtr("done")}, []byte(`{"status":"done"}`),
		makeFileHeader(t, "new.png", []byte("new")))
	require.Error(t, err)

	// Заказ не изменился, старый файл на месте.
	current := repo.orders[1]
	assert.Equal(t, "old-handle", current.AttachmentHandle)
	assert.False(t, current.Status.Valid)
	assert.Empty(t, storage.released)
}

func TestOrderService_UpdateOrder_PreservesUnspecifiedFields(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{
		ID: 1, ClientID: 1,
		OrderName:       null.StringFrom("Banner"),
		Work:            null.StringFrom("печать"),
		AddDate:         null.StringFrom("2024-01-05"),
		TotalAmount:     null.Float64From(200),
		ReceivedPayment: null.Float64From(50),
	}
	svc := newOrderServiceForTest(repo, &fakeStorage{})

	order, err := svc.UpdateOrder(context.Background(), 1,
		dto.UpdateOrderDTO{Status: strPtr("done")}, []byte(`{"status":"done"}`), nil)
	require.NoError(t, err)

	assert.Equal(t, "done", order.Status.String)
	assert.Equal(t, "Banner", order.OrderName.String)
	assert.Equal(t, "печать", order.Work.String)
	assert.Equal(t, "2024-01-05", order.AddDate.String)
	assert.Equal(t, float64(200), order.TotalAmount.Float64)
	assert.Equal(t, float64(50), order.ReceivedPayment.Float64)
}

func TestOrderService_UpdateOrder_NullClientIDRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{ID: 1, ClientID: 1}
	svc := newOrderServiceForTest(repo, &fakeStorage{})

	_, err := svc.UpdateOrder(context.Background(), 1, dto.UpdateOrderDTO{}, []byte(`{"clientId":null}`), nil)
	require.Error(t, err)
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestOrderService_DeleteOrder_ReleaseFailureDoesNotBlock(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.nextID = 1
	repo.orders[1] = entities.Order{ID: 1, ClientID: 1, AttachmentURL: null.StringFrom("u"), AttachmentHandle: "h1"}
	storage := &fakeStorage{releaseErr: fmt.Errorf("файл уже удален")}
	svc := newOrderServiceForTest(repo, storage)

	err := svc.DeleteOrder(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, repo.orders)
	assert.Equal(t, []string{"h1"}, storage.released)
}

func TestOrderService_DeleteOrder_NotFound(t *testing.T) {
	svc := newOrderServiceForTest(newFakeOrderRepo(), &fakeStorage{})
	err := svc.DeleteOrder(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
