package dto

import "time"

type CreateOrderDTO struct {
	OrderName       *string  `json:"orderName,omitempty"`
	Number          *string  `json:"number,omitempty"`
	Work            *string  `json:"work,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Type            *string  `json:"type,omitempty"`
	PaymentStatus   *string  `json:"paymentStatus,omitempty"`
	AddDate         *string  `json:"addDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate    *string  `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
	ReceivedPayment *float64 `json:"receivedPayment,omitempty"`
	ClientID        int64    `json:"clientId" validate:"required,gt=0"`
}

type UpdateOrderDTO struct {
	OrderName       *string  `json:"orderName,omitempty"`
	Number          *string  `json:"number,omitempty"`
	Work            *string  `json:"work,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Type            *string  `json:"type,omitempty"`
	PaymentStatus   *string  `json:"paymentStatus,omitempty"`
	AddDate         *string  `json:"addDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate    *string  `json:"deliveryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
	ReceivedPayment *float64 `json:"receivedPayment,omitempty"`
	ClientID        *int64   `json:"clientId,omitempty" validate:"omitempty,gt=0"`
}

// OrderSearchFilter — фильтры поиска, объединяются по AND.
// Диапазон дат применяется только когда заданы обе границы.
type OrderSearchFilter struct {
	Name     string
	Number   string
	FromDate *time.Time
	ToDate   *time.Time
}
