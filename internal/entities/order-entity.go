package entities

import (
	"github.com/aarondl/null/v8"

	"workshop-system/pkg/types"
)

// Order — заказ мастерской. Даты add_date/delivery_date сериализуются
// строками формата 2006-01-02. AttachmentHandle наружу не отдается:
// это служебный ключ удаления файла на хостинге.
type Order struct {
	ID              int64        `json:"id"`
	OrderName       null.String  `json:"orderName"`
	Number          null.String  `json:"number"`
	Work            null.String  `json:"work"`
	Status          null.String  `json:"status"`
	Type            null.String  `json:"type"`
	PaymentStatus   null.String  `json:"paymentStatus"`
	AddDate         null.String  `json:"addDate"`
	DeliveryDate    null.String  `json:"deliveryDate"`
	TotalAmount     null.Float64 `json:"totalAmount"`
	ReceivedPayment null.Float64 `json:"receivedPayment"`
	AttachmentURL   null.String  `json:"attachmentUrl"`
	AttachmentHandle string      `json:"-"`
	ClientID        int64        `json:"clientId"`

	types.BaseEntity
}

// HasAttachment: url и handle по инварианту либо оба заданы, либо оба пусты.
func (o *Order) HasAttachment() bool {
	return o.AttachmentHandle != ""
}
