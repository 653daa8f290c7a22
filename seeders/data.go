package seeders

import "workshop-system/pkg/constants"

type demoClient struct {
	Name         string
	MobileNumber string
	Address      string
	City         string
}

type demoOrder struct {
	OrderName       string
	Number          string
	Work            string
	Status          string
	Type            string
	PaymentStatus   string
	AddDate         string
	TotalAmount     float64
	ReceivedPayment float64
	// Индекс клиента в demoClients.
	ClientIdx int
}

var demoClients = []demoClient{
	{Name: "ООО Ромашка", MobileNumber: "+992900000001", Address: "ул. Рудаки 12", City: "Душанбе"},
	{Name: "Фируз Каримов", MobileNumber: "+992900000002", City: "Худжанд"},
	{Name: "ИП Назарова", MobileNumber: "+992900000003", Address: "пр. Исмоили Сомони 5", City: "Душанбе"},
}

var demoOrders = []demoOrder{
	{
		OrderName: "Баннер 3x6", Number: "101", Work: "печать и люверсы",
		Status: constants.StatusInProgress, Type: "баннер", PaymentStatus: "аванс",
		AddDate: "2024-01-05", TotalAmount: 450, ReceivedPayment: 200, ClientIdx: 0,
	},
	{
		OrderName: "Визитки 500 шт", Number: "102", Work: "дизайн и печать",
		Status: constants.StatusReady, Type: "визитки", PaymentStatus: "оплачен",
		AddDate: "2024-01-07", TotalAmount: 120, ReceivedPayment: 120, ClientIdx: 0,
	},
	{
		OrderName: "Вывеска", Number: "103", Work: "монтаж",
		Status: constants.StatusAccepted, Type: "вывеска", PaymentStatus: "не оплачен",
		AddDate: "2024-01-10", TotalAmount: 900, ClientIdx: 1,
	},
	{
		OrderName: "Наклейки на витрину", Number: "104", Work: "резка",
		Status: constants.StatusDelivered, Type: "наклейки", PaymentStatus: "оплачен",
		AddDate: "2024-01-12", TotalAmount: 75, ReceivedPayment: 75, ClientIdx: 2,
	},
}
