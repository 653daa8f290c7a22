package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-system/internal/dto"
	"workshop-system/internal/repositories"
)

// SeedDemoData наполняет БД демонстрационными клиентами и заказами.
func SeedDemoData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демо-данными...")

	clientRepo := repositories.NewClientRepository(db, zap.NewNop())
	orderRepo := repositories.NewOrderRepository(db, zap.NewNop())

	clientIDs := make([]int64, 0, len(demoClients))
	for _, c := range demoClients {
		d := dto.CreateClientDTO{Name: c.Name, MobileNumber: c.MobileNumber}
		if c.Address != "" {
			d.Address = strPtr(c.Address)
		}
		if c.City != "" {
			d.City = strPtr(c.City)
		}
		created, err := clientRepo.CreateClient(ctx, d)
		if err != nil {
			log.Fatalf("❌ Ошибка создания клиента %q: %v", c.Name, err)
		}
		clientIDs = append(clientIDs, created.ID)
	}

	for _, o := range demoOrders {
		d := dto.CreateOrderDTO{
			OrderName:     strPtr(o.OrderName),
			Number:        strPtr(o.Number),
			Work:          strPtr(o.Work),
			Status:        strPtr(o.Status),
			Type:          strPtr(o.Type),
			PaymentStatus: strPtr(o.PaymentStatus),
			AddDate:       strPtr(o.AddDate),
			TotalAmount:   &o.TotalAmount,
			ClientID:      clientIDs[o.ClientIdx],
		}
		if o.ReceivedPayment > 0 {
			d.ReceivedPayment = &o.ReceivedPayment
		}
		if _, err := orderRepo.CreateOrder(ctx, d, nil, nil); err != nil {
			log.Fatalf("❌ Ошибка создания заказа %q: %v", o.OrderName, err)
		}
	}

	log.Printf("✅ Наполнение завершено: %d клиентов, %d заказов", len(demoClients), len(demoOrders))
}

func strPtr(s string) *string { return &s }
