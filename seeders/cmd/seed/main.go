package main

import (
	"context"
	"flag"
	"log"
	"time"

	"workshop-system/pkg/config"
	"workshop-system/pkg/database/postgresql"
	"workshop-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDemo := flag.Bool("demo", false, "Запустить наполнение демонстрационными клиентами и заказами")
	flag.Parse()

	if !*runDemo {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Пример использования:")
		log.Println("  go run ./seeders/cmd/seed -demo")
		log.Println("======================================================")
		return
	}

	cfg := config.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbPool, err := postgresql.Connect(ctx, cfg.Postgres.DSN)
	cancel()
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(dbPool); err != nil {
		log.Fatalf("❌ Не удалось применить миграции: %v", err)
	}

	seeders.SeedDemoData(dbPool)

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
