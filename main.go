package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"taxiledger/internal/api"
	"taxiledger/internal/config"
	"taxiledger/internal/db"
	"taxiledger/internal/service"
	"taxiledger/internal/settlement"
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	rates := settlement.Rates{
		CashPayoutRate: cfg.CashPayoutRate,
		CardPayoutRate: cfg.CardPayoutRate,
	}
	if err := rates.Validate(); err != nil {
		log.Fatalf("Критическая ошибка: некорректные ставки расчета: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось подключиться к базе данных: %v", err)
	}
	store := db.NewStore(conn)
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать схему базы данных: %v", err)
	}

	// --- Сервисы ---
	apiDeps := &api.ApiDependencies{
		Shifts:   service.NewShiftManager(store, rates, cfg.DefaultFuelConsumption, cfg.DefaultFuelPrice),
		Importer: service.NewImporter(store, rates),
		Reports:  service.NewReporter(store),
		Admin:    service.NewAdmin(store, rates),
	}

	// --- Настройка роутера и Middleware ---
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Password"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.SetupRoutes(r, cfg, apiDeps)

	// Обработка запроса иконки, чтобы избежать ошибки 404 в логах
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log.Printf("Запуск HTTP-сервера на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
	}
}
