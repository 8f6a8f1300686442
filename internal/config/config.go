// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"

	"taxiledger/internal/constants"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	Port        string
	AppEnv      string

	// Пароль администратора: предпочтительно bcrypt-хеш, но допускается
	// и открытый пароль (учет локальный, защита пароля вне рамок системы).
	AdminPasswordHash string
	AdminPassword     string

	CashPayoutRate float64
	CardPayoutRate float64

	DefaultFuelConsumption float64
	DefaultFuelPrice       float64
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              os.Getenv("PORT"),
		AppEnv:            os.Getenv("ENV"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.CashPayoutRate = loadRate("CASH_PAYOUT_RATE", constants.DEFAULT_CASH_PAYOUT_RATE)
	cfg.CardPayoutRate = loadRate("CARD_PAYOUT_RATE", constants.DEFAULT_CARD_PAYOUT_RATE)

	cfg.DefaultFuelConsumption = loadPositiveFloat("DEFAULT_FUEL_CONSUMPTION", constants.DEFAULT_FUEL_CONSUMPTION)
	cfg.DefaultFuelPrice = loadPositiveFloat("DEFAULT_FUEL_PRICE", constants.DEFAULT_FUEL_PRICE)

	if cfg.DatabaseURL == "" {
		log.Println("Критическая ошибка: DATABASE_URL не установлен.")
	}
	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" {
		log.Println("Предупреждение: ADMIN_PASSWORD_HASH и ADMIN_PASSWORD не установлены. Административные операции будут недоступны.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// loadRate читает долю (0;1) из окружения; некорректные значения
// заменяются значением по умолчанию с предупреждением в логе.
func loadRate(name string, def float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 || val >= 1 {
		log.Printf("Предупреждение: некорректное значение для %s ('%s'): %v. Используется значение по умолчанию %.2f.", name, raw, err, def)
		return def
	}
	return val
}

func loadPositiveFloat(name string, def float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		log.Printf("Предупреждение: некорректное значение для %s ('%s'): %v. Используется значение по умолчанию %.1f.", name, raw, err, def)
		return def
	}
	return val
}
