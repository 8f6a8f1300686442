// Файл: internal/db/db.go
package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"taxiledger/internal/constants"
)

// Store инкапсулирует соединение с базой; все операции хранилища —
// его методы. Строка накопленного безнала создается при инициализации
// и существует всегда ровно одна.
type Store struct {
	db *sql.DB
}

// NewStore оборачивает готовое соединение.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Connect открывает соединение с базой данных и проверяет его.
func Connect(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %v", err)
	}

	log.Println("Успешное подключение к базе данных.")
	return db, nil
}

const createTablesSQL = `
    CREATE TABLE IF NOT EXISTS shifts (
        id SERIAL PRIMARY KEY,
        date TEXT NOT NULL,
        km FLOAT DEFAULT 0,
        fuel_liters FLOAT DEFAULT 0,
        fuel_price FLOAT DEFAULT 0,
        is_open BOOLEAN DEFAULT TRUE,
        opened_at TIMESTAMP,
        closed_at TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS orders (
        id SERIAL PRIMARY KEY,
        shift_id INTEGER REFERENCES shifts(id),
        type TEXT NOT NULL,
        amount FLOAT NOT NULL,
        tips FLOAT DEFAULT 0,
        commission FLOAT NOT NULL,
        total FLOAT NOT NULL,
        beznal_added FLOAT DEFAULT 0,
        order_time TEXT
    );
    CREATE TABLE IF NOT EXISTS accumulated_beznal (
        driver_id INTEGER PRIMARY KEY,
        total_amount FLOAT NOT NULL DEFAULT 0,
        last_updated TIMESTAMP
    );
`

// idx_shifts_one_open — страховка инварианта "не более одной открытой
// смены" на уровне схемы; прикладной код проверяет его и сам, чтобы
// отдавать осмысленную ошибку.
const createIndexesSQL = `
    CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open ON shifts (is_open) WHERE is_open;
    CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts (date);
    CREATE INDEX IF NOT EXISTS idx_orders_shift_id ON orders (shift_id);
`

// InitSchema создает таблицы (если их нет), индексы и строку накопленного
// безнала для единственного водителя.
func (s *Store) InitSchema() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %v", err)
	}
	var opErr error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if opErr != nil {
			log.Printf("InitSchema: откат транзакции из-за ошибки: %v", opErr)
			tx.Rollback()
		}
	}()

	if _, opErr = tx.Exec(createTablesSQL); opErr != nil {
		return fmt.Errorf("ошибка создания таблиц: %v", opErr)
	}

	seedSQL := `INSERT INTO accumulated_beznal (driver_id, total_amount, last_updated)
                VALUES ($1, 0, NOW())
                ON CONFLICT (driver_id) DO NOTHING`
	if _, opErr = tx.Exec(seedSQL, constants.DriverID); opErr != nil {
		return fmt.Errorf("ошибка инициализации строки накопленного безнала: %v", opErr)
	}

	if opErr = tx.Commit(); opErr != nil {
		return fmt.Errorf("ошибка фиксации транзакции создания таблиц: %v", opErr)
	}

	if _, err := s.db.Exec(createIndexesSQL); err != nil {
		log.Printf("Предупреждение: ошибка при создании индексов: %v", err)
	}

	log.Println("Инициализация схемы базы данных завершена.")
	return nil
}

// Reset удаляет все смены, заказы и накопленный безнал и создает таблицы
// заново. Выполняется в одной транзакции: DROP берет эксклюзивные
// блокировки, так что конкурирующие записи не проскочат.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции обнуления базы: %v", err)
	}
	var opErr error
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if opErr != nil {
			log.Printf("Reset: откат транзакции из-за ошибки: %v", opErr)
			tx.Rollback()
		}
	}()

	if _, opErr = tx.Exec(`DROP TABLE IF EXISTS orders; DROP TABLE IF EXISTS shifts; DROP TABLE IF EXISTS accumulated_beznal;`); opErr != nil {
		return fmt.Errorf("ошибка удаления таблиц: %v", opErr)
	}
	if _, opErr = tx.Exec(createTablesSQL); opErr != nil {
		return fmt.Errorf("ошибка пересоздания таблиц: %v", opErr)
	}
	seedSQL := `INSERT INTO accumulated_beznal (driver_id, total_amount, last_updated)
                VALUES ($1, 0, NOW())`
	if _, opErr = tx.Exec(seedSQL, constants.DriverID); opErr != nil {
		return fmt.Errorf("ошибка инициализации строки накопленного безнала: %v", opErr)
	}
	if opErr = tx.Commit(); opErr != nil {
		return fmt.Errorf("ошибка фиксации транзакции обнуления базы: %v", opErr)
	}

	if _, err := s.db.Exec(createIndexesSQL); err != nil {
		log.Printf("Предупреждение: ошибка при пересоздании индексов: %v", err)
	}

	log.Println("База данных обнулена и пересоздана.")
	return nil
}

// Close закрывает соединение с базой данных.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
		log.Println("Соединение с базой данных закрыто.")
	}
}
