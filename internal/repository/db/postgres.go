package db

import (
	"log"

	"berbook/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	log.Println("Connecting db on:", cfg.Conn)
	db, err := sqlx.Open("postgres", cfg.Conn)

	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}
