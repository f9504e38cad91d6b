package db

import (
	"testing"

	"farmmart/internal/config"
)

func TestBuildDSN_FromConfig(t *testing.T) {
	dsn := buildDSN(config.Config{
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "postgres",
		PostgresPassword: "secret",
		PostgresDB:       "farmmart",
		PostgresSSLMode:  "disable",
	})

	want := "host=localhost port=5432 user=postgres password=secret dbname=farmmart sslmode=disable"
	if dsn != want {
		t.Errorf("buildDSN() = %q, want %q", dsn, want)
	}
}

// DATABASE_URLが設定されていればそちらを使う
func TestBuildDSN_DatabaseURLWins(t *testing.T) {
	dsn := buildDSN(config.Config{
		DatabaseURL:  "postgres://app:secret@db:5432/farmmart",
		PostgresHost: "localhost",
	})

	if dsn != "postgres://app:secret@db:5432/farmmart" {
		t.Errorf("buildDSN() = %q, want DATABASE_URL as-is", dsn)
	}
}
