package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a demo
// category and a few registered readers so publish notifications have
// recipients to address locally. The fallback category itself is created
// by the migrations, not here.
func Seed(db *sql.DB) error {
	// Check if any readers exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	readers := []struct {
		username string
		email    string
	}{
		{"maia", "maia@example.com"},
		{"tudor", "tudor@example.com"},
		{"irina", "irina@example.com"},
	}
	for _, r := range readers {
		if _, err := db.Exec(
			"INSERT INTO users (username, email) VALUES ($1, $2)",
			r.username, r.email,
		); err != nil {
			return fmt.Errorf("seed insert user %s: %w", r.username, err)
		}
	}

	_, err := db.Exec(`
		INSERT INTO categories (name, summary, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`, "Soups", "Warm bowls for cold days.", "soups")
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with sample data", "readers", len(readers))
	return nil
}
