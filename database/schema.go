package database

import (
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
)

// schema is applied in order. Every statement is idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(100) NOT NULL UNIQUE,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    VARCHAR(100),
		last_name     VARCHAR(100),
		address       VARCHAR(100),
		phone_number  VARCHAR(20) UNIQUE,
		role          VARCHAR(25) DEFAULT 'USER',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	// product_id has no foreign key, products references product_images through primary_image_id
	`CREATE TABLE IF NOT EXISTS product_images (
		id         SERIAL PRIMARY KEY,
		product_id INT,
		image_url  TEXT NOT NULL,
		position   INT CHECK (position IS NULL OR position >= 1),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS product_images_product_id_idx ON product_images (product_id)`,
	`CREATE TABLE IF NOT EXISTS product_sizes (
		id          SERIAL PRIMARY KEY,
		product_id  INT NOT NULL,
		single_size INT NOT NULL DEFAULT 0,
		s           INT NOT NULL DEFAULT 0,
		m           INT NOT NULL DEFAULT 0,
		l           INT NOT NULL DEFAULT 0,
		xl          INT NOT NULL DEFAULT 0,
		xxl         INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id               SERIAL PRIMARY KEY,
		name             VARCHAR(255) NOT NULL,
		description      TEXT,
		price            BIGINT NOT NULL CHECK (price >= 0),
		primary_image_id INT REFERENCES product_images (id) ON DELETE SET NULL,
		category_id      INT REFERENCES categories (id) ON DELETE SET NULL,
		size_id          INT REFERENCES product_sizes (id) ON DELETE SET NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             SERIAL PRIMARY KEY,
		user_id        INT REFERENCES users (id) ON DELETE CASCADE,
		total_price    BIGINT NOT NULL CHECK (total_price >= 0),
		status         VARCHAR(25) NOT NULL DEFAULT 'pending',
		online_payment BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id          SERIAL PRIMARY KEY,
		order_id    INT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id  INT REFERENCES products (id) ON DELETE SET NULL,
		quantity    INT NOT NULL CHECK (quantity > 0),
		price       BIGINT NOT NULL CHECK (price >= 0),
		size        VARCHAR(25),
		total_price BIGINT NOT NULL,
		CONSTRAINT order_items_total_price_check CHECK (total_price = quantity * price)
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS shipping_addresses (
		id           SERIAL PRIMARY KEY,
		order_id     INT NOT NULL UNIQUE REFERENCES orders (id) ON DELETE CASCADE,
		address      VARCHAR(255) NOT NULL,
		city         VARCHAR(100),
		branch       VARCHAR(100),
		first_name   VARCHAR(100) NOT NULL,
		last_name    VARCHAR(100) NOT NULL,
		phone_number TEXT NOT NULL,
		email        TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the tables that do not exist yet
func Migrate(ctx context.Context, db *DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}

	db.logger.Info("Database schema is up to date", gecho.Field("statements", len(schema)))
	return nil
}
