package database

import (
	"context"
	"database/sql"
)

// Table definitions, applied in dependency order.  CREATE TABLE IF NOT
// EXISTS keeps startup idempotent; there is no down migration.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		username      VARCHAR(100)    NOT NULL,
		is_admin      TINYINT(1)      NOT NULL DEFAULT 0,
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS concerts (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title        VARCHAR(255)    NOT NULL,
		artist       VARCHAR(255)    NOT NULL,
		date         VARCHAR(20)     NOT NULL,
		time         VARCHAR(10)     NOT NULL DEFAULT '',
		venue        VARCHAR(255)    NOT NULL,
		address      VARCHAR(255)    NOT NULL DEFAULT '',
		poster_image VARCHAR(500)    NOT NULL DEFAULT '',
		description  TEXT            NOT NULL,
		category     VARCHAR(100)    NOT NULL DEFAULT '',
		price        TEXT            NOT NULL,
		seat_map     VARCHAR(500)    NOT NULL DEFAULT '',
		status       VARCHAR(20)     NOT NULL DEFAULT 'upcoming',
		created_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_concerts_category (category),
		KEY idx_concerts_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id                   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		concert_id           BIGINT UNSIGNED NOT NULL,
		seller_id            BIGINT UNSIGNED NOT NULL,
		title                VARCHAR(255)    NOT NULL,
		price                BIGINT          NOT NULL,
		original_price       BIGINT          NOT NULL,
		quantity             INT             NOT NULL DEFAULT 1,
		grade                VARCHAR(10)     NOT NULL,
		section              VARCHAR(50)     NULL,
		` + "`row`" + `      VARCHAR(50)     NULL,
		seat_number          VARCHAR(50)     NULL,
		is_consecutive_seats TINYINT(1)      NOT NULL DEFAULT 0,
		description          TEXT            NOT NULL,
		status               VARCHAR(20)     NOT NULL DEFAULT 'available',
		created_at           DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at           DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_tickets_concert (concert_id),
		KEY idx_tickets_seller (seller_id),
		KEY idx_tickets_status (status),
		CONSTRAINT fk_tickets_concert FOREIGN KEY (concert_id) REFERENCES concerts (id),
		CONSTRAINT fk_tickets_seller FOREIGN KEY (seller_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reference   CHAR(36)        NOT NULL,
		user_id     BIGINT UNSIGNED NOT NULL,
		ticket_id   BIGINT UNSIGNED NOT NULL,
		quantity    INT             NOT NULL,
		total_price BIGINT          NOT NULL,
		status      VARCHAR(20)     NOT NULL DEFAULT 'pending',
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_orders_reference (reference),
		KEY idx_orders_user (user_id),
		KEY idx_orders_ticket (ticket_id),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_orders_ticket FOREIGN KEY (ticket_id) REFERENCES tickets (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates all tables that do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
