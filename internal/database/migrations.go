package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL executed at startup.  Every statement is
// idempotent (IF NOT EXISTS) so restarting the server against an
// existing database is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(190) NOT NULL,
		phone VARCHAR(40) NULL,
		hashed_password VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'CUSTOMER',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cuisines (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(80) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_cuisines_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurants (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(120) NOT NULL,
		description TEXT NULL,
		logo VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurant_cuisines (
		restaurant_id BIGINT UNSIGNED NOT NULL,
		cuisine_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (restaurant_id, cuisine_id),
		CONSTRAINT fk_rc_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE,
		CONSTRAINT fk_rc_cuisine FOREIGN KEY (cuisine_id) REFERENCES cuisines (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS branches (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		city VARCHAR(80) NOT NULL,
		country VARCHAR(80) NOT NULL,
		address VARCHAR(255) NOT NULL,
		location VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_branches_restaurant (restaurant_id),
		KEY idx_branches_city (city),
		CONSTRAINT fk_branches_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tables (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		branch_id BIGINT UNSIGNED NOT NULL,
		table_number INT UNSIGNED NOT NULL,
		max_capacity INT UNSIGNED NOT NULL,
		is_side_table TINYINT(1) NOT NULL DEFAULT 0,
		is_open_space TINYINT(1) NOT NULL DEFAULT 0,
		floor INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_tables_branch_number (branch_id, table_number),
		CONSTRAINT fk_tables_branch FOREIGN KEY (branch_id) REFERENCES branches (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		table_id BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		special_requests TEXT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_table_window (table_id, start_time, end_time),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES tables (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statement by statement.  The failing
// statement index is wrapped into the error so a broken DDL change
// is easy to locate.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
