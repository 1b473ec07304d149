// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for categories, items
// and registered users over database/sql.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors callers branch on. Names and slugs are unique per
// entity; violations map onto these instead of leaking SQLSTATE codes.
var (
	ErrCategoryExists = errors.New("category name or slug already taken")
	ErrItemExists     = errors.New("item name or slug already taken")
	ErrUserExists     = errors.New("username or email already taken")
)

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
