package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const unknownErrorMessage = "Unknown error"

// ErrorMessage extracts a human readable message from anything that was thrown:
// error values, plain strings, or maps carrying message/error/details.
// Falls back to the JSON encoding of the value.
func ErrorMessage(v any) string {
	switch t := v.(type) {
	case nil:
		return unknownErrorMessage
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
		return unknownErrorMessage
	case error:
		var pgErr *pgconn.PgError
		if errors.As(t, &pgErr) && pgErr.Message != "" {
			return pgErr.Message
		}
		var pqErr *pq.Error
		if errors.As(t, &pqErr) && pqErr.Message != "" {
			return pqErr.Message
		}
		if s := strings.TrimSpace(t.Error()); s != "" {
			return s
		}
		return unknownErrorMessage
	case map[string]any:
		for _, key := range []string{"message", "error", "details"} {
			if inner, ok := t[key]; ok && inner != nil {
				if msg := ErrorMessage(inner); msg != unknownErrorMessage {
					return msg
				}
			}
		}
	case fmt.Stringer:
		if s := strings.TrimSpace(t.String()); s != "" {
			return s
		}
	}

	b, err := sonic.Marshal(v)
	if err != nil || len(b) == 0 || string(b) == "null" || string(b) == "{}" {
		return unknownErrorMessage
	}
	return string(b)
}

// PG error classes the dashboard treats as "legacy source missing" instead of a failure.
const (
	pgUndefinedTable    = "42P01"
	pgUndefinedColumn   = "42703"
	pgUndefinedFunction = "42883"
)

// IsMissingRelation reports whether err comes from a table, column or
// function that does not exist in this database (pre-migration tenants).
func IsMissingRelation(err error) bool {
	code := PGErrorCode(err)
	return code == pgUndefinedTable || code == pgUndefinedColumn || code == pgUndefinedFunction
}

// PGErrorCode returns the SQLSTATE for pgx or lib/pq errors, "" otherwise.
func PGErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
