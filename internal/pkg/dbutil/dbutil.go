// Package dbutil bridges gendry's MySQL-dialect output to the postgres
// driver the repos actually run against.
package dbutil

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

var mysqlLimit = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Finalize turns a gendry-built statement into one postgres accepts: the
// two-value LIMIT form becomes LIMIT/OFFSET with its arguments swapped, and
// ? placeholders are rebound to $N.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	if loc := mysqlLimit.FindStringIndex(query); loc != nil {
		offsetPos := strings.Count(query[:loc[0]], "?")
		if offsetPos+1 < len(args) {
			args[offsetPos], args[offsetPos+1] = args[offsetPos+1], args[offsetPos]
			query = query[:loc[0]] + "LIMIT ? OFFSET ?" + query[loc[1]:]
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// IsConflict reports whether err is a postgres unique violation, which the
// repos map to the conflict sentinel.
func IsConflict(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && string(pgErr.Code) == uniqueViolation
}
