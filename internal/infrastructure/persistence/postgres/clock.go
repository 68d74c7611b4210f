package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dialect renders the time arithmetic of the rate limit queries for one
// database engine. Every expression reads the database clock, never the
// process clock.
type Dialect interface {
	Name() string
	// Now is the current timestamp expression.
	Now() clause.Expr
	// MinutesAgo is NOW() minus n minutes.
	MinutesAgo(n int) clause.Expr
	// MinutesAhead is NOW() plus n minutes.
	MinutesAhead(n int) clause.Expr
	// DaysAgo is NOW() minus n days.
	DaysAgo(n int) clause.Expr
	// SecondsUntil is the whole number of seconds from NOW() to column.
	SecondsUntil(column string) string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}

// DialectFor returns the dialect of a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return postgresDialect{}, nil
	case DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Now() clause.Expr {
	return gorm.Expr("NOW()")
}

func (postgresDialect) MinutesAgo(n int) clause.Expr {
	return gorm.Expr("NOW() - make_interval(mins => ?)", n)
}

func (postgresDialect) MinutesAhead(n int) clause.Expr {
	return gorm.Expr("NOW() + make_interval(mins => ?)", n)
}

func (postgresDialect) DaysAgo(n int) clause.Expr {
	return gorm.Expr("NOW() - make_interval(days => ?)", n)
}

func (postgresDialect) SecondsUntil(column string) string {
	return fmt.Sprintf("CAST(EXTRACT(EPOCH FROM (%s - NOW())) AS BIGINT)", column)
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// sqliteDialect stores timestamps as 'YYYY-MM-DD HH:MM:SS' UTC text, so
// comparisons stay lexical and consistent only while every timestamp is
// produced by datetime().
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) Now() clause.Expr {
	return gorm.Expr("datetime('now')")
}

func (sqliteDialect) MinutesAgo(n int) clause.Expr {
	return gorm.Expr("datetime('now', ?)", fmt.Sprintf("-%d minutes", n))
}

func (sqliteDialect) MinutesAhead(n int) clause.Expr {
	return gorm.Expr("datetime('now', ?)", fmt.Sprintf("+%d minutes", n))
}

func (sqliteDialect) DaysAgo(n int) clause.Expr {
	return gorm.Expr("datetime('now', ?)", fmt.Sprintf("-%d days", n))
}

func (sqliteDialect) SecondsUntil(column string) string {
	return fmt.Sprintf("CAST(ROUND((julianday(%s) - julianday('now')) * 86400) AS INTEGER)", column)
}

func (sqliteDialect) IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
