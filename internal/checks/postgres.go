package checks

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"csb/statusboard/internal/config"
)

const PostgresName = "PostgreSQL"

// PostgresChecker opens a fresh connection, pings it and closes it again.
type PostgresChecker struct {
	dsn     string
	timeout time.Duration
}

func NewPostgresChecker(cfg config.PostgresConfig, timeout time.Duration) *PostgresChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PostgresChecker{
		dsn:     cfg.DSN(timeout),
		timeout: timeout,
	}
}

func (c *PostgresChecker) Name() string { return PostgresName }

func (c *PostgresChecker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", c.dsn)
	if err != nil {
		return Failed(err)
	}
	_ = db.Close()
	return OK()
}
