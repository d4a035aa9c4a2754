package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskManager/internal/config"
	"taskManager/internal/logger"
	repo "taskManager/internal/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultSlowQuery = 100 * time.Millisecond

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	pool      *pgxpool.Pool
	slowQuery time.Duration
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse database url", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = cfg.MinConnections
	}
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	slow := cfg.SlowQuery
	if slow <= 0 {
		slow = defaultSlowQuery
	}

	logger.Info("Repository: connected to PostgreSQL",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns))
	return &Storage{pool: pool, slowQuery: slow}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: all PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	logger.Debug("Repository: connection is healthy")
	return nil
}

// observe logs operations slower than the configured threshold.
func (s *Storage) observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > s.slowQuery {
		logger.Warn("Repository: slow operation",
			zap.String("op", op),
			zap.Duration("elapsed", elapsed))
	}
}

func (s *Storage) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}

// mapError turns driver errors into repository sentinels so services never
// see pgx types.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, repo.ErrConflict)
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, repo.ErrReference)
		case pgErr.Code == pgerrcode.NotNullViolation, pgErr.Code == pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, repo.ErrConstraint)
		case pgerrcode.IsDataException(pgErr.Code):
			// Values too long or out of range for their column.
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, repo.ErrConstraint)
		}
	}

	logger.Error("Repository: query failed", err, zap.String("op", op))
	return fmt.Errorf("%s: %w", op, err)
}

// expectRows reports ErrNotFound when a write touched nothing.
func expectRows(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// conditions builds a positional WHERE clause. Formats use %[1]d for the
// placeholder number so one argument can appear more than once.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(format string, value any) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends LIMIT and OFFSET placeholders and returns the SQL tail.
func (c *conditions) page(p repo.Page) (string, []any) {
	args := append(append([]any{}, c.args...), p.Limit, p.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}
