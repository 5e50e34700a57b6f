package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	"todolist/config"
	"todolist/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Transactor runs a unit of work inside a single write transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func New(config *config.Config) *Connection {
	write := CreatePostgresWriteConn(*config)
	if write == nil {
		log.Fatal().Msg("Could not establish write connection to database")
	}

	read := CreatePostgresReadConn(*config)
	if read == nil {
		log.Warn().Msg("Could not establish read connection to database, falling back to write connection")

		read = write
	}

	return &Connection{
		Read:  read,
		Write: write,
	}
}

// WithTransaction begins a transaction on the write connection, commits when fn
// returns nil and rolls back otherwise. A panic inside fn is rolled back and re-raised.
func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ping checks that the write connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	if c == nil || c.Write == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return c.Write.PingContext(ctx)
}

// Close closes both pools. Read may share the write pool.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}

	if c.Read != nil && c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			return fmt.Errorf("close read connection: %w", err)
		}
	}

	if c.Write != nil {
		if err := c.Write.Close(); err != nil {
			return fmt.Errorf("close write connection: %w", err)
		}
	}

	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}

// getDBName returns the database name with prefix if configured
func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"write",
		config.DB.Postgres.Write.Username,
		config.DB.Postgres.Write.Password,
		config.DB.Postgres.Write.Host,
		config.DB.Postgres.Write.Port,
		getDBName(config, config.DB.Postgres.Write.Name),
		config.DB.Postgres.Write.SSLMode,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	if config.DB.Postgres.Read.Host == "" {
		return nil
	}

	return CreatePostgresConnection(
		"read",
		config.DB.Postgres.Read.Username,
		config.DB.Postgres.Read.Password,
		config.DB.Postgres.Read.Host,
		config.DB.Postgres.Read.Port,
		getDBName(config, config.DB.Postgres.Read.Name),
		config.DB.Postgres.Read.SSLMode,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// DSN builds the connection URL used by both sqlx and the migrator.
func DSN(username, password, host, port, dbName, sslMode string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		username,
		password,
		net.JoinHostPort(host, port),
		dbName,
		sslMode,
	)
}

// CreatePostgresConnection creates a database connection.
func CreatePostgresConnection(name, username, password, host, port, dbName, sslMode string, maxRetry, waitTime int) *sqlx.DB {
	descriptor := DSN(username, password, host, port, dbName, sslMode)

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", host).
				Str("port", port).
				Str("dbName", dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", host).
			Str("port", port).
			Str("dbName", dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
