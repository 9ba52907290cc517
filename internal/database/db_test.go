package database

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/cardapp/internal/config"
	"github.com/at-ishikawa/cardapp/schemas"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "localhost",
				Port:            3306,
				Database:        "testdb",
				Username:        "testuser",
				Password:        "testpass",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

func TestFormatDSN(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.DatabaseConfig
		wantParams   map[string]string
		wantDSNParts []string
		wantTLS      bool
	}{
		{
			name: "plain connection",
			cfg: config.DatabaseConfig{
				Host:     "db.example.com",
				Port:     3307,
				Database: "cardapp",
				Username: "admin",
				Password: "secret",
			},
		},
		{
			name: "TLS and custom params",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
				TLS:      true,
				Params:   map[string]string{"charset": "utf8mb4", "foo": "bar"},
			},
			wantParams:   map[string]string{"foo": "bar"},
			wantDSNParts: []string{"charset=utf8mb4"},
			wantTLS:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := FormatDSN(tt.cfg)
			got, err := mysql.ParseDSN(dsn)
			require.NoError(t, err)

			assert.Equal(t, tt.cfg.Username, got.User)
			assert.Equal(t, tt.cfg.Password, got.Passwd)
			assert.Equal(t, "tcp", got.Net)
			assert.Equal(t, fmt.Sprintf("%s:%d", tt.cfg.Host, tt.cfg.Port), got.Addr)
			assert.Equal(t, tt.cfg.Database, got.DBName)
			assert.True(t, got.ParseTime)
			assert.True(t, got.MultiStatements)
			if tt.wantTLS {
				assert.Equal(t, "true", got.TLSConfig)
			}
			for key, value := range tt.wantParams {
				assert.Equal(t, value, got.Params[key])
			}
			for _, part := range tt.wantDSNParts {
				assert.Contains(t, dsn, part)
			}
		})
	}
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  "something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: true,
			errMsg:  "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: true,
			errMsg:  "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate(t *testing.T) {
	t.Run("runs files in name order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		migrations := fstest.MapFS{
			"migrations/002_second.sql": {Data: []byte("CREATE TABLE second (id INT);")},
			"migrations/001_first.sql":  {Data: []byte("CREATE TABLE first (id INT);\n")},
			"migrations/003_empty.sql":  {Data: []byte("\n")},
			"migrations/README.md":      {Data: []byte("ignored")},
		}
		mock.ExpectExec("CREATE TABLE first").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE second").WillReturnResult(sqlmock.NewResult(0, 0))

		got, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"migrations/001_first.sql",
			"migrations/002_second.sql",
			"migrations/003_empty.sql",
		}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("embedded schema creates the cards table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cards").WillReturnResult(sqlmock.NewResult(0, 0))

		_, err = Migrate(context.Background(), sqlx.NewDb(db, "mysql"), schemas.Migrations)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error stops the migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS cards").WillReturnError(fmt.Errorf("access denied"))

		_, err = Migrate(context.Background(), sqlx.NewDb(db, "mysql"), schemas.Migrations)
		assert.ErrorContains(t, err, "access denied")
	})
}
