package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    string `mapstructure:"id"`
	Email string `mapstructure:"email"`
}

func newMockClient(t *testing.T) (interfaces.DBClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDatabaseClientFromDB(db), mock
}

func TestNewPostgresDatabaseClient_Defaults(t *testing.T) {
	client := NewPostgresDatabaseClient(&config.PostgresConfig{}).(*PostgresDatabaseClient)
	assert.Equal(t, DefaultMaxOpenConns, client.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, client.MaxIdleConns)
	assert.Equal(t, DefaultConnMaxLifetime, client.ConnMaxLifetime)
}

func TestInsertOne(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, id, name) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("hinata@konoha.jp", "fixed-id", "Hinata").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fixed-id"))

	id, err := client.InsertOne(context.Background(), "users", map[string]interface{}{
		"id":    "fixed-id",
		"email": "hinata@konoha.jp",
		"name":  "Hinata",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOne_GeneratesID(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, id) VALUES ($1, $2) RETURNING id")).
		WithArgs("hinata@konoha.jp", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("generated"))

	id, err := client.InsertOne(context.Background(), "users", map[string]interface{}{"email": "hinata@konoha.jp"})
	require.NoError(t, err)
	assert.Equal(t, "generated", id)
}

func TestInsertOne_RejectsNonMap(t *testing.T) {
	client, _ := newMockClient(t)
	_, err := client.InsertOne(context.Background(), "users", row{})
	assert.Error(t, err)
}

func TestFindOne(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("hinata@konoha.jp").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("abc", []byte("hinata@konoha.jp")))

	var got row
	err := client.FindOne(context.Background(), "users", map[string]interface{}{"email": "hinata@konoha.jp"}, &got)
	require.NoError(t, err)
	assert.Equal(t, row{ID: "abc", Email: "hinata@konoha.jp"}, got)
}

func TestFindOne_NoRows(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("nobody@konoha.jp").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	var got row
	err := client.FindOne(context.Background(), "users", map[string]interface{}{"email": "nobody@konoha.jp"}, &got)
	assert.ErrorIs(t, err, interfaces.ErrNoDocument)
}

func TestFindOne_QueryError(t *testing.T) {
	client, mock := newMockClient(t)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1 LIMIT 1")).
		WillReturnError(dbErr)

	var got row
	err := client.FindOne(context.Background(), "users", map[string]interface{}{"email": "x@konoha.jp"}, &got)
	assert.ErrorIs(t, err, dbErr)
}

func TestFindOne_EmptyFilter(t *testing.T) {
	client, _ := newMockClient(t)
	var got row
	assert.Error(t, client.FindOne(context.Background(), "users", map[string]interface{}{}, &got))
}

func TestEnsureSchema(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users (id TEXT)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, client.EnsureSchema(context.Background(), "users", "CREATE TABLE IF NOT EXISTS users (id TEXT)"))
	assert.Error(t, client.EnsureSchema(context.Background(), "users", 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
