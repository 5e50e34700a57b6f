package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/infras/otel/mocks"
	"todolist/infras/postgres"
	"todolist/shared"
	"todolist/shared/dto"
	"todolist/shared/model"
	"todolist/shared/repository"
)

type widget struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Done bool   `db:"done"`
	model.Metadata
}

const selectWidgets = "SELECT widgets.id, widgets.name, widgets.done, widgets.created_at, widgets.updated_at FROM widgets"

func newRepo(t *testing.T) (repository.Repository[widget], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return repository.NewRepository[widget]("widget", "widgets", "id", conn, mocks.NewOtel()), mock
}

func widgetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "done", "created_at", "updated_at"})
}

func TestInsertColumns(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Equal(t, []string{"name", "done", "created_at", "updated_at"}, repo.InsertColumns)
}

func TestInsert(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO widgets (name, done, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs("bolt", false, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := repo.Insert(context.Background(), widget{Name: "bolt", Metadata: model.Metadata{CreatedAt: now, UpdatedAt: now}})

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_Error(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO widgets").WillReturnError(errors.New("duplicate key"))

	_, err := repo.Insert(context.Background(), widget{Name: "bolt"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert data (widget)")
}

func TestGet(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(selectWidgets + " WHERE (widgets.id = $1) LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(widgetRows().AddRow(7, "bolt", true, now, now))

	got, err := repo.Get(context.Background(), shared.FilterByID(7, "id", "widgets"))

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "bolt", got.Name)
	assert.True(t, got.Done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NoRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM widgets").WillReturnRows(widgetRows())

	got, err := repo.Get(context.Background(), shared.FilterByID(7, "id", "widgets"))

	require.NoError(t, err)
	assert.Zero(t, got.ID)
}

func TestGet_Columns(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT widgets.id, widgets.name FROM widgets WHERE (widgets.id = $1) LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "bolt"))

	got, err := repo.Get(context.Background(), shared.FilterByID(7, "id", "widgets"), "id", "name")

	require.NoError(t, err)
	assert.Equal(t, "bolt", got.Name)
}

func TestGetAll(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	filter := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "done", Value: true, Operator: dto.FilterOperatorEq, Table: "widgets"},
	}}

	mock.ExpectQuery(regexp.QuoteMeta(selectWidgets + " WHERE (widgets.done = $1) ORDER BY widgets.id ASC")).
		WithArgs(true).
		WillReturnRows(widgetRows().AddRow(1, "a", true, now, now).AddRow(2, "b", true, now, now))

	got, err := repo.GetAll(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestGetAll_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectWidgets + " ORDER BY widgets.id ASC")).WillReturnRows(widgetRows())

	got, err := repo.GetAll(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExist(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM widgets WHERE (widgets.id = $1))")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exist, err := repo.Exist(context.Background(), shared.FilterByID(3, "id", "widgets"))

	require.NoError(t, err)
	assert.True(t, exist)
}

func TestExist_RequiresFilter(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Exist(context.Background(), dto.FilterGroup{})

	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(widgets.id) FROM widgets")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE widgets SET done = $1, name = $2 WHERE (widgets.id = $3 AND widgets.owner_id = $4)")).
		WithArgs(true, "nut", int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Update(context.Background(),
		map[string]any{"name": "nut", "done": true},
		shared.FilterByOwner(7, 1, "id", "owner_id", "widgets"),
	)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Guards(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Update(context.Background(), map[string]any{}, shared.FilterByID(7, "id", "widgets"))
	assert.Error(t, err)

	_, err = repo.Update(context.Background(), map[string]any{"name": "x"}, dto.FilterGroup{})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widgets WHERE (widgets.id = $1)")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), shared.FilterByID(7, "id", "widgets"))

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDelete_RequiresFilter(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Delete(context.Background(), dto.FilterGroup{})

	assert.Error(t, err)
}

func TestTxVariants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}
	repo := repository.NewRepository[widget]("widget", "widgets", "id", conn, mocks.NewOtel())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO widgets").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec("UPDATE widgets SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM widgets").WillReturnRows(widgetRows().AddRow(9, "nut", true, now, now))
	mock.ExpectExec("DELETE FROM widgets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = conn.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		exist, txErr := repo.ExistTx(context.Background(), tx, shared.FilterByID(9, "id", "widgets"))
		require.NoError(t, txErr)
		assert.False(t, exist)

		id, txErr := repo.InsertTx(context.Background(), tx, widget{Name: "bolt"})
		require.NoError(t, txErr)
		assert.Equal(t, int64(9), id)

		affected, txErr := repo.UpdateTx(context.Background(), tx, map[string]any{"done": true}, shared.FilterByID(id, "id", "widgets"))
		require.NoError(t, txErr)
		assert.Equal(t, int64(1), affected)

		got, txErr := repo.GetTx(context.Background(), tx, shared.FilterByID(id, "id", "widgets"))
		require.NoError(t, txErr)
		assert.True(t, got.Done)

		affected, txErr = repo.DeleteTx(context.Background(), tx, shared.FilterByID(id, "id", "widgets"))
		require.NoError(t, txErr)
		assert.Equal(t, int64(1), affected)

		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
