package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/shared/constant"
	"todolist/shared/dto"
	"todolist/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("no column to update")
)

const updateArgPrefix = "set_"

type column struct {
	name  string
	table string
}

// Repository implements the CRUD plumbing shared by every table. Reads go to the
// read pool, writes to the write pool, and the *Tx variants run on a caller's transaction.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, primaryColumn, reflect.TypeOf(zero))

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) spanName(operation string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation)
}

func (repo *Repository[T]) insert(ctx context.Context, exec sqlx.ExtContext, model T) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("insert"))
	defer scope.End()

	placeholders := make([]string, 0, len(repo.InsertColumns))
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "), repo.primaryColumn)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, args, err := exec.BindNamed(query, model)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to bind insert (%s): %w", repo.entitas, err)
	}

	var id int64

	if err = sqlx.GetContext(ctx, exec, &id, bound, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", repo.entitas, err)
	}

	return id, nil
}

// Insert stores model and returns the generated primary key.
func (repo *Repository[T]) Insert(ctx context.Context, model T) (int64, error) {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) (int64, error) {
	return repo.insert(ctx, sqltx, model)
}

func (repo *Repository[T]) exist(ctx context.Context, exec sqlx.ExtContext, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Exist"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, bindArgs, err := exec.BindNamed(query, args)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to bind exist (%s): %w", repo.entitas, err)
	}

	exist := false

	if err = sqlx.GetContext(ctx, exec, &exist, bound, bindArgs...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entitas, err)
	}

	return exist, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, repo.db.Read, filter)
}

func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, sqltx, filter)
}

// get returns the zero value of T when no row matches.
func (repo *Repository[T]) get(ctx context.Context, exec sqlx.ExtContext, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Get"))
	defer scope.End()

	var model T

	where, args := repo.BuildWhereClause(filter)
	query := joinQuery("SELECT", repo.getSelectQuery(columns...), "FROM", repo.table, where, "LIMIT 1")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, bindArgs, err := exec.BindNamed(query, args)
	if err != nil {
		scope.TraceError(err)

		return model, fmt.Errorf("failed to bind get (%s): %w", repo.entitas, err)
	}

	err = sqlx.GetContext(ctx, exec, &model, bound, bindArgs...)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entitas, err)
	}

	return model, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, columns...)
}

// GetTx reads through the transaction so rows written earlier in it are visible.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, columns...)
}

// GetAll returns every matching row ordered by primary key.
func (repo *Repository[T]) GetAll(ctx context.Context, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("GetAll"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	ordering := fmt.Sprintf("ORDER BY %s.%s ASC", repo.table, repo.primaryColumn)
	query := joinQuery("SELECT", repo.getSelectQuery(columns...), "FROM", repo.table, where, ordering)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	bound, bindArgs, err := repo.db.Read.BindNamed(query, args)
	if err != nil {
		scope.TraceError(err)

		return models, fmt.Errorf("failed to bind get all (%s): %w", repo.entitas, err)
	}

	if err = sqlx.SelectContext(ctx, repo.db.Read, &models, bound, bindArgs...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entitas, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Count"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	query := joinQuery(fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s", repo.table, repo.primaryColumn, repo.table), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, bindArgs, err := repo.db.Read.BindNamed(query, args)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to bind count (%s): %w", repo.entitas, err)
	}

	var count int64

	if err = sqlx.GetContext(ctx, repo.db.Read, &count, bound, bindArgs...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entitas, err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec sqlx.ExtContext, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("delete"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	query := joinQuery("DELETE FROM", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.execNamed(ctx, exec, scope, query, args, "delete")
}

// Delete removes matching rows and reports how many were deleted.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (int64, error) {
	return repo.delete(ctx, sqltx, filter)
}

func (repo *Repository[T]) update(ctx context.Context, exec sqlx.ExtContext, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("update"))
	defer scope.End()

	if len(mod) == 0 {
		return 0, errEmptyUpdate
	}

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	updateField := make([]string, 0, len(mod))

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		updateField = append(updateField, fmt.Sprintf("%s = :%s%s", col, updateArgPrefix, col))
		args[updateArgPrefix+col] = mod[col]
	}

	query := joinQuery("UPDATE", repo.table, "SET", strings.Join(updateField, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.execNamed(ctx, exec, scope, query, args, "update")
}

// Update writes the columns in mod to matching rows and reports how many were changed.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, sqltx, mod, filter)
}

func (repo *Repository[T]) execNamed(ctx context.Context, exec sqlx.ExtContext, scope otel.Scope, query string, args map[string]any, operation string) (int64, error) {
	bound, bindArgs, err := exec.BindNamed(query, args)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to bind %s (%s): %w", operation, repo.entitas, err)
	}

	result, err := exec.ExecContext(ctx, bound, bindArgs...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to %s data (%s): %w", operation, repo.entitas, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read affected rows (%s): %w", repo.entitas, err)
	}

	return affected, nil
}

func (repo *Repository[T]) getSelectQuery(columnsParam ...string) string {
	columns := []string{}

	for _, col := range repo.columns {
		if len(columnsParam) > 0 && !slices.Contains(columnsParam, col.name) {
			continue
		}

		columns = append(columns, fmt.Sprintf("%s.%s", col.table, col.name))
	}

	return strings.Join(columns, ", ")
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()

	if where == "" {
		return where, map[string]any{}
	}

	return "WHERE " + where, args
}

func joinQuery(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(part string) bool { return part == "" }), " ")
}

// getColumns walks the db tags of T, flattening embedded structs. The primary
// column is left out of the insert list so the database assigns it.
func getColumns(table, primaryColumn string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		dbTag := field.Tag.Get("db")

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, primaryColumn, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)

			continue
		}

		if dbTag == "" || dbTag == "-" {
			continue
		}

		columns = append(columns, column{name: dbTag, table: table})

		if dbTag != primaryColumn {
			insertColumns = append(insertColumns, dbTag)
		}
	}

	return columns, insertColumns
}
