package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/todo/model"
	gDto "todolist/shared/dto"
	gRepo "todolist/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Todo interface {
	Insert(ctx context.Context, model model.Todo) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Todo, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Todo, error)
	GetAll(ctx context.Context, filter gDto.FilterGroup, columns ...string) ([]model.Todo, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Todo]
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
