package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/user/model"
	gDto "todolist/shared/dto"
	gRepo "todolist/shared/repository"

	"github.com/jmoiron/sqlx"
)

type User interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.User) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// FilterByEmail matches the normalized login email.
func FilterByEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    model.TableName,
			},
		},
	}
}
