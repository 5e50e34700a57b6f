package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/todo/model"
	"todolist/internal/domains/todo/model/dto"
	"todolist/internal/domains/todo/repository"
	"todolist/shared"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	errTodoNotFound = "todo not found"
	errEmptyUpdate  = "at least one of title, description or completed must be provided"
)

// Todo manages to-do items. Every operation is scoped to ownerID, and items owned
// by someone else are reported as not found.
type Todo interface {
	Create(ctx context.Context, ownerID int64, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	GetAll(ctx context.Context, ownerID int64, filter dto.ListTodoFilter) ([]dto.TodoResponse, error)
	Get(ctx context.Context, ownerID, id int64) (dto.TodoResponse, error)
	Update(ctx context.Context, ownerID, id int64, req dto.UpdateTodoRequest) (dto.TodoResponse, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type serviceImpl struct {
	repo       repository.Todo
	transactor postgres.Transactor
	otel       otel.Otel
}

func New(repo repository.Todo, transactor postgres.Transactor, otel otel.Otel) Todo {
	return &serviceImpl{
		repo:       repo,
		transactor: transactor,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, ownerID int64, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	todo := req.ToModel(ownerID)

	todo.ID, err = s.repo.Insert(ctx, todo)
	if err != nil {
		log.Error().Err(err).Int64("user_id", ownerID).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, ownerID int64, filter dto.ListTodoFilter) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, filter.ToFilterGroup(ownerID))
	if err != nil {
		log.Error().Err(err).Int64("user_id", ownerID).Msg("failed to get todos")

		return nil, fmt.Errorf("failed to get todos: %w", err)
	}

	return dto.FromModels(models), nil
}

func (s *serviceImpl) Get(ctx context.Context, ownerID, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.repo.Get(ctx, shared.FilterByOwner(id, ownerID, model.FieldID, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo")

		return res, fmt.Errorf("failed to get todo: %w", err)
	}

	if todo.ID == 0 {
		return res, failure.NotFound(errTodoNotFound)
	}

	res.FromModel(todo)

	return res, nil
}

// Update applies the provided fields and returns the stored item. The write and the
// read-back share one transaction.
func (s *serviceImpl) Update(ctx context.Context, ownerID, id int64, req dto.UpdateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.Unprocessable(errEmptyUpdate)
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	filter := shared.FilterByOwner(id, ownerID, model.FieldID, model.FieldUserID, model.TableName)

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		affected, txErr := s.repo.UpdateTx(ctx, tx, shared.TransformFields(req), filter)
		if txErr != nil {
			return fmt.Errorf("failed to update todo: %w", txErr)
		}

		if affected == 0 {
			return failure.NotFound(errTodoNotFound)
		}

		todo, txErr := s.repo.GetTx(ctx, tx, filter)
		if txErr != nil {
			return fmt.Errorf("failed to reload todo: %w", txErr)
		}

		res.FromModel(todo)

		return nil
	})
	if err != nil {
		if !failure.IsFailure(err) {
			log.Error().Err(err).Int64("id", id).Msg("failed to update todo")
		}

		return dto.TodoResponse{}, err
	}

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	affected, err := s.repo.Delete(ctx, shared.FilterByOwner(id, ownerID, model.FieldID, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(errTodoNotFound)
	}

	return nil
}
