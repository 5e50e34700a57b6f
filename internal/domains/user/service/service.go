package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todolist/infras/otel"
	"todolist/internal/domains/user/model"
	"todolist/internal/domains/user/model/dto"
	"todolist/internal/domains/user/repository"
	"todolist/shared"
	"todolist/shared/constant"
	"todolist/shared/failure"

	"github.com/rs/zerolog/log"
)

type User interface {
	Get(ctx context.Context, id int64) (dto.UserResponse, error)
}

type serviceImpl struct {
	repo repository.User
	otel otel.Otel
}

func New(repo repository.User, otel otel.Otel) User {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return res, failure.NotFound("user not found")
	}

	res.FromModel(user)

	return res, nil
}
