package dto

import (
	"todolist/internal/domains/user/model"
	gDto "todolist/shared/dto"
)

type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.IsActive = model.IsActive
	r.IsSuperuser = model.IsSuperuser
	r.Metadata.FromModel(model.Metadata)
}
