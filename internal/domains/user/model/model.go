package model

import (
	"todolist/shared/constant"
	"todolist/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID             = "id"
	FieldEmail          = "email"
	FieldHashedPassword = "hashed_password"
	FieldIsActive       = "is_active"
	FieldIsSuperuser    = "is_superuser"
)

type User struct {
	ID             int64  `db:"id"`
	Email          string `db:"email"`
	HashedPassword string `db:"hashed_password"`
	IsActive       bool   `db:"is_active"`
	IsSuperuser    bool   `db:"is_superuser"`
	model.Metadata
}

// Role is carried in issued tokens. Superusers are reserved for future authorization tiers.
func (u User) Role() string {
	if u.IsSuperuser {
		return constant.RoleSuperuser
	}

	return constant.RoleUser
}
