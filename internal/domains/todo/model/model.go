package model

import "todolist/shared/model"

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldUserID      = "user_id"
)

type Todo struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Completed   bool    `db:"completed"`
	UserID      int64   `db:"user_id"`
	model.Metadata
}
