package dto

import (
	"todolist/internal/domains/todo/model"
	gDto "todolist/shared/dto"
	gModel "todolist/shared/model"
	"todolist/shared/timezone"
)

type CreateTodoRequest struct {
	Title       string  `json:"title"                 validate:"required,notblank,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

func (c *CreateTodoRequest) ToModel(ownerID int64) model.Todo {
	now := timezone.Now()

	return model.Todo{
		Title:       c.Title,
		Description: c.Description,
		Completed:   false,
		UserID:      ownerID,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// UpdateTodoRequest carries the fields to change; nil fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string `db:"title"       json:"title,omitempty"       validate:"omitempty,notblank,max=50"`
	Description *string `db:"description" json:"description,omitempty" validate:"omitempty,max=255"`
	Completed   *bool   `db:"completed"   json:"completed,omitempty"`
}

func (u *UpdateTodoRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// ListTodoFilter narrows a listing. Unset fields match everything.
type ListTodoFilter struct {
	Completed *bool
	Title     string
}

func (f ListTodoFilter) ToFilterGroup(ownerID int64) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldUserID,
			Value:    ownerID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		},
	}

	if f.Completed != nil {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldCompleted,
			Value:    *f.Completed,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.Title != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldTitle,
			Value:    f.Title,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      int64   `json:"user_id"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Completed = model.Completed
	r.UserID = model.UserID
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
