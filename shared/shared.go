package shared

import (
	"reflect"
	"strconv"
	"strings"
	"todolist/shared/constant"
	"todolist/shared/dto"
	"todolist/shared/failure"
	"todolist/shared/timezone"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

// TransformFields converts the non-zero, db-tagged fields of a struct into a column map
// suitable for an UPDATE, stamping updated_at. Nil pointers are skipped, set pointers
// are dereferenced so an explicit false or "" is still written.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldUpdatedAt] = timezone.Now()

	return updatedFields
}

func FilterByID(id int64, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByOwner scopes a lookup by primary key to the rows owned by ownerID.
func FilterByOwner(id, ownerID int64, fieldID, fieldOwner, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			dto.Filter{
				Field:    fieldOwner,
				Value:    ownerID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// ParseID parses a positive integer path parameter.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.Unprocessable(value + " is not a valid id")
	}

	return id, nil
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, constant.CacheKeySeparator)
}
