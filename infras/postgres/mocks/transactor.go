// Package mocks provides a transactor that runs the unit of work without a database.
package mocks

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Transactor calls fn with a nil transaction. Repository mocks ignore the tx argument.
type Transactor struct {
	Calls int
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	t.Calls++

	return fn(nil)
}
