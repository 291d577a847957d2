package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintHelpers(t *testing.T) {
	dup := fmt.Errorf("insert dept: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "depts_pkey"})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}
	check := &pgconn.PgError{Code: CodeCheckViolation}

	assert.True(t, IsDuplicateConstraintError(dup, "depts_pkey"))
	assert.False(t, IsDuplicateConstraintError(dup, "classes_pkey"))
	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsCheckViolation(errors.New("plain")))
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.Equal(t, "depts_pkey", ConstraintName(dup))
	assert.Empty(t, ConstraintName(errors.New("plain")))
}
