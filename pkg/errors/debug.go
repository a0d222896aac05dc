package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE classes the cart and product tables can raise.
const (
	pgUniqueViolation           = "23505"
	pgForeignKeyViolation       = "23503"
	pgCheckViolation            = "23514"
	pgNotNullViolation          = "23502"
	pgSerializationFailure      = "40001"
	pgDeadlockDetected          = "40P01"
	pgInvalidTextRepresentation = "22P02"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump flattens err for structured logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if pg, ok := postgresError(err); ok {
		d.PGCode = pg.PGCode
		d.PGConstraint = pg.PGConstraint
		d.PGTable = pg.PGTable
		d.PGColumn = pg.PGColumn
		d.PGDetail = pg.PGDetail
		d.PGMessage = pg.PGMessage
	}
	return d
}

// postgresError extracts server error fields from either Postgres driver.
func postgresError(err error) (ErrorDump, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return ErrorDump{
			PGCode:       pgxErr.Code,
			PGConstraint: pgxErr.ConstraintName,
			PGTable:      pgxErr.TableName,
			PGColumn:     pgxErr.ColumnName,
			PGDetail:     pgxErr.Detail,
			PGMessage:    pgxErr.Message,
		}, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return ErrorDump{
			PGCode:       string(pqErr.Code),
			PGConstraint: pqErr.Constraint,
			PGTable:      pqErr.Table,
			PGColumn:     pqErr.Column,
			PGDetail:     pqErr.Detail,
			PGMessage:    pqErr.Message,
		}, true
	}
	return ErrorDump{}, false
}

// FromDB wraps a persistence failure with the code its SQLSTATE implies.
// Errors that are already typed keep their code. Anything unrecognised is a
// dependency failure.
func FromDB(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if typed := As(err); typed != nil {
		return typed
	}

	pg, ok := postgresError(err)
	if !ok {
		return Wrap(CodeDependency, err, message)
	}

	switch pg.PGCode {
	case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
		return Wrap(CodeConflict, err, message)
	case pgForeignKeyViolation:
		return Wrap(CodeNotFound, err, message)
	case pgCheckViolation, pgNotNullViolation, pgInvalidTextRepresentation:
		return Wrap(CodeValidation, err, message).WithDetails(map[string]any{
			"constraint": pg.PGConstraint,
			"column":     pg.PGColumn,
		})
	default:
		return Wrap(CodeDependency, err, message)
	}
}
