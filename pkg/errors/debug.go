package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the log-friendly view of an error chain.
type ErrorDump struct {
	TopMessage string      `json:"top_message"`
	Code       Code        `json:"code,omitempty"`
	Retryable  bool        `json:"retryable,omitempty"`
	Chain      []string    `json:"chain,omitempty"`
	Store      *StoreError `json:"store,omitempty"`
}

// StoreError carries the driver details of a durable slot store failure.
type StoreError struct {
	Driver     string `json:"driver"`
	Code       string `json:"code"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Dump flattens err for structured logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Store = storeError(err)
	return d
}

func storeError(err error) *StoreError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Driver:     "postgres",
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Message:    pgErr.Message,
		}
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return &StoreError{
			Driver:  "sqlite",
			Code:    liteErr.ExtendedCode.Error(),
			Message: liteErr.Error(),
		}
	}
	return nil
}
