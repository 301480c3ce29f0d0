package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Report is a structured view of an error chain for diagnostic logging.
// Postgres is populated when a driver error is found anywhere in the chain.
type Report struct {
	Message  string     `json:"message"`
	Code     Code       `json:"code,omitempty"`
	Causes   []string   `json:"causes,omitempty"`
	Postgres *PGDetails `json:"postgres,omitempty"`
}

// PGDetails carries the database-level context behind a failed statement.
// Both pgx and lib/pq errors map onto it.
type PGDetails struct {
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Inspect walks the error chain and builds a Report.
func Inspect(err error) Report {
	if err == nil {
		return Report{}
	}

	report := Report{Message: err.Error()}
	if typed := As(err); typed != nil {
		report.Code = typed.Code()
	}
	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		report.Causes = append(report.Causes, fmt.Sprintf("%T: %v", cause, cause))
	}
	report.Postgres = pgDetails(err)
	return report
}

// LogFields flattens the report for structured log output. Empty values
// are omitted so quiet errors stay quiet.
func (r Report) LogFields() map[string]any {
	fields := map[string]any{"error": r.Message}
	if r.Code != "" {
		fields["error_code"] = r.Code
	}
	if len(r.Causes) > 1 {
		fields["error_chain"] = r.Causes
	}
	if pg := r.Postgres; pg != nil {
		fields["pg_code"] = pg.Code
		fields["pg_message"] = pg.Message
		if pg.Constraint != "" {
			fields["pg_constraint"] = pg.Constraint
		}
		if pg.Table != "" {
			fields["pg_table"] = pg.Table
		}
		if pg.Column != "" {
			fields["pg_column"] = pg.Column
		}
		if pg.Detail != "" {
			fields["pg_detail"] = pg.Detail
		}
	}
	return fields
}

func pgDetails(err error) *PGDetails {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGDetails{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PGDetails{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	return nil
}
