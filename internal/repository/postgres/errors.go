package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"gohire/internal/common"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation recognises SQLSTATE 23505 from either registered driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func notFoundOr(err error, notFound, failed string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.NewError(common.CodeNotFound, notFound, err)
	}
	return common.NewError(common.CodeInternal, failed, err)
}

// encodeJSON renders a JSONB parameter as text, which both drivers accept.
func encodeJSON(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		return "{}", nil
	}
	return string(raw), nil
}

func decodeDetails(raw []byte) map[string]any {
	details := map[string]any{}
	if len(raw) == 0 {
		return details
	}
	if err := json.Unmarshal(raw, &details); err != nil || details == nil {
		return map[string]any{}
	}
	return details
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func nullUUID(value *common.UUID) sql.NullString {
	if value == nil || value.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: value.String(), Valid: true}
}

func uuidPtr(value sql.NullString) *common.UUID {
	if !value.Valid || value.String == "" {
		return nil
	}
	id := common.UUID(value.String)
	return &id
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
