package testhelper

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// SeedSchool inserts s directly, bypassing the importer.
func SeedSchool(t *testing.T, conn *pgx.Conn, s domain.School) {
	t.Helper()
	_, err := conn.Exec(context.Background(),
		`INSERT INTO schools (province, district, institution_code, name, school_type)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.Province, s.District, s.InstitutionCode, s.Name, s.Type.String(),
	)
	if err != nil {
		t.Fatalf("SeedSchool: %v", err)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *pgx.Conn, table string) int64 {
	t.Helper()
	var n int64
	if err := conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
		t.Fatalf("CountRows(%s): %v", table, err)
	}
	return n
}
