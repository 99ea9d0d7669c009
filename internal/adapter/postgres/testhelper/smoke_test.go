//go:build integration

package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	conn := SetupTestDB(t)

	SeedSchool(t, conn, domain.School{
		Province: "ANKARA",
		Name:     "Atatürk Ortaokulu",
		Type:     domain.SchoolTypeLowerSecondary,
	})

	if got := CountRows(t, conn, "schools"); got != 1 {
		t.Fatalf("schools count = %d, want 1", got)
	}

	var regclass *string
	if err := conn.QueryRow(context.Background(), `SELECT to_regclass('associations')::text`).Scan(&regclass); err != nil {
		t.Fatalf("to_regclass: %v", err)
	}
	if regclass == nil {
		t.Fatal("associations table missing after migrations")
	}
}
