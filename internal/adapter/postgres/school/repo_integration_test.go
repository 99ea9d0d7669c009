//go:build integration

package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/school"
	"github.com/heartmarshall/membership-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

func TestRepo_ExistsSchool_Integration(t *testing.T) {
	conn := testhelper.SetupTestDB(t)
	repo := school.New(conn)
	ctx := context.Background()

	stored := domain.School{
		Province:        "ANKARA",
		InstitutionCode: domain.OptionalText("123456"),
		Name:            "Atatürk Ortaokulu",
		Type:            domain.SchoolTypeLowerSecondary,
	}
	require.NoError(t, repo.InsertSchool(ctx, stored))

	tests := []struct {
		name string
		key  domain.SchoolKey
		want bool
	}{
		{"same code different name", domain.SchoolKey{Type: domain.SchoolTypeLowerSecondary, InstitutionCode: "123456", Province: "İZMİR", Name: "Başka"}, true},
		{"composite key, null district matches empty", domain.SchoolKey{Type: domain.SchoolTypeLowerSecondary, Province: "ANKARA", Name: "Atatürk Ortaokulu"}, true},
		{"composite key, other district", domain.SchoolKey{Type: domain.SchoolTypeLowerSecondary, Province: "ANKARA", District: "ÇANKAYA", Name: "Atatürk Ortaokulu"}, false},
		{"same code other type", domain.SchoolKey{Type: domain.SchoolTypeUpperSecondary, InstitutionCode: "123456", Province: "ANKARA", Name: "Atatürk Ortaokulu"}, false},
		{"unknown", domain.SchoolKey{Type: domain.SchoolTypeLowerSecondary, InstitutionCode: "999999", Province: "BURSA", Name: "Yeni"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsSchool(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
