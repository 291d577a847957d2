package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories/memory"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	pkgauth.SetBcryptCost(bcrypt.MinCost)
	ctx := context.Background()
	repos := memory.NewRepositories(memory.Open())

	require.NoError(t, CreateDefaultData(ctx, repos, DefaultOptions, logger.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, DefaultOptions, logger.Nop()))

	admin, err := repos.Users.GetByUsername(ctx, DefaultOptions.AdminUsername)
	require.NoError(t, err)
	assert.True(t, admin.IsSuperuser)
	assert.True(t, pkgauth.CheckPassword(admin.Password, DefaultOptions.AdminPassword))

	assigns, err := repos.Assigns.ListByClass(ctx, "CS5A")
	require.NoError(t, err)
	require.Len(t, assigns, 1)
	assert.Equal(t, "T001", assigns[0].TeacherID)

	enrolled, err := repos.Enrollments.IsEnrolled(ctx, "1CS001", "CS510")
	require.NoError(t, err)
	assert.True(t, enrolled)

	slots, err := repos.Timetable.ListByClass(ctx, "CS5A")
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	days := []models.Day{slots[0].Day, slots[1].Day}
	assert.ElementsMatch(t, []models.Day{models.Monday, models.Wednesday}, days)
}
