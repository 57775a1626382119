package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"rolebot/bot/config"
	"rolebot/bot/models"
)

func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rolebot_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{"test": "rolebot-store", "test-name": t.Name()}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresStore(t *testing.T) {
	dsn := setupPostgres(t)
	ctx := context.Background()

	st, err := Open(ctx, config.Database{Type: config.DatabasePostgres, DSN: dsn}, slog.Default())
	require.NoError(t, err)
	defer st.Close()

	version, dirty, err := MigrationVersion(dsn)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	changed, err := MigrateUp(dsn)
	require.NoError(t, err)
	assert.False(t, changed)

	created, err := st.AddAutoRole(ctx, guildA, "r1")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = st.AddAutoRole(ctx, guildA, "r1")
	require.NoError(t, err)
	assert.False(t, created)

	panel := createPanel(t, st, guildA, "Colors")
	addButton(t, st, panel, "red", "Colors", 0)

	err = st.AddButton(ctx, &models.PanelButton{
		PanelId:  panel.Id,
		CustomId: models.RoleButtonCustomId(guildA, panel.Id, "red"),
		RoleId:   "red",
		Label:    "Red",
		Style:    models.StylePrimary,
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Cascade is enforced by the schema itself, not only by DeletePanel.
	require.NoError(t, st.DB().Exec("DELETE FROM role_panels WHERE id = ?", panel.Id).Error)
	buttons, err := st.PanelButtons(ctx, panel.Id)
	require.NoError(t, err)
	assert.Empty(t, buttons)

	require.NoError(t, MigrateDown(dsn, 1))
	version, _, err = MigrationVersion(dsn)
	require.NoError(t, err)
	assert.EqualValues(t, 0, version)
}
