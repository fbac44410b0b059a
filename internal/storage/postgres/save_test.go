package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/snapshot"
	"github.com/cory-johannsen/game7/internal/game/team"
	"github.com/cory-johannsen/game7/internal/storage/postgres"
	"github.com/cory-johannsen/game7/internal/testutil"
)

func setupSaveRepo(t *testing.T) (*postgres.SaveRepository, *postgres.Pool) {
	t.Helper()
	pool := testutil.NewMigratedPool(t)
	return pool.Saves(), pool
}

func sampleSnapshot(t *testing.T) snapshot.Snapshot {
	t.Helper()
	cat, err := ruleset.Default()
	require.NoError(t, err)
	e, err := team.New(cat, dice.Fixed(0.5), team.DefaultReviveWindow(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.Defeat("A1"))
	e.SetProgress(team.Progress{Stage: 3, Wave: 2, Kills: 17, Gold: 250})
	return snapshot.Serialize(e)
}

func TestSaveRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupSaveRepo(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	created, err := repo.Create(ctx, "  slot one  ", snap)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "slot one", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Unique", got.Snapshot.ActiveCharacter)
	assert.Equal(t, 3, got.Snapshot.Stage)
	assert.True(t, got.Snapshot.Characters["A1"].Stats.IsDefeated)
	assert.Equal(t, snap.CurrentTeam, got.Snapshot.CurrentTeam)
}

func TestSaveRepository_GetMissing(t *testing.T) {
	repo, _ := setupSaveRepo(t)
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrSaveNotFound)
}

func TestSaveRepository_RejectsBadName(t *testing.T) {
	repo, _ := setupSaveRepo(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, "   ", sampleSnapshot(t))
	assert.Error(t, err)
	_, err = repo.Create(ctx, strings.Repeat("x", postgres.MaxSaveNameLen+1), sampleSnapshot(t))
	assert.Error(t, err)
}

func TestSaveRepository_ListUpdateDelete(t *testing.T) {
	repo, _ := setupSaveRepo(t)
	ctx := context.Background()
	snap := sampleSnapshot(t)

	first, err := repo.Create(ctx, "first", snap)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "second", snap)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	snap.Stage = 8
	require.NoError(t, repo.Update(ctx, first.ID, snap))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "most recently updated first")
	assert.Equal(t, 8, list[0].Stage)
	assert.Equal(t, second.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), postgres.ErrSaveNotFound)
	assert.ErrorIs(t, repo.Update(ctx, second.ID, snap), postgres.ErrSaveNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPool_Health(t *testing.T) {
	_, pool := setupSaveRepo(t)
	assert.NoError(t, pool.Health(context.Background()))
}

func TestPool_HealthReportsMissingSchema(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.ErrorIs(t, pc.Pool.Health(context.Background()), postgres.ErrSchemaMissing)

	pc.ApplyMigrations(t)
	assert.NoError(t, pc.Pool.Health(context.Background()))
}

func TestPool_HealthFailsAfterClose(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pool, err := postgres.NewPool(context.Background(), pc.Config)
	require.NoError(t, err)
	pool.Close()
	err = pool.Health(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, postgres.ErrSchemaMissing)
}

func TestMigrate_DownThenUp(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	res, err := postgres.Migrate(pc.DSN(), postgres.Up, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), res.Version)

	res, err = postgres.Migrate(pc.DSN(), postgres.Up, 0)
	require.NoError(t, err)
	assert.True(t, res.NoChange)

	_, err = postgres.Migrate(pc.DSN(), postgres.Down, 0)
	require.NoError(t, err)

	_, err = postgres.Migrate(pc.DSN(), "sideways", 0)
	assert.Error(t, err)
}
