package dao

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/filedrop/internal/web/files/model"
	"github.com/Laisky/filedrop/library/config"
)

func TestCreateRejectsIncompleteRecord(t *testing.T) {
	t.Parallel()
	d := NewFiles(nil)

	// no collection access should happen before validation passes,
	// so a nil DB is fine here
	_, err := d.Create(context.Background(), &model.File{
		FileName: "a.png",
		FileType: "image/png",
		FileSize: 1024,
		// FileURL absent
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing required fields")

	_, err = d.Create(context.Background(), &model.File{
		FileType:  "image/png",
		FileSize:  1024,
		FileURL:   "https://bucket.example.com/key",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
}

func TestCreateAndListAll(t *testing.T) {
	if os.Getenv("RUN_FILEDROP_INTEGRATION_TESTS") == "" {
		t.Skip("integration test requires RUN_FILEDROP_INTEGRATION_TESTS=1 and a reachable MongoDB instance")
	}

	ctx := context.Background()
	config.LoadTest()
	Initialize(ctx)

	before, err := Instance.ListAll(ctx)
	require.NoError(t, err)

	created, err := Instance.Create(ctx, &model.File{
		FileName:  "integration.png",
		FileType:  "image/png",
		FileSize:  2048,
		FileURL:   "https://bucket.example.com/integration",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	after, err := Instance.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	require.Equal(t, created.ID, after[len(after)-1].ID)
}
