package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"bioauth/internal/domain/entity"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(FS, "00001_create_users.sql")
	require.NoError(t, err)

	sqlText := string(content)
	assert.Contains(t, sqlText, "-- +goose Up")
	assert.Contains(t, sqlText, "-- +goose Down")
	for _, constraint := range []string{"users_username_key", "users_email_key", "users_external_id_key"} {
		assert.True(t, strings.Contains(sqlText, constraint), constraint)
	}
	assert.Contains(t, sqlText, fmt.Sprintf("username       VARCHAR(%d)", entity.MaxUsernameLength))
	assert.Contains(t, sqlText, fmt.Sprintf("email          VARCHAR(%d)", entity.MaxEmailLength))
}

func TestNewRunner_RequiresDB(t *testing.T) {
	_, err := NewRunner(nil, nil)
	assert.Error(t, err)
}

func TestRunner_DelegatesToGoose(t *testing.T) {
	origUp, origDown, origDownTo := gooseUpContext, gooseDownContext, gooseDownToContext
	t.Cleanup(func() {
		gooseUpContext, gooseDownContext, gooseDownToContext = origUp, origDown, origDownTo
	})

	var calls []string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		calls = append(calls, "up:"+dir)
		return nil
	}
	gooseDownContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		calls = append(calls, "down:"+dir)
		return nil
	}
	gooseDownToContext = func(_ context.Context, _ *sql.DB, dir string, version int64, _ ...goose.OptionsFunc) error {
		calls = append(calls, "downto:"+dir)
		assert.Equal(t, int64(3), version)
		return errors.New("boom")
	}

	r, err := NewRunner(&sql.DB{}, nil)
	require.NoError(t, err)

	require.NoError(t, r.Up(context.Background()))
	require.NoError(t, r.Down(context.Background(), 0))

	err = r.Down(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback to version 3")

	assert.Equal(t, []string{"up:.", "down:.", "downto:."}, calls)
}
