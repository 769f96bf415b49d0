package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"go-empower/migrations"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
)

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	assert.NoError(t, err)
	assert.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, "missing down migration for %s", up)
	}
}

func TestEmbeddedMigrations_Readable(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	assert.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	assert.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	assert.NoError(t, err)
	assert.Equal(t, uint(2), next)
}
