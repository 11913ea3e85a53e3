package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrite(t *testing.T) {
	var (
		ctx  = context.Background()
		fs   = New()
		data = []byte("age,zip_code\n30,80012\n")
		path = filepath.Join(t.TempDir(), "prices.csv")
	)

	err := fs.Write(ctx, path, data)
	assert.NoError(t, err)
}

func TestWriteDirNotExists(t *testing.T) {
	var (
		ctx  = context.Background()
		fs   = New()
		data = []byte("age,zip_code\n30,80012\n")
		dir  = filepath.Join(t.TempDir(), "foo", "bar", "baz")
		path = filepath.Join(dir, "prices.csv")
	)

	err := fs.Write(ctx, path, data)
	assert.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestRead(t *testing.T) {
	var (
		ctx  = context.Background()
		fs   = New()
		data = []byte("age,zip_code\n30,80012\n")
		path = filepath.Join(t.TempDir(), "prices.csv")
	)

	// First write a file
	err := fs.Write(ctx, path, data)
	assert.NoError(t, err)

	b, err := fs.Read(ctx, path)
	assert.NoError(t, err)
	assert.Equal(t, data, b)
}

func TestReadMissing(t *testing.T) {
	_, err := New().Read(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
