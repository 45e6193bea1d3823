package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestNewLocalStorage(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.ErrorIs(t, err, ErrInvalidPath)

	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "not-created-yet"))
	require.NoError(t, err)
	ok, err := s.Exists(context.Background(), "alice.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_Open(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "alice.json", `{"id":"alice"}`)
	writeFile(t, dir, "nested/bob.json", `{"id":"bob"}`)

	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "top level file", path: "alice.json", want: `{"id":"alice"}`},
		{name: "nested file", path: "nested/bob.json", want: `{"id":"bob"}`},
		{name: "missing file", path: "carol.json", wantErr: ErrFileNotFound},
		{name: "empty path", path: "", wantErr: ErrInvalidPath},
		{name: "traversal", path: "../secret.json", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := s.Open(ctx, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestLocalStorage_Exists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "alice.json", "{}")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0755))

	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    bool
		wantErr bool
	}{
		{name: "existing file", path: "alice.json", want: true},
		{name: "missing file", path: "bob.json", want: false},
		{name: "directory is not a document", path: "subdir", want: false},
		{name: "base directory itself", path: ".", wantErr: true},
		{name: "traversal", path: "../../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Exists(ctx, tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStorage_Location(t *testing.T) {
	s, err := NewLocalStorage("/srv/personas")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/personas", "alice.json"), s.Location("alice.json"))
	assert.Equal(t, "/elsewhere/bob.json", s.Location("/elsewhere/./bob.json"))
}

func TestLocalStorage_AbsolutePaths(t *testing.T) {
	ctx := context.Background()
	outside := t.TempDir()
	writeFile(t, outside, "alice.json", `{"id":"alice"}`)
	abs := filepath.Join(outside, "alice.json")

	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ok, err := s.Exists(ctx, abs)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, filepath.Join(outside, "bob.json"))
	require.NoError(t, err)
	assert.False(t, ok)

	rc, err := s.Open(ctx, abs)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"alice"}`, string(data))

	assert.Equal(t, abs, s.Location(abs))
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()

	r, err := NewReader(ctx, Config{Source: "local", BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, r)

	r, err = NewReader(ctx, Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, r)

	_, err = NewReader(ctx, Config{Source: "s3", S3Region: "us-east-1"})
	assert.Error(t, err)

	_, err = NewReader(ctx, Config{Source: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage source")
}
