package file

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/subterra/gpr-client/pkg/log"
)

func TestCreateFilePNested(t *testing.T) {
	log.Init(true)

	tempPath := t.TempDir()
	nested := filepath.Join(tempPath, "sessions", "2024", "session.sgy")

	f, err := CreateFileP(nested, 0750)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())
	assert.NoError(t, Exists(nested))
}

func TestExistsOnDirectory(t *testing.T) {
	log.Init(true)

	tempPath := t.TempDir()
	assert.ErrorIs(t, Exists(tempPath), ErrPathIsDir)
	assert.NoError(t, IsDir(tempPath))
	assert.Error(t, IsDir(filepath.Join(tempPath, "nope")))
}

func TestArchiveSessionFiles(t *testing.T) {
	log.Init(true)

	tempPath := t.TempDir()

	files := []string{
		filepath.Join(tempPath, "gpr_output_20240101T000000Z.sgy"),
		filepath.Join(tempPath, "session_info.txt"),
	}

	for i, v := range files {
		assert.NoError(t, WriteTo(v, strings.Repeat("payload", 100*(i+1))))
	}

	archivePath := filepath.Join(tempPath, "session.zip")
	assert.NoError(t, CreateArchive(archivePath, files))
	assert.FileExists(t, archivePath)

	// Every file must be present with its original size
	zf, err := zip.OpenReader(archivePath)
	assert.NoError(t, err)

	found := 0
	for _, entry := range zf.File {
		for _, v := range files {
			if filepath.Base(v) == entry.Name {
				found++

				rawSize, err := Size(v)
				assert.NoError(t, err)
				assert.Equal(t, rawSize, int64(entry.UncompressedSize64))
			}
		}
	}

	assert.Equal(t, len(files), found)
	assert.NoError(t, zf.Close())
}

func TestArchiveMissingInputFails(t *testing.T) {
	log.Init(true)

	tempPath := t.TempDir()
	archivePath := filepath.Join(tempPath, "broken.zip")

	err := CreateArchive(archivePath, []string{filepath.Join(tempPath, "does_not_exist.sgy")})
	assert.Error(t, err)
}
