package file

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/subterra/gpr-client/pkg/log"
	"go.uber.org/zap"
)

var (
	ErrPathIsDir  = errors.New("supplied path is a directory")
	ErrPathIsFile = errors.New("supplied path is a file")
)

// CreateFileP creates a file and all its parent directories.
// Make sure you close the file when using this function!
func CreateFileP(filePath string, perm fs.FileMode) (*os.File, error) {
	absDirPath, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(absDirPath, perm); err != nil {
		return nil, err
	}

	return os.Create(filePath)
}

func WriteTo(filePath string, text string) error {
	f, err := CreateFileP(filePath, 0750)
	if err != nil {
		return err
	}

	// Close the file when done
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	_, err = f.WriteString(text)
	return err
}

func MoveFile(sourcePath string, destPath string) error {
	return os.Rename(sourcePath, destPath)
}

func Info(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func Exists(path string) error {
	s, err := Info(path)
	if err != nil {
		return err
	}

	if s.IsDir() {
		return ErrPathIsDir
	}

	return nil
}

func IsDir(path string) error {
	s, err := Info(path)
	if err != nil {
		return err
	}

	if !s.IsDir() {
		return ErrPathIsFile
	}

	return nil
}

func Size(path string) (int64, error) {
	s, err := Info(path)
	if err != nil {
		return 0, err
	}
	return s.Size(), nil
}

func addFileToZip(absFilePath string, writer *zip.Writer) error {
	srcFile, err := os.Open(absFilePath)
	if err != nil {
		return err
	}

	defer func(srcFile *os.File) {
		_ = srcFile.Close()
	}(srcFile)

	zipFileWriter, err := writer.Create(filepath.Base(absFilePath))
	if err != nil {
		return err
	}

	_, err = io.Copy(zipFileWriter, srcFile)
	return err
}

// verifyArchive re-opens the archive and checks that every added file
// made it in with its full uncompressed size.
func verifyArchive(archivePath string, addedFiles []string) error {
	zf, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}

	defer func(zf *zip.ReadCloser) {
		_ = zf.Close()
	}(zf)

	entries := make(map[string]int64, len(zf.File))
	for _, f := range zf.File {
		entries[f.Name] = int64(f.UncompressedSize64)
	}

	for _, added := range addedFiles {
		name := filepath.Base(added)
		zipSize, ok := entries[name]
		if !ok {
			return fmt.Errorf("file %s missing from archive", name)
		}

		rawSize, err := Size(added)
		if err != nil {
			return err
		}

		if zipSize != rawSize {
			log.Error("archive entry size mismatch",
				zap.String("file", name),
				zap.Int64("rawSize", rawSize),
				zap.Int64("zipSize", zipSize))
			return fmt.Errorf("file %s was not written properly", name)
		}
	}

	return nil
}

// CreateArchive packs the given files into a zip archive and verifies the result.
func CreateArchive(archivePath string, filesToAdd []string) error {
	if filepath.Ext(archivePath) != ".zip" {
		archivePath += ".zip"
	}

	archive, err := CreateFileP(archivePath, 0750)
	if err != nil {
		log.Error("error creating archive file", zap.String("file", archivePath))
		return err
	}

	zipWriter := zip.NewWriter(archive)
	for _, file := range filesToAdd {
		if err := addFileToZip(file, zipWriter); err != nil {
			log.Error("could not add file to archive", zap.String("file", file), zap.Error(err))
			// keep going, verifyArchive reports the missing file
		}
	}

	if err = zipWriter.Close(); err != nil {
		_ = archive.Close()
		return err
	}

	if err = archive.Close(); err != nil {
		return err
	}

	return verifyArchive(archivePath, filesToAdd)
}
