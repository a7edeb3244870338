package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const (
	emptyFilePermissionsConstant               fs.FileMode = 0o644
	copyOpenSourceErrorTemplateConstant                    = "open %s: %w"
	copyCreateDestinationErrorTemplateConstant             = "create %s: %w"
	copyContentsErrorTemplateConstant                      = "copy %s to %s: %w"
	copyMetadataErrorTemplateConstant                      = "preserve metadata of %s: %w"
)

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// CopyFile copies sourcePath to destinationPath, keeping the source permission
// bits and modification time. The destination must not exist.
func (OSFileSystem) CopyFile(sourcePath string, destinationPath string) (copyError error) {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf(copyOpenSourceErrorTemplateConstant, sourcePath, openError)
	}
	defer sourceFile.Close()

	sourceInfo, statError := sourceFile.Stat()
	if statError != nil {
		return fmt.Errorf(copyOpenSourceErrorTemplateConstant, sourcePath, statError)
	}

	destinationFile, createError := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, sourceInfo.Mode().Perm())
	if createError != nil {
		return fmt.Errorf(copyCreateDestinationErrorTemplateConstant, destinationPath, createError)
	}
	defer func() {
		if closeError := destinationFile.Close(); closeError != nil && copyError == nil {
			copyError = fmt.Errorf(copyContentsErrorTemplateConstant, sourcePath, destinationPath, closeError)
		}
	}()

	if _, writeError := io.Copy(destinationFile, sourceFile); writeError != nil {
		return fmt.Errorf(copyContentsErrorTemplateConstant, sourcePath, destinationPath, writeError)
	}

	if chmodError := destinationFile.Chmod(sourceInfo.Mode().Perm()); chmodError != nil {
		return fmt.Errorf(copyMetadataErrorTemplateConstant, sourcePath, chmodError)
	}
	if timesError := os.Chtimes(destinationPath, sourceInfo.ModTime(), sourceInfo.ModTime()); timesError != nil {
		return fmt.Errorf(copyMetadataErrorTemplateConstant, sourcePath, timesError)
	}
	return nil
}

// CreateEmptyFile creates a zero-length file, leaving an existing file untouched.
func (OSFileSystem) CreateEmptyFile(path string) error {
	createdFile, createError := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, emptyFilePermissionsConstant)
	if createError != nil {
		if errors.Is(createError, fs.ErrExist) {
			return nil
		}
		return createError
	}
	return createdFile.Close()
}
