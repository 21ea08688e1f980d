package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
)

const defaultArchiveKey = "__archivesync.archive.tar.gz"

// publishDirectory packs sourceDir into a tar.gz and uploads it as a single
// object, ready to be expanded by a Create or Update invocation.
func publishDirectory(ctx context.Context, client BucketClient, sourceDir, bucket, key string) error {
	fileMap, walkErr := concreteWalkFunc(sourceDir)
	if walkErr != nil {
		return fmt.Errorf("Error walking %s: %w", sourceDir, walkErr)
	}

	filesToCompress := make([]string, 0, len(fileMap))
	for path := range fileMap {
		filesToCompress = append(filesToCompress, path)
	}
	sort.Strings(filesToCompress)

	tarFile, tempErr := os.CreateTemp("", "archivesync-*.tar.gz")
	if tempErr != nil {
		return fmt.Errorf("Error creating archive file: %w", tempErr)
	}
	defer os.Remove(tarFile.Name())
	defer tarFile.Close()

	log.Info(fmt.Sprintf("Creating archive %s from %d files", tarFile.Name(), len(filesToCompress)))
	if archiveErr := createArchive(sourceDir, filesToCompress, tarFile); archiveErr != nil {
		return fmt.Errorf("Error creating archive: %w", archiveErr)
	}
	if _, seekErr := tarFile.Seek(0, io.SeekStart); seekErr != nil {
		return seekErr
	}

	putErr := client.UploadFile(ctx, bucket, key, tarFile, UploadOptions{ContentType: "application/gzip"})
	if putErr != nil {
		log.Warn("Archive upload error: ", putErr)
		return putErr
	}
	log.Info(fmt.Sprintf("Uploaded archive to %s/%s", bucket, key))

	return nil
}
