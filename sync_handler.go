package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// SyncHandler expands an archive object into its bucket, or empties the
// bucket on Delete. One handler serves many invocations; it holds no
// per-invocation state.
type SyncHandler struct {
	store    ObjectStore
	tool     SyncTool
	retry    RetryPolicy
	notifier Notifier

	// TempDir is the parent of each invocation's extraction directory.
	// Empty means the OS default.
	TempDir string
}

func NewSyncHandler(store ObjectStore, tool SyncTool, retry RetryPolicy, notifier Notifier) *SyncHandler {
	return &SyncHandler{
		store:    store,
		tool:     tool,
		retry:    retry,
		notifier: notifier,
	}
}

func (s *SyncHandler) Handle(ctx context.Context, req InvocationRequest) (err error) {
	if validateErr := req.Validate(); validateErr != nil {
		log.Warn(fmt.Sprintf("Rejecting request: %s", validateErr))
		return validateErr
	}

	if s.notifier != nil {
		defer func() {
			if notifyErr := s.notifier.NotifyInvocation(ctx, req, err); notifyErr != nil {
				log.Warn(fmt.Sprintf("Error sending notification: %s", notifyErr))
			}
		}()
	}

	if req.Action.Populates() {
		err = s.populate(ctx, req)
	} else {
		err = s.empty(ctx, req)
	}
	if err != nil {
		log.Error(fmt.Sprintf("%s of bucket %s failed: %s", req.Action, req.Bucket, err))
		return err
	}
	log.Info("Done.")

	return nil
}

func (s *SyncHandler) populate(ctx context.Context, req InvocationRequest) error {
	// Access to the bucket may be granted moments before we are invoked and
	// take a while to become visible, so wait for the archive to be readable.
	attempts, headErr := s.retry.Do(ctx, func() error {
		_, err := s.store.HeadObject(ctx, req.Bucket, req.ArchiveKey)
		return err
	}, func(err error, wait time.Duration) {
		log.Debug(fmt.Sprintf("Archive %s/%s not accessible yet, retrying in %s: %s", req.Bucket, req.ArchiveKey, wait, err))
	})
	if headErr != nil {
		return &ObjectAccessError{Op: "head", Bucket: req.Bucket, Key: req.ArchiveKey, Attempts: attempts, Err: headErr}
	}

	log.Info(fmt.Sprintf("Downloading archive %s/%s...", req.Bucket, req.ArchiveKey))
	archiveBytes, getErr := s.store.GetObject(ctx, req.Bucket, req.ArchiveKey)
	if getErr != nil {
		return &ObjectAccessError{Op: "get", Bucket: req.Bucket, Key: req.ArchiveKey, Attempts: 1, Err: getErr}
	}
	log.Info(fmt.Sprintf("Downloaded %d bytes.", len(archiveBytes)))

	tmpArchiveDir, mkErr := os.MkdirTemp(s.TempDir, "archivesync-")
	if mkErr != nil {
		return fmt.Errorf("Error creating extraction directory: %w", mkErr)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpArchiveDir); rmErr != nil {
			log.Warn(fmt.Sprintf("Error removing %s: %s", tmpArchiveDir, rmErr))
		}
	}()

	log.Info(fmt.Sprintf("Decompressing archive to %s...", tmpArchiveDir))
	if extractErr := extractArchive(bytes.NewReader(archiveBytes), tmpArchiveDir); extractErr != nil {
		return extractErr
	}

	// --delete also removes the archive itself when it lives in the target bucket
	log.Info(fmt.Sprintf("Syncing %s to bucket %s...", tmpArchiveDir, req.Bucket))

	return s.tool.Sync(ctx, tmpArchiveDir, req.Bucket, SyncOptions{Delete: true, ACL: req.ObjectACL})
}

// empty removes every object so the bucket's owner can delete the bucket.
func (s *SyncHandler) empty(ctx context.Context, req InvocationRequest) error {
	log.Info(fmt.Sprintf("Deleting all objects in bucket %s...", req.Bucket))
	return s.tool.RemoveRecursive(ctx, req.Bucket)
}
