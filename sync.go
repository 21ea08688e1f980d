package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// swapped out by tests to stub filesystem walks
	concreteWalkFunc walkFunc = walkDirectory
)

type ObjectRequests struct {
	DeleteKeys []string
	// UploadKeys maps object key to local path
	UploadKeys map[string]string
}

type ResultMap struct {
	Upload map[string]error
	Delete map[string]error
	lock   *sync.Mutex
}

func newResultMap() *ResultMap {
	return &ResultMap{
		Upload: make(map[string]error),
		Delete: make(map[string]error),
		lock:   new(sync.Mutex),
	}
}

func (r *ResultMap) AddUploadResult(key string, result error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Upload[key] = result
}

func (r *ResultMap) AddDeleteResult(key string, result error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Delete[key] = result
}

// Failed returns every key whose upload or delete returned an error.
func (r *ResultMap) Failed() map[string]error {
	r.lock.Lock()
	defer r.lock.Unlock()

	failed := make(map[string]error)
	for key, err := range r.Upload {
		if err != nil {
			failed[key] = err
		}
	}
	for key, err := range r.Delete {
		if err != nil {
			failed[key] = err
		}
	}

	return failed
}

// NativeSyncTool mirrors directories through the object store SDK
// instead of an external CLI.
type NativeSyncTool struct {
	Client    BucketClient
	semaphore chan int
}

func NewNativeSyncTool(client BucketClient, concurrency int) *NativeSyncTool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &NativeSyncTool{
		Client:    client,
		semaphore: make(chan int, concurrency),
	}
}

func (n *NativeSyncTool) Sync(ctx context.Context, srcDir, bucket string, opts SyncOptions) error {
	resultMap, err := n.doSync(ctx, srcDir, bucket, opts)
	if err != nil {
		return err
	}
	if failed := resultMap.Failed(); len(failed) > 0 {
		return &SyncError{Bucket: bucket, Failed: failed}
	}

	return nil
}

func (n *NativeSyncTool) RemoveRecursive(ctx context.Context, bucket string) error {
	bucketFiles, listErr := n.Client.ListObjects(ctx, bucket)
	if listErr != nil {
		return fmt.Errorf("Error listing bucket %s: %w", bucket, listErr)
	}

	resultMap := newResultMap()
	var wg sync.WaitGroup
	for key := range bucketFiles {
		wg.Add(1)
		go n.doDeleteObject(ctx, bucket, key, &wg, resultMap)
	}
	wg.Wait()
	log.Info(fmt.Sprintf("Deleted %d objects from bucket %s", len(bucketFiles), bucket))

	if failed := resultMap.Failed(); len(failed) > 0 {
		return &SyncError{Bucket: bucket, Failed: failed}
	}

	return nil
}

func (n *NativeSyncTool) doSync(ctx context.Context, srcDir, bucket string, opts SyncOptions) (*ResultMap, error) {
	resultMap := newResultMap()
	log.Info(fmt.Sprintf("Sync starting for %s.", srcDir))
	syncStartTime := time.Now()

	bucketFiles, listBucketErr := n.Client.ListObjects(ctx, bucket)
	if listBucketErr != nil {
		log.Warn(fmt.Sprintf("listBucket err: %s", listBucketErr))
		return resultMap, fmt.Errorf("Error listing bucket %s: %w", bucket, listBucketErr)
	}
	localFiles, listLocalFilesErr := concreteWalkFunc(srcDir)
	if listLocalFilesErr != nil {
		log.Warn(fmt.Sprintf("listLocalFilesErr: %s", listLocalFilesErr))
		return resultMap, fmt.Errorf("Error walking local directory: %w", listLocalFilesErr)
	}

	objectRequests := planObjectRequests(srcDir, localFiles, bucketFiles, opts)
	n.syncObjectRequests(ctx, objectRequests, resultMap, bucket, opts)

	duration := time.Since(syncStartTime)
	log.Info(fmt.Sprintf("Sync complete for %s. Took %s", srcDir, duration.String()))

	return resultMap, nil
}

func planObjectRequests(
	srcDir string,
	localFiles map[string]os.FileInfo,
	bucketFiles map[string]ObjectInfo,
	opts SyncOptions,
) ObjectRequests {
	objectRequests := ObjectRequests{
		DeleteKeys: make([]string, 0),
		UploadKeys: make(map[string]string),
	}

	localKeys := make(map[string]bool, len(localFiles))
	for localPath, localFileInfo := range localFiles {
		relPath, relErr := filepath.Rel(srcDir, localPath)
		if relErr != nil {
			log.Warn(fmt.Sprintf("%s is outside %s, skipping", localPath, srcDir))
			continue
		}
		uploadKey := filepath.ToSlash(relPath)
		localKeys[uploadKey] = true

		// The store stamps its own modification time on upload, so a remote
		// copy that is at least as new as the local file with the same size
		// is considered in sync.
		remoteObj, ok := bucketFiles[uploadKey]
		if !ok {
			objectRequests.UploadKeys[uploadKey] = localPath
		} else {
			timeSinceUpdate := remoteObj.ModTime.Sub(localFileInfo.ModTime())
			if timeSinceUpdate < 0 || localFileInfo.Size() != remoteObj.Size {
				log.Info(fmt.Sprintf("%s has been modified, will update", localPath))
				objectRequests.UploadKeys[uploadKey] = localPath
			} else {
				log.Debug(fmt.Sprintf("%s is in sync, no action required", localPath))
			}
		}
	}

	if opts.Delete {
		for key := range bucketFiles {
			if !localKeys[key] {
				objectRequests.DeleteKeys = append(objectRequests.DeleteKeys, key)
			}
		}
	}

	return objectRequests
}

func (n *NativeSyncTool) syncObjectRequests(
	ctx context.Context,
	objReqs ObjectRequests,
	resultMap *ResultMap,
	destBucket string,
	opts SyncOptions,
) {
	var wg sync.WaitGroup

	for fileKey, filePath := range objReqs.UploadKeys {
		wg.Add(1)
		go n.doUploadFile(ctx, destBucket, fileKey, filePath, opts.ACL, &wg, resultMap)
	}

	for _, key := range objReqs.DeleteKeys {
		wg.Add(1)
		go n.doDeleteObject(ctx, destBucket, key, &wg, resultMap)
	}

	wg.Wait()
}

func (n *NativeSyncTool) doUploadFile(
	ctx context.Context,
	bucket, key, filePath, acl string,
	wg *sync.WaitGroup,
	resultMap *ResultMap,
) error {
	defer wg.Done()
	resultMap.AddUploadResult(key, nil)
	n.semaphore <- 1
	defer func() { <-n.semaphore }()

	fd, fileErr := os.Open(filePath)
	if fileErr != nil {
		resultMap.AddUploadResult(key, fileErr)
		return fileErr
	}
	defer fd.Close()

	uploadErr := n.Client.UploadFile(ctx, bucket, key, fd, UploadOptions{
		ACL:         acl,
		ContentType: contentTypeFor(filePath),
	})
	if uploadErr != nil {
		log.Warn(fmt.Sprintf("Error uploading %s: %s", key, uploadErr))
		resultMap.AddUploadResult(key, uploadErr)
	} else {
		log.Info(fmt.Sprintf("Uploaded file %s as key %s", filePath, key))
	}

	return uploadErr
}

func (n *NativeSyncTool) doDeleteObject(
	ctx context.Context,
	bucket, key string,
	wg *sync.WaitGroup,
	resultMap *ResultMap,
) error {
	defer wg.Done()
	resultMap.AddDeleteResult(key, nil)
	n.semaphore <- 1
	defer func() { <-n.semaphore }()

	delErr := n.Client.DeleteObject(ctx, bucket, key)
	if delErr != nil {
		log.Warn(fmt.Sprintf("Error deleting: %s", delErr))
		resultMap.AddDeleteResult(key, delErr)
	} else {
		log.Info(fmt.Sprintf("Deleted %s from bucket %s", key, bucket))
	}

	return delErr
}
