package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRunsCreateThenUpdateOnChange(t *testing.T) {
	mockClient := NewMockClient(nil)
	mockClient.Archive = buildArchive(t, map[string]string{"index.html": "v1"})
	mockClient.ETag = "etag-1"
	tool := &mockSyncTool{}
	watcher := NewWatcher(mockClient, newTestHandler(t, mockClient, tool, nil))
	wc := WatchConfig{Bucket: "my-bucket", ArchiveKey: "site.tar.gz", ObjectAcl: "public-read"}

	require.NoError(t, watcher.Check(context.Background(), wc))
	require.Len(t, tool.SyncCalls, 1)
	assert.Equal(t, "public-read", tool.SyncCalls[0].Opts.ACL)

	require.NoError(t, watcher.Check(context.Background(), wc))
	assert.Len(t, tool.SyncCalls, 1)

	mockClient.Archive = buildArchive(t, map[string]string{"index.html": "v2"})
	mockClient.ETag = "etag-2"
	require.NoError(t, watcher.Check(context.Background(), wc))
	require.Len(t, tool.SyncCalls, 2)
	assert.Equal(t, map[string]string{"index.html": "v2"}, tool.SyncCalls[1].Files)
}

func TestWatcherSkipsMissingArchive(t *testing.T) {
	mockClient := NewMockClient(nil)
	mockClient.HeadErr = errors.New("NotFound")
	tool := &mockSyncTool{}
	watcher := NewWatcher(mockClient, newTestHandler(t, mockClient, tool, nil))

	err := watcher.Check(context.Background(), WatchConfig{Bucket: "my-bucket", ArchiveKey: "site.tar.gz"})

	assert.Error(t, err)
	assert.Equal(t, 1, mockClient.HeadCalls)
	assert.Empty(t, tool.SyncCalls)
}

func TestWatcherRetriesAfterFailedSync(t *testing.T) {
	mockClient := NewMockClient(nil)
	mockClient.Archive = buildArchive(t, map[string]string{"index.html": "v1"})
	mockClient.ETag = "etag-1"
	tool := &mockSyncTool{SyncErr: errors.New("throttled")}
	watcher := NewWatcher(mockClient, newTestHandler(t, mockClient, tool, nil))
	wc := WatchConfig{Bucket: "my-bucket", ArchiveKey: "site.tar.gz"}

	assert.Error(t, watcher.Check(context.Background(), wc))

	tool.SyncErr = nil
	assert.NoError(t, watcher.Check(context.Background(), wc))
	assert.Len(t, tool.SyncCalls, 2)
}

func TestWatcherSchedule(t *testing.T) {
	mockClient := NewMockClient(nil)
	watcher := NewWatcher(mockClient, newTestHandler(t, mockClient, &mockSyncTool{}, nil))

	scheduler, err := watcher.Schedule(context.Background(), []WatchConfig{
		{Bucket: "a", ArchiveKey: "a.tar.gz", Interval: 30},
		{Bucket: "b", ArchiveKey: "b.tar.gz"},
	})

	require.NoError(t, err)
	assert.Len(t, scheduler.Jobs(), 2)
}
