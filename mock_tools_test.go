package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type mockFileInfo struct {
	timestamp time.Time
	isDir     bool
	size      int64
}

func (f mockFileInfo) Name() string       { return "mockfile" }
func (f mockFileInfo) Size() int64        { return f.size }
func (f mockFileInfo) Mode() fs.FileMode  { return fs.ModePerm }
func (f mockFileInfo) ModTime() time.Time { return f.timestamp }
func (f mockFileInfo) IsDir() bool        { return f.isDir }
func (f mockFileInfo) Sys() any           { return nil }

type syncCall struct {
	SrcDir string
	Bucket string
	Opts   SyncOptions
	// Files is the source directory contents at the time of the call
	Files map[string]string
}

type mockSyncTool struct {
	SyncCalls   []syncCall
	RemoveCalls []string
	SyncErr     error
	RemoveErr   error
}

func (m *mockSyncTool) Sync(ctx context.Context, srcDir, bucket string, opts SyncOptions) error {
	files := make(map[string]string)
	filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		rel, _ := filepath.Rel(srcDir, path)
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	m.SyncCalls = append(m.SyncCalls, syncCall{SrcDir: srcDir, Bucket: bucket, Opts: opts, Files: files})

	return m.SyncErr
}

func (m *mockSyncTool) RemoveRecursive(ctx context.Context, bucket string) error {
	m.RemoveCalls = append(m.RemoveCalls, bucket)
	return m.RemoveErr
}

type mockRunner struct {
	Calls  [][]string
	Output string
	Err    error
}

func (m *mockRunner) Run(ctx context.Context, program string, args ...string) (string, error) {
	m.Calls = append(m.Calls, append([]string{program}, args...))
	return m.Output, m.Err
}

func (m *mockRunner) LastCall() string {
	if len(m.Calls) == 0 {
		return ""
	}
	return strings.Join(m.Calls[len(m.Calls)-1], " ")
}

type MockSNSClient struct {
	PublishRequests []*sns.PublishInput
	PublishErr      error
}

func (c *MockSNSClient) PublishMessage(ctx context.Context, msg *sns.PublishInput) error {
	c.PublishRequests = append(c.PublishRequests, msg)
	return c.PublishErr
}

func NewMockSNSClient() *MockSNSClient {
	return &MockSNSClient{
		PublishRequests: make([]*sns.PublishInput, 0),
	}
}
