package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type SyncOptions struct {
	// Delete removes destination objects that are not in the source
	Delete bool
	ACL    string
}

// SyncTool mirrors a local directory into a bucket and empties buckets.
type SyncTool interface {
	Sync(ctx context.Context, srcDir string, bucket string, opts SyncOptions) error
	RemoveRecursive(ctx context.Context, bucket string) error
}

// AWSCLI drives `aws s3 sync` and `aws s3 rm`.
type AWSCLI struct {
	Runner CommandRunner
	Path   string
}

func NewAWSCLI(runner CommandRunner, path string) *AWSCLI {
	if path == "" {
		path = "aws"
	}
	return &AWSCLI{Runner: runner, Path: path}
}

func (a *AWSCLI) Sync(ctx context.Context, srcDir, bucket string, opts SyncOptions) error {
	syncArgs := []string{"s3", "sync", srcDir, "s3://" + bucket}
	if opts.Delete {
		syncArgs = append(syncArgs, "--delete")
	}
	if opts.ACL != "" {
		log.Info(fmt.Sprintf("Setting object ACLs to %s", opts.ACL))
		syncArgs = append(syncArgs, "--acl", opts.ACL)
	}
	_, err := a.Runner.Run(ctx, a.Path, syncArgs...)

	return err
}

func (a *AWSCLI) RemoveRecursive(ctx context.Context, bucket string) error {
	_, err := a.Runner.Run(ctx, a.Path, "s3", "rm", "s3://"+bucket, "--recursive")
	return err
}

// GSUtil drives `gsutil rsync` and `gsutil rm` for Cloud Storage buckets.
type GSUtil struct {
	Runner CommandRunner
	Path   string
}

func NewGSUtil(runner CommandRunner, path string) *GSUtil {
	if path == "" {
		path = "gsutil"
	}
	return &GSUtil{Runner: runner, Path: path}
}

func (g *GSUtil) Sync(ctx context.Context, srcDir, bucket string, opts SyncOptions) error {
	syncArgs := []string{"-m", "rsync", "-r"}
	if opts.Delete {
		syncArgs = append(syncArgs, "-d")
	}
	if opts.ACL != "" {
		log.Info(fmt.Sprintf("Setting object ACLs to %s", opts.ACL))
		syncArgs = append(syncArgs, "-a", opts.ACL)
	}
	syncArgs = append(syncArgs, srcDir, "gs://"+bucket)
	_, err := g.Runner.Run(ctx, g.Path, syncArgs...)

	return err
}

func (g *GSUtil) RemoveRecursive(ctx context.Context, bucket string) error {
	_, err := g.Runner.Run(ctx, g.Path, "-m", "rm", "-r", "gs://"+bucket+"/**")
	return err
}
