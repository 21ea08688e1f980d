package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "archivesync"
	app.Usage = "expand an archive object into a bucket, or empty a bucket"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "configuration file path",
			EnvVar: envPrefix + "_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "perform a single Create, Update or Delete",
			ArgsUsage: "ACTION BUCKET [ARCHIVE_KEY [OBJECT_ACL]]",
			Action:    runCommand,
		},
		{
			Name:  "publish",
			Usage: "pack a local directory and upload it as the bucket's archive",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "source, s", Usage: "directory to publish"},
				cli.StringFlag{Name: "bucket, b", Usage: "target bucket"},
				cli.StringFlag{Name: "key, k", Value: defaultArchiveKey, Usage: "object key of the archive"},
				cli.StringFlag{Name: "acl", Usage: "canned ACL for synced objects"},
				cli.BoolFlag{Name: "sync", Usage: "expand the archive into the bucket after uploading"},
			},
			Action: publishCommand,
		},
		{
			Name:   "watch",
			Usage:  "re-sync configured archives whenever they change",
			Action: watchCommand,
		},
	}

	return app
}

type appContext struct {
	config  AppConfig
	handler *SyncHandler
	client  BucketClient
}

func setup(ctx context.Context, c *cli.Context) (*appContext, error) {
	appConfig, configErr := LoadConfig(c.GlobalString("config"))
	if configErr != nil {
		return nil, configErr
	}
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "text"
	}
	if logErr := configureLogging(appConfig.LogLevel, appConfig.LogFormat); logErr != nil {
		return nil, logErr
	}
	log.Info("Config:\n" + strings.Join(appConfig.ConfigStringArray(), "\n"))

	handler, client, wireErr := NewHandlerFromConfig(ctx, appConfig)
	if wireErr != nil {
		return nil, wireErr
	}

	return &appContext{config: appConfig, handler: handler, client: client}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("usage: run ACTION BUCKET [ARCHIVE_KEY [OBJECT_ACL]]", 2)
	}
	ctx, cancel := signalContext()
	defer cancel()

	app, setupErr := setup(ctx, c)
	if setupErr != nil {
		return setupErr
	}

	return app.handler.Handle(ctx, InvocationRequest{
		Action:     Action(c.Args().Get(0)),
		Bucket:     c.Args().Get(1),
		ArchiveKey: c.Args().Get(2),
		ObjectACL:  c.Args().Get(3),
	})
}

func publishCommand(c *cli.Context) error {
	if c.String("source") == "" || c.String("bucket") == "" {
		return cli.NewExitError("publish requires --source and --bucket", 2)
	}
	ctx, cancel := signalContext()
	defer cancel()

	app, setupErr := setup(ctx, c)
	if setupErr != nil {
		return setupErr
	}

	bucket, key := c.String("bucket"), c.String("key")
	if publishErr := publishDirectory(ctx, app.client, c.String("source"), bucket, key); publishErr != nil {
		return publishErr
	}
	if !c.Bool("sync") {
		return nil
	}

	return app.handler.Handle(ctx, InvocationRequest{
		Action:     ActionCreate,
		Bucket:     bucket,
		ArchiveKey: key,
		ObjectACL:  c.String("acl"),
	})
}

func watchCommand(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, setupErr := setup(ctx, c)
	if setupErr != nil {
		return setupErr
	}
	if len(app.config.Watch) == 0 {
		return fmt.Errorf("No archives configured to watch")
	}

	watcher := NewWatcher(app.client, app.handler)
	scheduler, scheduleErr := watcher.Schedule(ctx, app.config.Watch)
	if scheduleErr != nil {
		return scheduleErr
	}
	scheduler.StartAsync()
	<-ctx.Done()
	log.Info("Stopping watch")
	scheduler.Stop()

	return nil
}
