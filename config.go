package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/configor"
)

const envPrefix = "ARCHIVESYNC"

type AppConfig struct {
	Provider    ProviderConfig
	SyncTool    string `default:"cli"`
	CLIPath     string
	Concurrency int `default:"4"`
	Retry       RetryConfig
	Notify      NotifyConfig
	LogLevel    string `default:"info"`
	LogFormat   string
	TempDir     string
	Watch       []WatchConfig
}

type ProviderConfig struct {
	Name    string `default:"aws"`
	Region  string
	Profile string
}

type RetryConfig struct {
	Attempts        int `default:"60"`
	IntervalSeconds int `default:"1"`
}

type NotifyConfig struct {
	Topic   string
	Region  string
	Profile string
}

type WatchConfig struct {
	Bucket     string `required:"true"`
	ArchiveKey string `required:"true"`
	ObjectAcl  string
	// Interval is the polling period in seconds
	Interval int `default:"60"`
}

// LoadConfig reads the optional config file and then ARCHIVESYNC_*
// environment variables on top of it.
func LoadConfig(configFilePath string) (AppConfig, error) {
	var appConfig AppConfig

	files := make([]string, 0, 1)
	if configFilePath != "" {
		files = append(files, configFilePath)
	}
	loader := configor.New(&configor.Config{ENVPrefix: envPrefix})
	if configErr := loader.Load(&appConfig, files...); configErr != nil {
		return appConfig, fmt.Errorf("Error loading config: %w", configErr)
	}

	return appConfig, nil
}

func (c AppConfig) RetryPolicy() RetryPolicy {
	policy := DefaultRetryPolicy()
	if c.Retry.Attempts > 0 {
		policy.Attempts = c.Retry.Attempts
	}
	if c.Retry.IntervalSeconds > 0 {
		policy.Interval = time.Duration(c.Retry.IntervalSeconds) * time.Second
	}

	return policy
}

func (c AppConfig) ClientFromConfig(ctx context.Context) (BucketClient, error) {
	var bucketClient BucketClient

	switch c.Provider.Name {
	case "aws":
		return NewS3BucketClient(ctx, c)
	case "gcp":
		return NewGCSBucketClient(ctx)
	default:
		return bucketClient, fmt.Errorf("Unknown cloud provider: %s", c.Provider.Name)
	}
}

func (c AppConfig) SyncToolFromConfig(client BucketClient, runner CommandRunner) (SyncTool, error) {
	switch c.SyncTool {
	case "native":
		return NewNativeSyncTool(client, c.Concurrency), nil
	case "cli":
		switch c.Provider.Name {
		case "aws":
			return NewAWSCLI(runner, c.CLIPath), nil
		case "gcp":
			return NewGSUtil(runner, c.CLIPath), nil
		}
		return nil, fmt.Errorf("Unknown cloud provider: %s", c.Provider.Name)
	default:
		return nil, fmt.Errorf("Unknown sync tool: %s", c.SyncTool)
	}
}

// NotifierFromConfig returns nil when no topic is configured.
func (c AppConfig) NotifierFromConfig(ctx context.Context) (Notifier, error) {
	if c.Notify.Topic == "" {
		return nil, nil
	}
	return NewSNSNotifier(ctx, c)
}

// NewHandlerFromConfig wires every collaborator the handler needs.
func NewHandlerFromConfig(ctx context.Context, c AppConfig) (*SyncHandler, BucketClient, error) {
	client, clientErr := c.ClientFromConfig(ctx)
	if clientErr != nil {
		return nil, nil, clientErr
	}
	tool, toolErr := c.SyncToolFromConfig(client, ExecRunner{})
	if toolErr != nil {
		return nil, nil, toolErr
	}
	notifier, notifyErr := c.NotifierFromConfig(ctx)
	if notifyErr != nil {
		return nil, nil, fmt.Errorf("Error creating notifier: %w", notifyErr)
	}

	handler := NewSyncHandler(client, tool, c.RetryPolicy(), notifier)
	handler.TempDir = c.TempDir

	return handler, client, nil
}

func (c AppConfig) ConfigStringArray() []string {
	configStrArr := make([]string, 0)
	configStrArr = append(configStrArr, fmt.Sprintf("  - Provider: %s", c.Provider.Name))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Region: %s", c.Provider.Region))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Profile: %s", c.Provider.Profile))
	configStrArr = append(configStrArr, fmt.Sprintf("  - SyncTool: %s", c.SyncTool))
	if c.CLIPath != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - CLIPath: %s", c.CLIPath))
	}
	if c.SyncTool == "native" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - Concurrent Uploads: %d", c.Concurrency))
	}
	configStrArr = append(configStrArr, fmt.Sprintf("  - Retry: %d attempts, %ds apart", c.Retry.Attempts, c.Retry.IntervalSeconds))

	if c.Notify.Topic != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - SNSTopic: %s", c.Notify.Topic))
	}

	if len(c.Watch) > 0 {
		configStrArr = append(configStrArr, "Archives To Watch:")
		for _, watchConfig := range c.Watch {
			configStrArr = append(configStrArr, fmt.Sprintf("%+v", watchConfig))
		}
	}

	return configStrArr
}
