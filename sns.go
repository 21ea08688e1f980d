package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNS rejects subjects longer than this
const maxSubjectLength = 100

func NewSNSNotifier(ctx context.Context, appConfig AppConfig) (Notifier, error) {
	var notifier Notifier

	cfg, cfgErr := config.LoadDefaultConfig(ctx, awsConfigOptions(appConfig.Notify.Profile, appConfig.Notify.Region)...)
	if cfgErr != nil {
		return notifier, cfgErr
	}
	snsClient := &SNSClient{sns.NewFromConfig(cfg)}
	notifier = &SNSNotifier{Client: snsClient, Topic: appConfig.Notify.Topic}

	return notifier, nil
}

type SNSClientIface interface {
	PublishMessage(ctx context.Context, msg *sns.PublishInput) error
}

type SNSClient struct {
	Client *sns.Client
}

func (s *SNSClient) PublishMessage(ctx context.Context, msg *sns.PublishInput) error {
	_, publishErr := s.Client.Publish(ctx, msg)
	return publishErr
}

type SNSNotifier struct {
	Client SNSClientIface
	Topic  string
}

func (s *SNSNotifier) NotifyInvocation(ctx context.Context, req InvocationRequest, invocationErr error) error {
	var statusString string
	if invocationErr == nil {
		statusString = "succeeded"
	} else {
		statusString = "failed"
	}

	subject := fmt.Sprintf("Sync %s: %s -> %s", statusString, req.Action, req.Bucket)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}
	notificationBody := fmt.Sprintf("Action: %s\n", req.Action)
	notificationBody += fmt.Sprintf("Bucket: %s\n", req.Bucket)
	if req.Action.Populates() {
		notificationBody += fmt.Sprintf("ArchiveKey: %s\n", req.ArchiveKey)
	}
	if req.ObjectACL != "" {
		notificationBody += fmt.Sprintf("ObjectAcl: %s\n", req.ObjectACL)
	}
	notificationBody += fmt.Sprintf("Error: %v\n", invocationErr)

	snsPublishReq := &sns.PublishInput{
		Message:  aws.String(notificationBody),
		TopicArn: aws.String(s.Topic),
		Subject:  aws.String(subject),
	}

	return s.Client.PublishMessage(ctx, snsPublishReq)
}
