package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"
)

// HandleEvent is the function runtime entry point.
func (s *SyncHandler) HandleEvent(ctx context.Context, event InvocationEvent) error {
	log.Info(fmt.Sprintf("event: %+v", event))
	return s.Handle(ctx, event.Request())
}

func startLambda(handler *SyncHandler) {
	lambda.StartWithOptions(handler.HandleEvent, lambda.WithEnableSIGTERM(func() {
		log.Info("Runtime is shutting down")
	}))
}
