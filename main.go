package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	// The function runtime sets this for every invocation environment.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		mainLambda()
		return
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mainLambda() {
	appConfig, configErr := LoadConfig(os.Getenv(envPrefix + "_CONFIG"))
	if configErr != nil {
		panic(configErr)
	}
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "json"
	}
	if logErr := configureLogging(appConfig.LogLevel, appConfig.LogFormat); logErr != nil {
		panic(logErr)
	}

	handler, _, wireErr := NewHandlerFromConfig(context.Background(), appConfig)
	if wireErr != nil {
		panic(wireErr)
	}
	startLambda(handler)
}
