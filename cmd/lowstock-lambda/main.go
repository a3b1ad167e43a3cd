// Command lowstock-lambda consumes the table's DynamoDB stream and raises a
// replenishment suggestion whenever an inventory level crosses down to its
// reorder point.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/stockroomhq/stockroom/internal/config"
	"github.com/stockroomhq/stockroom/pkg/logger"
	"github.com/stockroomhq/stockroom/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})

	watcher := stream.NewWatcher(stream.LogNotifier{Log: log}, log)
	lambda.Start(watcher.HandleStream)
}
