package main

import (
	"github.com/caseboard/ufdr/backend/internal/server"
	"github.com/caseboard/ufdr/backend/internal/util"
	"github.com/caseboard/ufdr/backend/pkg/logger"
	"github.com/caseboard/ufdr/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
