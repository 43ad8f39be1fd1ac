package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"clubrecon/cmd/clear"
	"clubrecon/cmd/export"
	"clubrecon/cmd/manual"
	"clubrecon/cmd/reconcile"
	"clubrecon/cmd/review"
	"clubrecon/cmd/root"
)

func init() {
	// Load environment variables before any logging happens, so LOG_LEVEL
	// from .env takes effect immediately.
	loadEnvSilently()
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(review.Cmd)
	root.Cmd.AddCommand(manual.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(clear.Cmd)
}

// loadEnvSilently loads a .env file from the current or parent directory
// without logging anything.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly applies LOG_LEVEL to the global logrus level so
// loggers created before the configuration file loads honor it too.
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
