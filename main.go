package main

import (
	"log/slog"
	"os"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/cmd"
	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
