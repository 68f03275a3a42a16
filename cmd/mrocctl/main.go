package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

const defaultRelayURL = "ws://localhost:9930/relay/v1/ws"

func main() {
	cliApp := &cli.App{
		Name:  "mrocctl",
		Usage: "drive and watch the live match displays",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "relay",
				Usage:   "relay websocket URL",
				Value:   defaultRelayURL,
				EnvVars: []string{"MROC_RELAY_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			newSetupCommand(),
			newDisplayCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
