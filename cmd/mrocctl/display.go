package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"

	"github.com/mroc/live-display/pkg/control"
	"github.com/mroc/live-display/pkg/display"
	"github.com/mroc/live-display/pkg/relayclient"
	"github.com/mroc/live-display/repos/store"
)

func newDisplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "display",
		Usage: "run a headless display that prints every screen change",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "state-file",
				Usage: "YAML file the last screen state is kept in",
				Value: "display-state.yaml",
			},
			&cli.StringFlag{
				Name:    "project",
				Usage:   "Firebase project to read team and schedule data from",
				EnvVars: []string{"FIREBASE_PROJECT_ID"},
			},
			&cli.StringFlag{
				Name:    "credentials-json",
				EnvVars: []string{"FIREBASE_CREDENTIALS_JSON"},
			},
			&cli.StringFlag{
				Name:  "event",
				Usage: "event whose schedule titles the matches",
			},
		},
		Action: runDisplay,
	}
}

func runDisplay(c *cli.Context) error {
	logger := newLogger(c)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := display.NewState(nil)
	stateFile := c.String("state-file")
	snap, ok, err := display.LoadFile(stateFile)
	if err != nil {
		logger.Warn("Ignoring display state file", slog.String("path", stateFile), slog.Any("error", err))
	} else if ok {
		state.Restore(snap)
		logger.Info("Restored display state", slog.String("path", stateFile))
	}

	// redraw serializes every state change and keeps the fallback file current.
	changes := make(chan struct{}, 1)
	redraw := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	if project := c.String("project"); project != "" {
		closeWatches, err := watchStore(ctx, project, c.String("credentials-json"), c.String("event"), state, redraw, logger)
		if err != nil {
			return err
		}
		defer closeWatches()
	}

	client := relayclient.New(c.String("relay"), logger)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	unsubscribe := client.Subscribe(func(m control.Message) {
		if err := state.Apply(m); err != nil {
			logger.Warn("Ignoring control message", slog.String("event", string(m.Event())), slog.Any("error", err))
			return
		}
		redraw()
	})
	defer unsubscribe()

	redraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return fmt.Errorf("relay connection closed")
		case <-changes:
			if err := display.SaveFile(stateFile, state.Snapshot()); err != nil {
				logger.Warn("Failed to save display state", slog.Any("error", err))
			}
			render(os.Stdout, state.Screen())
		}
	}
}

// watchStore feeds live team and schedule data into state.
func watchStore(ctx context.Context, project, credentialsJSON, eventKey string, state *display.State, changed func(), logger *slog.Logger) (func(), error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: project}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	s := store.NewService(client, logger)

	stopTeams := s.WatchTeams(ctx, func(teams []store.Team, err error) {
		if err != nil {
			logger.Warn("Team watch failed", slog.Any("error", err))
			return
		}
		state.SetTeams(teams)
		changed()
	})
	stopSchedule := func() {}
	if eventKey != "" {
		stopSchedule = s.WatchSchedule(ctx, eventKey, func(schedule *store.EventSchedule, err error) {
			if err != nil {
				logger.Warn("Schedule watch failed", slog.Any("error", err))
				return
			}
			if schedule == nil {
				state.SetSchedule(nil)
			} else {
				state.SetSchedule(schedule.Matches)
			}
			changed()
		})
	}

	return func() {
		stopTeams()
		stopSchedule()
		client.Close()
	}, nil
}

func render(w io.Writer, screen display.Screen) {
	header := fmt.Sprintf("[%s]", screen.Mode)
	if screen.Title != "" {
		header += " " + screen.Title
	}
	fmt.Fprintln(w, header)

	switch screen.Mode {
	case control.ModeAll:
		fmt.Fprintf(w, "  blue: %s\n", cardList(screen.Blue))
		fmt.Fprintf(w, "  red:  %s\n", cardList(screen.Red))
	case control.ModeAlliance:
		fmt.Fprintf(w, "  %s: %s\n", screen.Alliance, cardList(screen.Teams))
	case control.ModeRobot:
		if screen.Robot == nil {
			fmt.Fprintf(w, "  %s: no team in this slot\n", screen.Alliance)
			return
		}
		fmt.Fprintf(w, "  %s: %s\n", screen.Alliance, cardLine(*screen.Robot))
		if screen.Robot.Notes != "" {
			fmt.Fprintf(w, "  notes: %s\n", screen.Robot.Notes)
		}
	case control.ModeRankings:
		fmt.Fprintf(w, "  page %d of %d", screen.Page+1, screen.Pages)
		if screen.RankingsUpdated != "" {
			fmt.Fprintf(w, ", updated %s", screen.RankingsUpdated)
		}
		fmt.Fprintln(w)
		for _, card := range screen.Rankings {
			rank := "-"
			if card.Rank != nil {
				rank = fmt.Sprint(*card.Rank)
			}
			fmt.Fprintf(w, "  %3s  %s\n", rank, cardLine(card))
		}
	case control.ModeGreenScreen:
	}
}

func cardList(cards []display.TeamCard) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = cardLine(card)
	}
	return strings.Join(parts, " | ")
}

func cardLine(card display.TeamCard) string {
	line := card.Number
	if card.Name != "" {
		line += " " + card.Name
	}
	if card.Record != nil {
		line += fmt.Sprintf(" (%d-%d-%d)", card.Record.Wins, card.Record.Losses, card.Record.Ties)
	}
	return line
}
