package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mroc/live-display/pkg/control"
	"github.com/mroc/live-display/pkg/relayclient"
)

func newSetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "send one control message to every display",
		Subcommands: []*cli.Command{
			{
				Name:  "match",
				Usage: "show a match: --number 12 --blue 118,148,1678 --red 254,1114,2056",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Required: true},
					&cli.StringFlag{Name: "event"},
					&cli.StringFlag{Name: "blue", Required: true},
					&cli.StringFlag{Name: "red", Required: true},
				},
				Action: func(c *cli.Context) error {
					m, err := matchMessage(c.String("number"), c.String("event"), c.String("blue"), c.String("red"))
					if err != nil {
						return err
					}
					return send(c, m)
				},
			},
			{
				Name:      "view",
				Usage:     "switch the view mode",
				ArgsUsage: "all|alliance|robot|rankings|greenscreen",
				Action: func(c *cli.Context) error {
					m, err := viewMessage(c.Args().First())
					if err != nil {
						return err
					}
					return send(c, m)
				},
			},
			{
				Name:      "alliance",
				Usage:     "show one alliance",
				ArgsUsage: "blue|red",
				Action: func(c *cli.Context) error {
					m, err := allianceMessage(c.Args().First())
					if err != nil {
						return err
					}
					return send(c, m)
				},
			},
			{
				Name:      "robot",
				Usage:     "show one robot",
				ArgsUsage: "blue|red 0-2",
				Action: func(c *cli.Context) error {
					m, err := robotMessage(c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					return send(c, m)
				},
			},
			{
				Name:      "page",
				Usage:     "switch the rankings page",
				ArgsUsage: "page",
				Action: func(c *cli.Context) error {
					m, err := pageMessage(c.Args().First())
					if err != nil {
						return err
					}
					return send(c, m)
				},
			},
		},
	}
}

func send(c *cli.Context, m control.Message) error {
	client := relayclient.New(c.String("relay"), newLogger(c))
	if err := client.Connect(c.Context); err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.Send(m); err != nil {
		return err
	}
	fmt.Printf("Sent %s\n", m.Event())
	return nil
}

func teamList(raw string) []string {
	var out []string
	for _, team := range strings.Split(raw, ",") {
		if team = strings.TrimSpace(team); team != "" {
			out = append(out, strings.TrimPrefix(team, "frc"))
		}
	}
	return out
}

func matchMessage(number, event, blue, red string) (control.Message, error) {
	if number == "" {
		return nil, fmt.Errorf("match number is required")
	}
	m := control.MatchData{
		MatchNumber: number,
		EventKey:    event,
		BlueTeams:   teamList(blue),
		RedTeams:    teamList(red),
	}
	if len(m.BlueTeams) > 3 || len(m.RedTeams) > 3 {
		return nil, fmt.Errorf("an alliance has at most three teams")
	}
	return m, nil
}

func viewMessage(mode string) (control.Message, error) {
	m := control.ViewModeChange{Mode: control.ViewMode(mode)}
	if !m.Mode.Valid() {
		return nil, fmt.Errorf("unknown view mode %q", mode)
	}
	return m, nil
}

func allianceMessage(alliance string) (control.Message, error) {
	m := control.AllianceSelection{Alliance: control.Alliance(alliance)}
	if !m.Alliance.Valid() {
		return nil, fmt.Errorf("unknown alliance %q", alliance)
	}
	return m, nil
}

func robotMessage(alliance, index string) (control.Message, error) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i > 2 {
		return nil, fmt.Errorf("robot index must be 0, 1 or 2, got %q", index)
	}
	m := control.RobotSelection{Alliance: control.Alliance(alliance), TeamIndex: i}
	if !m.Alliance.Valid() {
		return nil, fmt.Errorf("unknown alliance %q", alliance)
	}
	return m, nil
}

func pageMessage(page string) (control.Message, error) {
	p, err := strconv.Atoi(page)
	if err != nil || p < 0 {
		return nil, fmt.Errorf("page must be a non-negative number, got %q", page)
	}
	return control.RankingsPageChange{Page: p}, nil
}
