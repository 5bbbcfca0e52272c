// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// analyseCommand compares two playlists
func analyseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "analyse",
		Aliases:   []string{"analyze", "a"},
		Usage:     "Compare two playlists and print the report",
		ArgsUsage: "<playlist-a> <playlist-b>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the report as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output (indented JSON or styled tables)",
			},
			&cli.BoolFlag{
				Name:  "tracks",
				Usage: "Include both track tables in terminal output",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the report to history",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Directory to export the report to",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:  "vocabulary",
				Usage: "Vocabulary mode (union, directional); defaults to [analysis] vocabulary",
			},
		},
		Action: r.Analyse,
	}
}

// serveCommand runs the browser UI
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the browser UI and JSON API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on; defaults to [server] host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on; defaults to [server] port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the UI in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File the TUI logs to",
				Value: "./tmp/spa-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// historyCommand manages saved reports
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage saved reports",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved reports, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of reports to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only reports that include this playlist ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Print a saved report",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the report as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "tracks",
						Usage: "Include both track tables",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a saved report",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{configFlag()},
				Action:    r.HistoryDelete,
			},
		},
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file or the history database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml populated with defaults",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}
