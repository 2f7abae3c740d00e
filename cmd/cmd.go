// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable styled output",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "1-based page of results to show",
		Value:   1,
	}
}

func loginFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "login",
		Usage: "Log in to Spotify before running the command",
	}
}

// searchCommand searches tracks and playlists, or shows a linked item.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search tracks & playlists, or look up a track, playlist or artist link",
		ArgsUsage: "<query|link|uri>",
		Flags:  append([]cli.Flag{pageFlag()}, outputFlags()...),
		Action: r.Search,
	}
}

// accountCommand lists an account's playlists and, for the logged-in account, liked songs.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "account",
		Aliases:   []string{"user"},
		Usage:     "List playlists of a Spotify account, or look up a playlist",
		ArgsUsage: "<user id|profile link|playlist link>",
		Flags:  append([]cli.Flag{pageFlag(), loginFlag()}, outputFlags()...),
		Action: r.Account,
	}
}

// tracksCommand prints every track of a playlist.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tracks",
		Usage:     "List all tracks of a playlist",
		ArgsUsage: "<playlist link|uri|id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist"},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "account",
				Usage: "Account the playlist belongs to (uses the session for private playlists)",
			},
			loginFlag(),
		}, outputFlags()...),
		Action: r.Tracks,
	}
}

// likedCommand lists or converts the logged-in account's liked songs.
func likedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "liked",
		Usage: "List liked songs of the logged-in account",
		Flags: append([]cli.Flag{
			pageFlag(),
			&cli.BoolFlag{
				Name:  "convert",
				Usage: "Convert the shown page of liked songs",
			},
		}, outputFlags()...),
		Action: r.Liked,
	}
}

// convertCommand downloads a track or playlist as MP3 files.
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Aliases:   []string{"dl"},
		Usage:     "Convert a track or playlist to MP3",
		ArgsUsage: "<link|uri|search term>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "account",
				Usage: "Account that owns the playlist (uses the session for private playlists)",
			},
			loginFlag(),
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent downloads (defaults to downloads.workers)",
			},
			&cli.BoolFlag{
				Name:  "m3u",
				Usage: "Write an M3U playlist file next to the tracks",
			},
			&cli.IntFlag{
				Name:  "pick",
				Usage: "For search text, convert the n-th track result instead of the first",
				Value: 1,
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Write a conversion report to this path",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format: csv, markdown or txt",
				Value: "markdown",
			},
		},
		Action: r.Convert,
	}
}

// loginCommand runs the browser authorization flow.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Authenticate with Spotify using OAuth2",
		Action: r.Login,
	}
}

// browseCommand starts the interactive prompt.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Interactive search, account browsing & conversion",
		Action: r.Browse,
	}
}

func historyListFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of conversions to list",
			Value:   20,
		},
		&cli.StringFlag{
			Name:  "reference",
			Usage: "Only conversions of this link, URI or search term",
		},
	}, outputFlags()...)
}

// historyCommand inspects past conversions.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past conversions",
		Flags: historyListFlags(),
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recent conversions",
				Flags:  historyListFlags(),
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show one conversion with its tracks",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a conversion record",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
		Action: r.HistoryList,
	}
}

// setupCommand initializes local state.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database & yt-dlp",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the history database and run migrations",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "rollback", Usage: "Roll back the latest migration"}},
				Action: r.SetupDatabase,
			},
			{
				Name:   "ytdlp",
				Usage:  "Download the pinned yt-dlp binary",
				Action: r.SetupYTDLP,
			},
		},
		Action: r.Setup,
	}
}
