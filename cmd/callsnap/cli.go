package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/ops"
	"github.com/hpungsan/callsnap/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "callsnap",
		Usage:   "Meeting transcripts, summaries and minutes",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(env),
			getCmd(env),
			listCmd(env),
			processCmd(env),
			resummarizeCmd(env),
			transcriptCmd(env),
			summaryCmd(env),
			searchCmd(env),
			exportCmd(env),
			minutesCmd(env),
			captionsCmd(env),
			statsCmd(env),
			statusCmd(env),
			serveCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Schedule a meeting",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Meeting title"},
			&cli.StringFlag{Name: "at", Usage: "Start time (RFC 3339), defaults to now"},
			&cli.StringSliceFlag{Name: "participant", Aliases: []string{"p"}, Usage: `Participant as "Name <email>" (repeatable)`},
			&cli.StringFlag{Name: "video-type", Value: "upload", Usage: "Video source: youtube|vimeo|upload|local"},
			&cli.StringFlag{Name: "video", Usage: "Video URL or file name"},
			&cli.BoolFlag{Name: "offline", Usage: "Mark the recording as available offline"},
			&cli.StringFlag{Name: "style", Usage: "Preferred summary style"},
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Preferred summary language"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CreateInput{
				Title: c.String("title"),
				VideoSource: meeting.VideoSource{
					Type:        meeting.VideoType(c.String("video-type")),
					Value:       c.String("video"),
					OfflineMode: c.Bool("offline"),
				},
				SummaryStyle: c.String("style"),
				Language:     c.String("language"),
			}

			if at := c.String("at"); at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid --at %q: want RFC 3339", at)))
				}
				input.ScheduledAt = t
			}

			for _, raw := range c.StringSlice("participant") {
				p, err := meeting.ParseParticipant(raw)
				if err != nil {
					return outputError(err)
				}
				input.Participants = append(input.Participants, p)
			}

			output, err := ops.Create(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a meeting",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Get(c.Context, env, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List meetings, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: ops.DefaultListLimit, Usage: "Max items"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
			&cli.StringFlag{Name: "status", Usage: "Filter: scheduled|processed"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, env, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
				Status: c.String("status"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// processCmd creates the process command.
func processCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Transcribe a meeting and generate summaries",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Summary style"},
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Summary language"},
			&cli.BoolFlag{Name: "preserve-edits", Usage: "Keep manual transcript and summary edits"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Process(c.Context, env, ops.ProcessInput{
				ID:            c.Args().First(),
				Style:         c.String("style"),
				Language:      c.String("language"),
				PreserveEdits: c.Bool("preserve-edits"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// resummarizeCmd creates the resummarize command.
func resummarizeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "resummarize",
		Usage:     "Regenerate summaries in another style or language",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Summary style"},
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "Summary language"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Resummarize(c.Context, env, ops.ResummarizeInput{
				ID:       c.Args().First(),
				Style:    c.String("style"),
				Language: c.String("language"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// transcriptCmd creates the transcript command.
func transcriptCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "transcript",
		Usage:     "Replace the editable transcript (--text or stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "New transcript text"},
		},
		Action: func(c *cli.Context) error {
			text, err := textInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.SaveTranscript(c.Context, env, ops.SaveTranscriptInput{ID: c.Args().First(), Text: text})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Save a manual summary (--text or stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "Summary text"},
		},
		Action: func(c *cli.Context) error {
			text, err := textInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.SaveSummary(c.Context, env, ops.SaveSummaryInput{ID: c.Args().First(), Text: text})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a meeting's transcript",
		ArgsUsage: "<id> <query...>",
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) < 2 {
				return outputError(errors.NewInvalidRequest("usage: callsnap search <id> <query>"))
			}
			output, err := ops.Search(c.Context, env, ops.SearchInput{
				ID:    args[0],
				Query: strings.Join(args[1:], " "),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Render a processed meeting as txt, md, html, docx, pdf or vtt",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "txt", Usage: "Output format"},
			&cli.StringFlag{Name: "path", Usage: "Write the file here (default dir: ~/.callsnap/exports)"},
			&cli.BoolFlag{Name: "no-chapters", Usage: "Leave out the chapter list"},
			&cli.BoolFlag{Name: "no-action-items", Usage: "Leave out action items"},
		},
		Action: func(c *cli.Context) error {
			chapters := !c.Bool("no-chapters")
			actions := !c.Bool("no-action-items")

			output, err := ops.Export(c.Context, env, ops.ExportInput{
				ID:                 c.Args().First(),
				Format:             c.String("format"),
				IncludeChapters:    &chapters,
				IncludeActionItems: &actions,
				Path:               c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// minutesCmd creates the minutes command.
func minutesCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "minutes",
		Usage:     "Build the minutes email for every participant",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.SendMinutes(c.Context, env, ops.MinutesInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// captionsCmd creates the captions command. Prints raw WebVTT.
func captionsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "captions",
		Usage:     "Print the WebVTT captions of a processed meeting",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Captions(c.Context, env, ops.CaptionsInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			_, err = io.WriteString(c.App.Writer, output.VTT)
			return err
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show dashboard counters",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check the meeting store",
		Action: func(c *cli.Context) error {
			output, err := ops.Status(c.Context, env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Listen address"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config or PORT)"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port == 0 && env.Config != nil {
				port = env.Config.Port
			}
			if port <= 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("port out of range: %d", port)))
			}
			if err := web.Run(web.NewServer(env, c.String("bind"), port)); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to the app's writer as JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	cErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
}

// textInput returns --text, or stdin when it is piped.
func textInput(c *cli.Context) (string, error) {
	if c.IsSet("text") {
		return c.String("text"), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("text must be given with --text or piped via stdin")
	}
	return readStdin()
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
