package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/llmfiles/internal/config"
	"github.com/jorge-barreto/llmfiles/internal/docs"
	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
	"github.com/jorge-barreto/llmfiles/internal/jsonblock"
	"github.com/jorge-barreto/llmfiles/internal/logging"
	"github.com/jorge-barreto/llmfiles/internal/runner"
	"github.com/jorge-barreto/llmfiles/internal/scaffold"
	"github.com/jorge-barreto/llmfiles/internal/source"
	"github.com/jorge-barreto/llmfiles/internal/ux"
	"github.com/jorge-barreto/llmfiles/internal/workspace"
)

func main() {
	app := &cli.Command{
		Name:        "llmfiles",
		Usage:       "Extract files from LLM output, as it streams",
		Description: "Run 'llmfiles docs' for documentation on the file block grammar, config, and input formats.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn, or error"},
		},
		Commands: []*cli.Command{
			initCmd(),
			extractCmd(),
			streamCmd(),
			jsonCmd(),
			promptCmd(),
			statusCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

// grammarFlags are shared by every command that recognizes file blocks.
func grammarFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "prefix", Usage: "Literal that introduces a file path"},
		&cli.StringFlag{Name: "xml", Usage: "Wrap content in <ELEMENT> tags instead of fences (\"\" forces fences)"},
	}
}

// outputFlags are shared by every command that writes files.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Directory to write files to ($RUN_ID is expanded)"},
		&cli.BoolFlag{Name: "overwrite", Usage: "Replace existing files"},
	}
}

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract file blocks from a complete document",
		ArgsUsage: "[file]",
		Flags: append(append(grammarFlags(), outputFlags()...),
			&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write files instead of printing them"},
			&cli.BoolFlag{Name: "json", Usage: "Print the files as a JSON array"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			text, err := readAll(cmd.Args().First())
			if err != nil {
				return err
			}

			files := fileblocks.Parse(text, env.grammar)
			env.log.Debug().Int("files", len(files)).Msg("parsed document")

			if cmd.Bool("json") {
				if files == nil {
					files = []fileblocks.FileContent{}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			if !cmd.Bool("write") {
				for _, f := range files {
					fmt.Printf("%s%s%s\n%s\n\n", ux.Bold, f.Path, ux.Reset, f.Content)
				}
				return nil
			}

			m := workspace.NewManifest()
			w := env.writer(m.RunID)
			m.Dir = w.Dir
			for _, f := range files {
				entry, err := w.Write(f)
				if err != nil {
					m.Error = err.Error()
					m.Finish(workspace.StatusFailed)
					if saveErr := m.Save(w.Dir); saveErr != nil {
						env.log.Error().Err(saveErr).Msg("saving manifest")
					}
					return err
				}
				m.Add(entry)
				if entry.Skipped == "" {
					fmt.Printf("%s✓%s %s\n", ux.Green, ux.Reset, filepath.Join(w.Dir, entry.Path))
				} else {
					fmt.Printf("%s– %s (%s)%s\n", ux.Dim, entry.Path, entry.Skipped, ux.Reset)
				}
			}
			m.Finish(workspace.StatusCompleted)
			return m.Save(w.Dir)
		},
	}
}

func streamCmd() *cli.Command {
	return &cli.Command{
		Name:      "stream",
		Usage:     "Extract file blocks while a completion streams in",
		ArgsUsage: "[file]",
		Flags: append(append(grammarFlags(), outputFlags()...),
			&cli.StringFlag{Name: "exec", Aliases: []string{"e"}, Usage: "Run CMD with bash and read its stdout"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Input format: raw, stream-json, or sse"},
			&cli.IntFlag{Name: "chunk-size", Usage: "Bytes per read in raw format"},
			&cli.BoolFlag{Name: "raw", Usage: "Mirror model output verbatim"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Parse and report without writing files"},
			&cli.StringFlag{Name: "render", Usage: "Narrative text rendering: plain or markdown"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			m := workspace.NewManifest()
			w := env.writer(m.RunID)
			w.DryRun = cmd.Bool("dry-run")

			display, err := ux.NewDisplay(os.Stdout, ux.Options{
				Raw:      cmd.Bool("raw"),
				Markdown: env.cfg.Render == config.RenderMarkdown,
				Color:    logging.IsTerminal(os.Stdout),
			})
			if err != nil {
				return err
			}

			r := &runner.Runner{
				Grammar:  env.grammar,
				Writer:   w,
				Display:  display,
				Log:      env.log,
				Manifest: m,
			}

			if command := cmd.String("exec"); command != "" {
				return runExec(ctx, r, env, command)
			}

			in, err := openInput(cmd.Args().First())
			if err != nil {
				return err
			}
			defer in.Close()
			_, err = r.Run(ctx, env.cfg.Format, in, env.cfg.ChunkSize)
			return err
		},
	}
}

// runExec streams the stdout of command through r. A failed run stops the
// producer.
func runExec(ctx context.Context, r *runner.Runner, env *environment, command string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := source.Preflight(); err != nil {
		return err
	}
	p, err := source.Start(ctx, command, env.root, source.BuildEnv(r.Manifest.RunID, r.Writer.Dir))
	if err != nil {
		return err
	}
	env.log.Debug().Str("command", command).Msg("producer started")

	_, runErr := r.Run(ctx, env.cfg.Format, p.Stdout, env.cfg.ChunkSize)
	if runErr != nil {
		cancel()
	}
	code, waitErr := p.Wait()
	if runErr != nil {
		return runErr
	}
	if waitErr != nil {
		return fmt.Errorf("waiting for producer: %w", waitErr)
	}
	if code != 0 {
		return fmt.Errorf("producer exited with code %d", code)
	}
	return nil
}

func jsonCmd() *cli.Command {
	return &cli.Command{
		Name:      "json",
		Usage:     "Print the first JSON code block of a completion",
		ArgsUsage: "[file]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text, err := readAll(cmd.Args().First())
			if err != nil {
				return err
			}
			var raw json.RawMessage
			if err := jsonblock.Decode(text, &raw); err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(os.Stdout)
			return err
		},
	}
}

func promptCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Print system prompt instructions for the configured grammar",
		Flags: grammarFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			fmt.Print(scaffold.Instructions(env.grammar))
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the manifest of the last run",
		ArgsUsage: "[run-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Output directory to inspect"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			runID := cmd.Args().First()
			if runID == "" && strings.Contains(env.cfg.OutputDir, "RUN_ID") {
				return fmt.Errorf("output-dir %q depends on the run; pass a run id", env.cfg.OutputDir)
			}
			dir := env.outputDir(runID)

			m, err := workspace.LoadManifest(dir)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no runs recorded in %s", dir)
			}
			if err != nil {
				return fmt.Errorf("loading manifest: %w", err)
			}
			ux.RenderManifest(os.Stdout, m, logging.IsTerminal(os.Stdout))
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .llmfiles/ directory with example config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, os.Stdout)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'llmfiles docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// environment is the resolved project, config, and logger for one command.
type environment struct {
	root    string
	cfg     *config.Config
	grammar *fileblocks.Grammar
	log     zerolog.Logger
}

func setup(cmd *cli.Command) (*environment, error) {
	root, err := findProjectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(config.Path(root))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Apply(overrides(cmd)); err != nil {
		return nil, err
	}
	g, err := cfg.Grammar()
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, cfg.LogLevel)
	log.Debug().
		Str("root", root).
		Str("prefix", g.Prefix()).
		Stringer("mode", g.Mode()).
		Str("format", cfg.Format).
		Msg("config loaded")
	return &environment{root: root, cfg: cfg, grammar: g, log: log}, nil
}

func overrides(cmd *cli.Command) config.Overrides {
	o := config.Overrides{
		PathPrefix: cmd.String("prefix"),
		Format:     cmd.String("format"),
		ChunkSize:  int(cmd.Int("chunk-size")),
		OutputDir:  cmd.String("output-dir"),
		Render:     cmd.String("render"),
		LogLevel:   cmd.String("log-level"),
		Overwrite:  cmd.Bool("overwrite"),
	}
	if cmd.IsSet("xml") {
		element := cmd.String("xml")
		o.XMLElement = &element
	}
	return o
}

// outputDir resolves the configured output directory against the project root.
func (e *environment) outputDir(runID string) string {
	dir := workspace.ExpandDir(e.cfg.OutputDir, runID)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(e.root, dir)
	}
	return dir
}

func (e *environment) writer(runID string) *workspace.Writer {
	return &workspace.Writer{
		Dir:       e.outputDir(runID),
		Include:   e.cfg.Include,
		Exclude:   e.cfg.Exclude,
		Overwrite: e.cfg.Overwrite,
	}
}

// openInput opens path, or stdin when path is empty or "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func readAll(path string) (string, error) {
	in, err := openInput(path)
	if err != nil {
		return "", err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// findProjectRoot walks up from cwd looking for .llmfiles/config.yaml. When
// there is none, cwd is the project root and defaults apply.
func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := cwd
	for {
		if _, err := os.Stat(config.Path(dir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}
