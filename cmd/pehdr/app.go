package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	pe "github.com/wanglei-coder/pehdr"
	"github.com/wanglei-coder/pehdr/internal/config"
	"github.com/wanglei-coder/pehdr/internal/log"
	"github.com/wanglei-coder/pehdr/internal/report"
)

type settings struct {
	headerMode  bool
	sectionMode bool
	format      string
	readLimit   int
	useMmap     bool
	noColor     bool
	logLevel    string
	configPath  string
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	var s settings

	return &cli.Command{
		Name:      "pehdr",
		Usage:     "Decode and report the headers of a PE/COFF image",
		ArgsUsage: "<file>",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "header", Aliases: []string{"e"}, Usage: "print the header report (default)", Destination: &s.headerMode},
			&cli.BoolFlag{Name: "sections", Aliases: []string{"s"}, Usage: "print the section table report", Destination: &s.sectionMode},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "report format: text or json", Value: "text", Destination: &s.format},
			&cli.IntFlag{Name: "read-limit", Usage: "number of leading bytes to read", Value: pe.DefaultReadLimit, Destination: &s.readLimit},
			&cli.BoolFlag{Name: "mmap", Usage: "read the file through a memory mapping", Destination: &s.useMmap},
			&cli.BoolFlag{Name: "no-color", Usage: "disable coloured output", Destination: &s.noColor},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "info", Destination: &s.logLevel},
			&cli.StringFlag{Name: "config", Usage: "path to config file", Value: config.DefaultPath(), Destination: &s.configPath},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(s.configPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			applyConfig(cmd, cfg, &s)
			log.SetLevel(s.logLevel)

			if cmd.NArg() != 1 {
				return cli.Exit("error: expected exactly one input file", 1)
			}
			if s.headerMode && s.sectionMode {
				return cli.Exit("error: --header and --sections cannot be combined", 1)
			}
			if s.sectionMode {
				return cli.Exit("error: section table report is not implemented", 1)
			}
			if s.format != "text" && s.format != "json" {
				return cli.Exit(fmt.Sprintf("error: unknown format %q", s.format), 1)
			}
			if s.readLimit <= 0 {
				return cli.Exit("error: --read-limit must be positive", 1)
			}

			colored := !color.NoColor && !s.noColor
			return runHeader(ctx, cmd, cmd.Args().First(), s, colored)
		},
	}
}

// applyConfig fills settings from the config file when the matching flag
// was not given on the command line.
func applyConfig(cmd *cli.Command, cfg config.Config, s *settings) {
	if cfg.ReadLimit != nil && !cmd.IsSet("read-limit") {
		s.readLimit = *cfg.ReadLimit
	}
	if cfg.Mmap != nil && !cmd.IsSet("mmap") {
		s.useMmap = *cfg.Mmap
	}
	if cfg.Format != "" && !cmd.IsSet("format") {
		s.format = cfg.Format
	}
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		s.logLevel = cfg.LogLevel
	}
	if cfg.Color != nil && !cmd.IsSet("no-color") {
		s.noColor = !*cfg.Color
	}
}

func runHeader(ctx context.Context, cmd *cli.Command, path string, s settings, colored bool) error {
	logger := log.Log.With().Str("file", path).Logger()

	if err := pe.CheckFilename(path); err != nil {
		logger.Warn().Err(err).Msg("file name does not follow Windows naming rules")
	}

	logger.Debug().Int("read_limit", s.readLimit).Bool("mmap", s.useMmap).Msg("decoding header")
	f, err := pe.NewFile(ctx, path, pe.WithReadLimit(s.readLimit), pe.WithMmap(s.useMmap))
	if err != nil {
		logger.Error().Err(err).Str("kind", pe.Kind(err)).Msg("decode failed")
		report.Failure(cmd.ErrWriter, path, err, colored)
		return cli.Exit("", 1)
	}
	logger.Debug().
		Str("format", f.OptionalHeader.Magic.String()).
		Int("data_directories", len(f.DataDirectories)).
		Msg("header decoded")

	r := report.NewReporter(f)
	r.SetColor(colored)
	if s.format == "json" {
		return r.WriteJSON(cmd.Writer)
	}
	return r.WriteText(cmd.Writer)
}
