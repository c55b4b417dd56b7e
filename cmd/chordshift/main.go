// Command chordshift transposes chord sheets from one key to another.
//
//	chordshift -f D -t C song.txt
//
// With no command, arguments are taken as a transpose invocation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/ChordShift/core/cas"
	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/musicxml"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
	"github.com/FocuswithJustin/ChordShift/core/transpose"
	"github.com/FocuswithJustin/ChordShift/internal/api"
	"github.com/FocuswithJustin/ChordShift/internal/history"
	"github.com/FocuswithJustin/ChordShift/internal/logging"
	"github.com/FocuswithJustin/ChordShift/internal/validation"
)

// Globals are flags shared by every command.
type Globals struct {
	Verbose   bool   `short:"v" help:"Log each chord match to stderr"`
	LogFormat string `name:"log-format" help:"Log format (text or json)" enum:"text,json" default:"text"`
}

// AfterApply configures the default logger once flags are parsed.
func (g *Globals) AfterApply(ctx *kong.Context) error {
	level := logging.LevelWarn
	if g.Verbose {
		level = logging.LevelDebug
	}
	logging.SetLogger(logging.New(ctx.Stderr, level, logging.ParseFormat(g.LogFormat)))
	return nil
}

// CLI defines the command-line interface for chordshift.
type CLI struct {
	Globals

	Transpose TransposeCmd `cmd:"" default:"withargs" help:"Transpose a chord sheet (default command)"`
	MusicXML  MusicXMLCmd  `cmd:"" name:"musicxml" help:"Transpose the chord symbols of a MusicXML score"`
	Keys      KeysCmd      `cmd:"" help:"List accepted key names"`
	Serve     ServeCmd     `cmd:"" help:"Start the HTTP and WebSocket API server"`
	History   HistoryCmd   `cmd:"" help:"List recorded transpositions"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// TransposeCmd transposes a chord sheet file and prints the result.
type TransposeCmd struct {
	From    string `short:"f" help:"Key the sheet is written in" default:"C" env:"CHORDSHIFT_FROM"`
	To      string `short:"t" help:"Key to transpose to" default:"C" env:"CHORDSHIFT_TO"`
	Plain   bool   `short:"p" help:"Legacy mode: only transpose lines starting with '|'"`
	History string `help:"Record the run in this SQLite database" env:"CHORDSHIFT_HISTORY" type:"path"`
	Path    string `arg:"" help:"Chord sheet to transpose (.txt, .xz or .gz)"`
}

func (c *TransposeCmd) Run(ctx *kong.Context) error {
	mode := transpose.ModeGeneral
	if c.Plain {
		mode = transpose.ModePlain
	}

	if err := validation.ValidatePath(c.Path); err != nil {
		return errors.NewMalformedOption("<path>", err.Error())
	}

	t := transpose.New(transpose.Config{Mode: mode, Logger: logging.GetLogger()})
	res, err := t.RunFile(c.Path, c.From, c.To)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(ctx.Stdout, res.Text); err != nil {
		return err
	}

	if c.History == "" {
		return nil
	}
	e := history.NewEntry(c.Path, "", res.Text)
	e.InputDigest, err = fileDigest(c.Path)
	if err != nil {
		return err
	}
	e.FromKey, e.ToKey, e.Mode = c.From, c.To, mode.String()
	e.Steps, e.Lines, e.Chords = res.Steps, res.Lines, res.Chords
	return record(c.History, e)
}

// MusicXMLCmd transposes the <harmony> elements of a MusicXML score.
type MusicXMLCmd struct {
	From    string `short:"f" help:"Key the score is written in" default:"C" env:"CHORDSHIFT_FROM"`
	To      string `short:"t" help:"Key to transpose to" default:"C" env:"CHORDSHIFT_TO"`
	Out     string `short:"o" help:"Write the score here instead of stdout" type:"path"`
	History string `help:"Record the run in this SQLite database" env:"CHORDSHIFT_HISTORY" type:"path"`
	Path    string `arg:"" help:"MusicXML score (.musicxml or .xml)"`
}

func (c *MusicXMLCmd) Run(ctx *kong.Context) error {
	if err := validation.ValidatePath(c.Path); err != nil {
		return errors.NewMalformedOption("<path>", err.Error())
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return errors.NewFileAccess("open", c.Path, err)
	}
	kind, err := validation.DetectFileType(data[:min(len(data), validation.HeaderSize)], c.Path)
	if err != nil {
		return errors.NewFileAccess("read", c.Path, err)
	}
	if kind != validation.FileTypeXML && kind != validation.FileTypeText {
		return errors.NewFileAccess("read", c.Path, fmt.Errorf("%w: %s content, expected uncompressed MusicXML", errors.ErrUnsupported, kind))
	}

	out, stats, err := musicxml.TransposeKeys(data, c.From, c.To)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = c.Path
		}
		return err
	}
	logging.Debug("transposed score", "path", c.Path, "harmonies", stats.Harmonies, "pitches", stats.Pitches)

	if c.Out != "" {
		if err := os.WriteFile(c.Out, out, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Out, err)
		}
	} else if _, err := ctx.Stdout.Write(out); err != nil {
		return err
	}

	if c.History == "" {
		return nil
	}
	steps, _ := pitch.Steps(c.From, c.To)
	return record(c.History, history.Entry{
		Source:       c.Path,
		InputDigest:  cas.Blake3Hash(data),
		OutputDigest: cas.Blake3Hash(out),
		FromKey:      c.From,
		ToKey:        c.To,
		Mode:         "musicxml",
		Steps:        steps,
		Lines:        stats.Harmonies,
		Chords:       stats.Pitches,
	})
}

// KeysCmd lists every accepted key and the accidental it prefers.
type KeysCmd struct{}

func (c *KeysCmd) Run(ctx *kong.Context) error {
	w := tabwriter.NewWriter(ctx.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tINDEX\tSPELLS WITH")
	for _, key := range pitch.Keys() {
		idx, _ := pitch.IndexOf(key)
		acc, _ := pitch.Preference(key)
		name := "sharps"
		if acc == pitch.Flat {
			name = "flats"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", key, idx, name)
	}
	return w.Flush()
}

// ServeCmd starts the API server.
type ServeCmd struct {
	Port           int           `help:"HTTP server port" default:"8081" env:"CHORDSHIFT_PORT"`
	Plain          bool          `short:"p" help:"Use legacy plain mode when a request names no mode"`
	CacheTTL       time.Duration `name:"cache-ttl" help:"How long to cache results (0 disables)" default:"5m"`
	AllowedOrigins []string      `name:"allowed-origins" help:"Origins allowed for CORS and WebSocket (default all)" sep:"," env:"CHORDSHIFT_ALLOWED_ORIGINS"`
	History        string        `help:"Record transpositions in this SQLite database" env:"CHORDSHIFT_HISTORY" type:"path"`
}

func (c *ServeCmd) Run(ctx *kong.Context, g *Globals) error {
	if !g.Verbose {
		logging.SetLogger(logging.New(ctx.Stderr, logging.LevelInfo, logging.ParseFormat(g.LogFormat)))
	}

	cfg := api.Config{
		Port:           c.Port,
		CacheTTL:       c.CacheTTL,
		AllowedOrigins: c.AllowedOrigins,
	}
	if c.Plain {
		cfg.Mode = transpose.ModePlain
	}

	var store *history.Store
	if c.History != "" {
		var err error
		if store, err = history.Open(c.History); err != nil {
			return err
		}
		defer store.Close()
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.NewServer(cfg, store).ListenAndServe(sigCtx)
}

// HistoryCmd prints recorded transpositions, newest first.
type HistoryCmd struct {
	DB    string `name:"history" help:"History database" env:"CHORDSHIFT_HISTORY" type:"path" required:""`
	Limit int    `short:"n" help:"Show at most this many entries (0 = all)" default:"20"`
	JSON  bool   `help:"Print entries as JSON"`
	ID    string `arg:"" optional:"" help:"Show a single entry"`
}

func (c *HistoryCmd) Run(ctx *kong.Context) error {
	store, err := history.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	var entries []history.Entry
	if c.ID != "" {
		e, err := store.Get(context.Background(), c.ID)
		if err != nil {
			return err
		}
		entries = []history.Entry{e}
	} else if entries, err = store.List(context.Background(), c.Limit); err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(ctx.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tFROM\tTO\tMODE\tCHORDS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Source, e.FromKey, e.ToKey, e.Mode, e.Chords)
	}
	return w.Flush()
}

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "chordshift version %s\n", api.Version)
	return nil
}

// record appends e to the history database at path.
func record(path string, e history.Entry) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err = store.Record(context.Background(), e)
	if err != nil {
		return err
	}
	logging.Debug("recorded transposition", "id", e.ID, "history", path)
	return nil
}

// fileDigest is the BLAKE3 digest of the file as stored on disk.
func fileDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewFileAccess("read", path, err)
	}
	return cas.Blake3Hash(data), nil
}

// newParser builds the kong parser. main and the tests share it.
func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("chordshift"),
		kong.Description("ChordShift - transpose chord sheets between keys"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
