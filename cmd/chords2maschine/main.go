// Package main is the entry point for the chords2maschine CLI
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/james-see/chords2maschine/pkg/api"
	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/chordset"
	"github.com/james-see/chords2maschine/pkg/config"
	"github.com/james-see/chords2maschine/pkg/logging"
	"github.com/james-see/chords2maschine/pkg/preview"
	"github.com/james-see/chords2maschine/pkg/store"
	"github.com/james-see/chords2maschine/pkg/theory"
	"github.com/james-see/chords2maschine/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg *config.Config

	dbPath    string
	keyRoot   string
	logLevel  string
	logFormat string

	outputFile    string
	previewOutput string
	bundleOutput  string
	setName       string
	numeralMode   bool
	fileNumber    int
	force         bool
	duration      string
	tempo         float64
	modeName      string
	serverPort    int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if cancelled(err) {
			fmt.Println("Cancelled.")
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chords2maschine",
	Short: "Turn chord symbols into Maschine chord sets",
	Long: `chords2maschine voices chord symbols for the Maschine chord pads,
labels them with Roman numerals and modal origins, and exports
user_chord_set_NN.json files or a complete 16-set bundle.

Examples:
  chords2maschine parse Cmaj7 "F#m7b5" Db/F
  chords2maschine analyze Bb Fm --key C
  chords2maschine export --name Pop --key G G D Em C -o user_chord_set_01.json
  chords2maschine bundle save 3 --name Pop G D Em C
  chords2maschine bundle export -o chord_sets.zip
  chords2maschine tui
  chords2maschine serve --port 3001`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		cfg = config.Load()
		if !cmd.Flags().Changed("db") {
			dbPath = cfg.DBPath
		}
		if !cmd.Flags().Changed("key") {
			keyRoot = cfg.DefaultKey
		}
		if !cmd.Flags().Changed("log-level") {
			logLevel = cfg.LogLevel
		}
		if !cmd.Flags().Changed("log-format") {
			logFormat = cfg.LogFormat
		}
		_, err := logging.Setup(logLevel, logFormat)
		return err
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <chord>...",
	Short: "Print the pad voicing of each chord",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <chord>...",
	Short: "Print the Roman numeral and modal origin of each chord in --key",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var scaleCmd = &cobra.Command{
	Use:   "scale [root]",
	Short: "Print the scale and diatonic chords of a key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScale,
}

var exportCmd = &cobra.Command{
	Use:   "export <chord>...",
	Short: "Write a single chord-set file",
	Args:  cobra.RangeArgs(1, chordset.MaxChords),
	RunE:  runExport,
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <chord>...",
	Short: "Write a tab-separated modal analysis report",
	Args:  cobra.RangeArgs(1, chordset.MaxChords),
	RunE:  runAnnotate,
}

var previewCmd = &cobra.Command{
	Use:   "preview <chord>...",
	Short: "Render chords as a MIDI file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPreview,
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Manage the 16-slot bundle",
}

var bundleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every slot",
	Args:  cobra.NoArgs,
	RunE:  runBundleStatus,
}

var bundleSaveCmd = &cobra.Command{
	Use:   "save <slot> <chord>...",
	Short: "Save a chord set into a slot (1-16)",
	Args:  cobra.RangeArgs(2, chordset.MaxChords+1),
	RunE:  runBundleSave,
}

var bundleClearCmd = &cobra.Command{
	Use:   "clear [slot]",
	Short: "Empty one slot, or every slot when none is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBundleClear,
}

var bundleNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move the cursor forward",
	Args:  cobra.NoArgs,
	RunE:  runBundleNext,
}

var bundlePrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Move the cursor back",
	Args:  cobra.NoArgs,
	RunE:  runBundlePrev,
}

var bundleValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every slot is saved",
	Args:  cobra.NoArgs,
	RunE:  runBundleValidate,
}

var bundleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the bundle archive",
	Args:  cobra.NoArgs,
	RunE:  runBundleExport,
}

var bundleModeCmd = &cobra.Command{
	Use:       "mode <on|off>",
	Short:     "Turn duplicate-name checking on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runBundleMode,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database for bundle state (default ~/.config/chords2maschine/state.db)")
	rootCmd.PersistentFlags().StringVarP(&keyRoot, "key", "k", chordset.DefaultKey, "Key root")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	// scale command
	scaleCmd.Flags().StringVarP(&modeName, "mode", "m", "major", "Mode name")

	// export command
	exportCmd.Flags().StringVarP(&setName, "name", "n", "", "Chord set name (required)")
	exportCmd.Flags().BoolVar(&numeralMode, "numeral", false, "Name pads with Roman numerals")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .json path (default user_chord_set_NN.json)")
	exportCmd.Flags().IntVar(&fileNumber, "number", 0, "File number for the default output name")
	exportCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite without asking")
	_ = exportCmd.MarkFlagRequired("name")

	// annotate command
	annotateCmd.Flags().StringVarP(&setName, "name", "n", "", "Chord set name")
	annotateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .txt path (default annotated_<name>.txt, - for stdout)")

	// preview command
	previewCmd.Flags().StringVar(&duration, "duration", preview.DefaultDuration, "Note value per chord (1n, 2n, 4n, 8n, 16n, 32n)")
	previewCmd.Flags().Float64Var(&tempo, "tempo", 120, "Tempo in BPM")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "preview.mid", "Output .mid path")

	// bundle commands
	bundleSaveCmd.Flags().StringVarP(&setName, "name", "n", "", "Chord set name (required)")
	bundleSaveCmd.Flags().BoolVar(&numeralMode, "numeral", false, "Name pads with Roman numerals")
	_ = bundleSaveCmd.MarkFlagRequired("name")
	bundleExportCmd.Flags().StringVarP(&bundleOutput, "output", "o", "chord_sets.zip", "Output .zip path")
	bundleExportCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite without asking")
	bundleNextCmd.Flags().Bool("available", false, "Skip saved slots")

	bundleCmd.AddCommand(bundleStatusCmd, bundleSaveCmd, bundleClearCmd, bundleNextCmd,
		bundlePrevCmd, bundleValidateCmd, bundleExportCmd, bundleModeCmd)

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default $PORT or 3001)")

	// Add commands
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// openBundle opens the state database and rehydrates the bundle. The caller closes the store.
func openBundle(ctx context.Context) (*bundle.Manager, *store.Store, error) {
	db, err := store.Open(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}
	return bundle.NewManager(ctx, db), db, nil
}

// cancelled reports whether err came from a declined prompt or an interrupt
func cancelled(err error) bool {
	return errors.Is(err, chordset.ErrCancelled) || errors.Is(err, context.Canceled)
}

// confirmOverwrite asks before replacing an existing file
func confirmOverwrite(path string, in io.Reader) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	fmt.Printf("%s exists, overwrite? [y/N] ", path)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		return nil
	}
	return chordset.ErrCancelled
}

func slotArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > bundle.SlotCount {
		return 0, fmt.Errorf("slot must be 1-%d, got %q", bundle.SlotCount, s)
	}
	return n - 1, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	for _, raw := range args {
		v, p, err := chord.Voice(raw)
		if err != nil {
			return err
		}
		source := "intervals"
		if p.HasOverride() {
			source = "override"
		}
		fmt.Printf("%-10s %v (%s)\n", p.Symbol, []int(v), source)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	key, err := theory.NewKey(keyRoot, theory.Ionian)
	if err != nil {
		return err
	}
	for _, sym := range args {
		origin, err := theory.DetectOrigin(sym, key.Root)
		if err != nil {
			return err
		}
		numeral, ok := theory.Label(sym, key)
		if !ok {
			numeral = theory.UnknownNumeral
		}
		fmt.Printf("%-10s %-8s %s\n", sym, numeral, origin)
	}
	return nil
}

func runScale(cmd *cobra.Command, args []string) error {
	root := keyRoot
	if len(args) == 1 {
		root = args[0]
	}
	key, err := theory.ParseKey(root, modeName)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", key)
	fmt.Printf("Scale:  %s\n", strings.Join(theory.ScaleRoots(key), " "))
	fmt.Printf("Chords: %s\n", strings.Join(theory.DiatonicChords(key), " "))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := chordset.Build(chordset.Input{Name: setName, Key: keyRoot, Chords: args, NumeralMode: numeralMode})
	if err != nil {
		return err
	}
	data, err := chordset.Encode(doc)
	if err != nil {
		return err
	}

	output := outputFile
	if output == "" {
		n := fileNumber
		if n == 0 {
			n = cfg.FileNumber
		}
		output = chordset.FileName(n)
	}
	if err := confirmOverwrite(output, cmd.InOrStdin()); err != nil {
		return err
	}
	if err := chordset.WriteFile(output, chordset.FormatJSON, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d pads, %s)\n", output, len(doc.Chords), doc.Name)
	return nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	in := chordset.Input{Name: setName, Key: keyRoot, Chords: args}
	report, err := chordset.Annotate(in)
	if err != nil {
		return err
	}
	if outputFile == "-" {
		fmt.Print(report)
		return nil
	}
	output := outputFile
	if output == "" {
		output = chordset.AnnotatedFileName(setName)
	}
	if err := chordset.WriteFile(output, chordset.FormatText, []byte(report)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	voicings := make([]chord.Voicing, 0, len(args))
	for _, sym := range args {
		v, _, err := chord.Voice(sym)
		if err != nil {
			return err
		}
		voicings = append(voicings, v)
	}

	r := preview.NewRenderer()
	if err := r.SetTempo(tempo); err != nil {
		return err
	}
	data, err := r.RenderSequence(voicings, duration)
	if err != nil {
		return err
	}
	if err := chordset.WriteFile(previewOutput, chordset.FormatMIDI, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d chords at %.0f BPM)\n", previewOutput, len(voicings), tempo)
	return nil
}

func runBundleStatus(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	state := mgr.State()
	fmt.Printf("Bundle mode: %t   Saved: %d/%d\n\n", state.BundleMode, state.SavedCount(), bundle.SlotCount)
	for _, slot := range state.Slots {
		marker := " "
		if slot.Index == state.Current {
			marker = ">"
		}
		detail := ""
		switch slot.Status {
		case bundle.StatusSaved:
			detail = slot.Document.Name
			if slot.Meta != nil {
				detail = fmt.Sprintf("%s (%d chords, key %s)", detail, slot.Meta.ChordCount, slot.Meta.Key)
			}
		case bundle.StatusError:
			detail = slot.Error
		}
		fmt.Printf("%s %2d  %-6s %s\n", marker, slot.Number(), slot.Status, detail)
	}
	return nil
}

func runBundleSave(cmd *cobra.Command, args []string) error {
	index, err := slotArg(args[0])
	if err != nil {
		return err
	}
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	slot, err := mgr.Save(cmd.Context(), index, chordset.Input{
		Name:        setName,
		Key:         keyRoot,
		Chords:      args[1:],
		NumeralMode: numeralMode,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s to slot %d\n", slot.Document.Name, slot.Number())
	return nil
}

func runBundleClear(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		if err := mgr.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cleared all slots")
		return nil
	}
	index, err := slotArg(args[0])
	if err != nil {
		return err
	}
	if err := mgr.ClearSlot(cmd.Context(), index); err != nil {
		return err
	}
	fmt.Printf("Cleared slot %d\n", index+1)
	return nil
}

func runBundleNext(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	available, _ := cmd.Flags().GetBool("available")
	var cur int
	if available {
		cur, err = mgr.AdvanceToNextAvailable(cmd.Context())
	} else {
		cur, err = mgr.Advance(cmd.Context())
	}
	if err != nil {
		return err
	}
	fmt.Printf("Current slot: %d\n", cur+1)
	return nil
}

func runBundlePrev(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	cur, err := mgr.Retreat(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Current slot: %d\n", cur+1)
	return nil
}

func runBundleValidate(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	complete, missing := mgr.ValidateComplete()
	if complete {
		fmt.Println("Bundle complete: all 16 slots saved")
		return nil
	}
	return &chordset.Error{Kind: chordset.KindExportPrecondition, Missing: missing}
}

func runBundleExport(cmd *cobra.Command, args []string) error {
	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := mgr.Export()
	if err != nil {
		return err
	}
	if err := confirmOverwrite(bundleOutput, cmd.InOrStdin()); err != nil {
		return err
	}
	if err := chordset.WriteFile(bundleOutput, chordset.FormatZip, data); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d chord sets)\n", bundleOutput, bundle.SlotCount)
	return nil
}

func runBundleMode(cmd *cobra.Command, args []string) error {
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true":
		on = true
	case "off", "false":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mgr.SetBundleMode(cmd.Context(), on); err != nil {
		return err
	}
	fmt.Printf("Bundle mode: %t\n", on)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// keep log lines off the alt screen
	logger, err := logging.New(io.Discard, logLevel, logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	mgr, db, err := openBundle(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	dir, _ := os.Getwd()
	return tui.Run(mgr, tui.Options{
		OutputDir:  filepath.Clean(dir),
		FileNumber: cfg.FileNumber,
		DefaultKey: keyRoot,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	port := serverPort
	if port == 0 {
		port = cfg.Port
	}

	ctx := cmd.Context()
	db, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := slog.Default()
	mgr := bundle.NewManager(ctx, db, bundle.WithLogger(logger))
	srv := api.NewServer(mgr, db, api.WithLogger(logger), api.WithReleaseMode(cfg.IsProduction()))

	fmt.Printf("Starting API server on port %d...\n", port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", port)
	return srv.StartServer(ctx, port)
}
