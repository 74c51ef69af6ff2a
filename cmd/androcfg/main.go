// Command androcfg turns a decompiled Android application's smali tree
// into a program graph and emits it as a CFG, FCG, or selectively-expanded
// Hybrid view, in either digraph-text or COO sparse-matrix form.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"androcfg/internal/applog"
	"androcfg/internal/config"
	"androcfg/internal/driver"
	"androcfg/internal/ir"
	"androcfg/internal/serialize"
	"androcfg/internal/source"
	"androcfg/internal/view"
)

func main() {
	app := &cli.App{
		Name:  "androcfg",
		Usage: "build a program graph from a decompiled Android application's smali tree",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "d", Usage: "decompiled application directory", Required: true},
			&cli.StringFlag{Name: "t", Usage: "view type: cfg, fcg, or hybrid", Required: true},
			&cli.StringFlag{Name: "o", Usage: "output directory", Value: "."},
			&cli.StringFlag{Name: "f", Usage: "output format: dot or coo", Value: "dot"},
			&cli.StringFlag{Name: "e", Usage: "expansion-methods file (required for -t hybrid)"},
			&cli.StringFlag{Name: "s", Usage: "serialization variant: cfgexplainer or malgraph"},
			&cli.BoolFlag{Name: "v", Usage: "verbose (debug-level) logging"},
			&cli.StringFlag{Name: "config", Usage: "optional TOML settings file"},
		},
		Action: run,
		Commands: []*cli.Command{
			exploreCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "androcfg:", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	viewType := ctx.String("t")
	if viewType != "cfg" && viewType != "fcg" && viewType != "hybrid" {
		return fmt.Errorf("-t must be one of cfg, fcg, hybrid, got %q", viewType)
	}
	if viewType == "hybrid" && ctx.String("e") == "" {
		return fmt.Errorf("-e <expansion-file> is required when -t hybrid")
	}

	fileConfig, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	flagConfig := config.Config{}
	if ctx.IsSet("o") {
		flagConfig.OutDir = ctx.String("o")
	}
	if ctx.IsSet("f") {
		flagConfig.Format = ctx.String("f")
	}
	if ctx.Bool("v") {
		flagConfig.LogLevel = applog.LevelDebug
	}
	cfg := config.ApplyDefaults(config.ApplyDefaults(flagConfig, fileConfig), config.Config{
		OutDir:   ctx.String("o"),
		Format:   ctx.String("f"),
		LogLevel: applog.LevelWarn,
	})

	registry := applog.New(cfg.LogLevel)
	log := registry.Named("driver")

	dir := strings.TrimRight(ctx.String("d"), "/")
	store := source.New(dir)
	manifestPath := filepath.Join(dir, "AndroidManifest.xml")

	result, err := driver.Run(store, manifestPath, log)
	if err != nil {
		applog.Critical(log, "run failed: %v", err)
		return err
	}

	baseName := filepath.Base(dir)
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var g view.Graph
	switch viewType {
	case "cfg":
		g = view.CFG(result.Program)
	case "fcg":
		g = view.FCG(result.Program)
	case "hybrid":
		lines, err := readLines(ctx.String("e"))
		if err != nil {
			return fmt.Errorf("read expansion file: %w", err)
		}
		g = view.Hybrid(result.Program, view.ExpansionTargets(lines))
	}

	outPath := filepath.Join(cfg.OutDir, outputFileName(baseName, viewType, cfg.Format, ctx.String("s")))
	out, err := os.Create(outPath)
	if err != nil {
		applog.Critical(log, "failed to open output file %s: %v", outPath, err)
		return err
	}
	defer out.Close()

	if err := write(out, g, result, viewType, cfg.Format, ctx.String("s"), cfg.OutDir, baseName); err != nil {
		applog.Critical(log, "failed to write output: %v", err)
		return err
	}

	log.Infof("wrote %s", outPath)
	return nil
}

func outputFileName(base, viewType, format, variant string) string {
	ext := "dot"
	if format == "coo" {
		ext = "coo"
	}
	suffix := viewType
	if variant != "" {
		suffix += "_" + variant
	}
	return fmt.Sprintf("%s_%s.%s", base, suffix, ext)
}

func write(out *os.File, g view.Graph, result *driver.Result, viewType, format, variant, outDir, baseName string) error {
	rng := rand.New(rand.NewSource(1))

	switch {
	case format == "dot" && viewType == "hybrid":
		return serialize.WriteHybridDigraph(out, g, rng)
	case format == "dot":
		return serialize.WriteDigraph(out, g, rng)
	case format == "coo" && viewType == "hybrid":
		return serialize.WriteHybridCOO(out, g, result.Program.TotalInstructions())
	case format == "coo" && variant == "cfgexplainer":
		return serialize.WriteCFGExplainerCOO(out, g, result.Program.TotalInstructions())
	case format == "coo" && variant == "malgraph":
		if err := serialize.WriteCOO(out, g, result.Program.TotalInstructions(), false); err != nil {
			return err
		}
		return writeLibCount(filepath.Join(outDir, baseName+".libcount.json"), result.Program)
	case format == "coo":
		return serialize.WriteCOO(out, g, result.Program.TotalInstructions(), false)
	default:
		return fmt.Errorf("unsupported -f value %q", format)
	}
}

// writeLibCount merges this run's library-call tally into libcountPath,
// the way extract_library_functions.py accumulates counts across runs:
// load whatever JSON is already there (treating a missing file as an
// empty starting point), tally this run's calls into it, and re-dump.
func writeLibCount(libcountPath string, prog *ir.Program) error {
	existing := map[string]view.LibraryCallCount{}
	if data, err := os.ReadFile(libcountPath); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("parse existing %s: %w", libcountPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", libcountPath, err)
	}

	merged := view.TallyLibraryCalls(prog, existing)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", libcountPath, err)
	}
	return os.WriteFile(libcountPath, data, 0o644)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}
