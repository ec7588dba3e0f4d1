// Package main implements a relocation tool for SID-WIZARD tune binaries.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/evo64/sidreloc/internal/analysis"
	"github.com/evo64/sidreloc/internal/cli"
	"github.com/evo64/sidreloc/internal/codepatch"
	"github.com/evo64/sidreloc/internal/engine"
	"github.com/evo64/sidreloc/internal/harnessconfig"
	"github.com/evo64/sidreloc/internal/logging"
	"github.com/evo64/sidreloc/internal/psid"
	"github.com/evo64/sidreloc/internal/sidimage"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		if usageErr, ok := err.(*cli.UsageError); ok {
			printBanner(opts)
			usageErr.ShowUsage()
			os.Exit(1)
		}
		fmt.Println(err)
		os.Exit(1)
	}

	if !opts.Quiet {
		printBanner(opts)
	}

	logger := logging.CreateLogger(opts.Debug, opts.Quiet)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("relocation cancelled")
			return
		}
		logger.Error("relocation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(opts cli.Options) {
	if opts.Quiet {
		return
	}
	fmt.Println("[------------------------------------------]")
	fmt.Println("[ sidreloc - SID-WIZARD tune relocator      ]")
	fmt.Printf("[------------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(ctx context.Context, logger *log.Logger, opts cli.Options) error {
	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", opts.Input, err)
	}

	header, err := psid.ParseHeader(raw)
	if err != nil {
		return fmt.Errorf("parsing SID header: %w", err)
	}
	loadAddr, binData, err := psid.ExtractBinary(raw, header)
	if err != nil {
		return fmt.Errorf("extracting binary: %w", err)
	}

	logger.Info("loaded tune", log.String("name", header.Name),
		log.String("author", header.Author), log.Hex("load_address", loadAddr))

	newSIDBase := uint16(opts.NewSIDBase)
	if opts.SIDOffset != 0 {
		newSIDBase = 0xD400 + uint16(opts.SIDOffset)
	}
	newBase := loadAddr
	if opts.NewBase != 0 {
		newBase = uint16(opts.NewBase)
	}

	if opts.AnalyzeOnly {
		return analyzeOnly(ctx, logger, loadAddr, binData)
	}

	tune := engine.Tune{
		OriginalBase:    loadAddr,
		OriginalSIDBase: 0xD400,
		NewBase:         newBase,
		NewSIDBase:      newSIDBase,
	}

	result, err := engine.Run(ctx, logger, tune, binData)
	if err != nil {
		return fmt.Errorf("relocating tune: %w", err)
	}

	logger.Info("relocation complete",
		log.Int("instructions", result.Stats.CodeInstructions),
		log.Int("redirected", result.Stats.RedirectedOperands),
		log.Int("relocated", result.Stats.RelocatedOperands),
		log.Int("hi_tables", result.Stats.HiByteTables),
		log.Int("interleaved_tables", result.Stats.InterleavedTables))

	if err := writeOutput(opts.Output, result.Bytes); err != nil {
		return err
	}

	if opts.ConfigOut != "" {
		record := harnessconfig.Record{
			Label:   header.Name,
			Base:    tune.NewBase,
			Init:    relocatedVector(header.InitAddress, tune),
			Play:    relocatedVector(header.PlayAddress, tune),
			Size:    len(binData),
			SIDBase: tune.NewSIDBase,
		}
		contents := harnessconfig.WriteKickAsm([]harnessconfig.Record{record})
		if err := os.WriteFile(opts.ConfigOut, []byte(contents), 0o644); err != nil {
			return fmt.Errorf("writing config file '%s': %w", opts.ConfigOut, err)
		}
	}

	return nil
}

// relocatedVector shifts an init/play vector address read from the SID
// header by the tune's relocation delta, for reporting in the generated
// harness config (the engine itself only ever relocates operands it finds
// inside code, not header metadata).
func relocatedVector(addr uint16, tune engine.Tune) uint16 {
	delta := int32(tune.NewBase) - int32(tune.OriginalBase)
	return uint16(int32(addr) + delta)
}

func analyzeOnly(ctx context.Context, logger *log.Logger, loadAddr uint16, binData []byte) error {
	img := sidimage.New(loadAddr, binData)
	entries, err := engine.ResolveEntryPoints(img)
	if err != nil {
		return fmt.Errorf("resolving entry points: %w", err)
	}
	report, err := analysis.Analyze(ctx, img, entries, codepatch.Window{Base: 0xD400, Size: 32})
	if err != nil {
		return fmt.Errorf("analyzing tune: %w", err)
	}
	fmt.Println(report.String())
	logger.Debug("analysis complete", log.Int("total_bytes", report.TotalBytes))
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		for i, b := range data {
			if i%16 == 0 {
				if i != 0 {
					fmt.Println()
				}
				fmt.Printf("%04X: ", i)
			}
			fmt.Printf("%02X ", b)
		}
		fmt.Println()
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file '%s': %w", path, err)
	}
	return nil
}
