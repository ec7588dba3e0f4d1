// Package cli handles command line interface logic for the relocation
// engine, following the teacher's flag.FlagSet / UsageError pattern.
package cli

import (
	"flag"
	"fmt"
	"os"
)

// Options holds the parsed command line configuration for one relocation
// run.
type Options struct {
	Input       string
	Output      string
	ConfigOut   string
	NewBase     uint
	NewSIDBase  uint
	SIDOffset   uint
	AnalyzeOnly bool
	Debug       bool
	Quiet       bool
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the flag usage to stdout.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: sidreloc [options] <file.sid>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// ParseFlags parses os.Args[1:] into Options.
func ParseFlags() (Options, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		return opts, &UsageError{flags: flags}
	}

	args := flags.Args()
	if len(args) == 0 {
		return opts, &UsageError{flags: flags, msg: "no input .sid file given"}
	}
	opts.Input = args[0]

	if opts.NewBase > 0xFFFF {
		return opts, fmt.Errorf("new base address $%X exceeds 16 bits", opts.NewBase)
	}
	if opts.NewSIDBase > 0xFFFF {
		return opts, fmt.Errorf("new SID base address $%X exceeds 16 bits", opts.NewSIDBase)
	}

	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.StringVar(&opts.Output, "o", "", "name of the patched output binary, printed as a hex dump if no name given")
	flags.StringVar(&opts.ConfigOut, "c", "", "name of the KickAssembler .inc config file to write")
	flags.UintVar(&opts.NewBase, "base", 0, "new load address to relocate the tune to, for example 0x3000")
	flags.UintVar(&opts.NewSIDBase, "sid", 0xD400, "new SID register base address, for example 0xD420")
	flags.UintVar(&opts.SIDOffset, "sidoffset", 0, "new SID base expressed as an offset from $D400, overrides -sid if nonzero")
	flags.BoolVar(&opts.AnalyzeOnly, "analyze-only", false, "print the code/data analysis report and exit without patching")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
