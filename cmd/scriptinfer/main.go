package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/scriptinfer/internal/analyzer"
	"github.com/funvibe/scriptinfer/internal/pipeline"
)

const usage = `Usage:
  scriptinfer infer [flags] <tree.yaml>
  scriptinfer complete [flags] <tree.yaml> [prefix]

Flags:
  -config path   project file (default: nearest scriptinfer.yaml)
  -label name    only this labelled node; may be repeated
  -eval          allow bounded evaluation of variables and members
  -v             log progress to stderr
`

type labelList []string

func (l *labelList) String() string     { return strings.Join(*l, ",") }
func (l *labelList) Set(v string) error { *l = append(*l, v); return nil }

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	typeColor  = color.New(color.FgGreen)
	faintColor = color.New(color.Faint)
	errorColor = color.New(color.FgRed)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "infer", "complete":
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "", "")
	eval := fs.Bool("eval", false, "")
	verbose := fs.Bool("v", false, "")
	var labels labelList
	fs.Var(&labels, "label", "")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 || (cmd == "infer" && len(rest) > 1) || len(rest) > 2 {
		fs.Usage()
		os.Exit(2)
	}

	ctx := pipeline.NewPipelineContext(rest[0])
	ctx.ConfigPath = *configPath
	ctx.Labels = labels
	if *eval {
		ctx.Permission = analyzer.AllowBoundedEval
	}
	if *verbose {
		ctx.Logger = log.New(os.Stderr, "", 0)
	}

	var p *pipeline.Pipeline
	if cmd == "infer" {
		p = pipeline.Infer()
	} else {
		prefix := ""
		if len(rest) == 2 {
			prefix = rest[1]
		}
		p = pipeline.Complete(prefix)
	}

	ctx = p.Run(ctx)
	if err := ctx.Close(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}

	if cmd == "infer" {
		printResults(os.Stdout, ctx.Results)
	} else {
		printCompletions(os.Stdout, ctx.Completions)
	}

	if len(ctx.Errors) > 0 {
		errorColor.Fprintf(os.Stderr, "%d error(s):\n", len(ctx.Errors))
		for _, err := range ctx.Errors {
			fmt.Fprintf(os.Stderr, "- %s\n", err.Error())
		}
		os.Exit(1)
	}
}

func printResults(w io.Writer, results []pipeline.Result) {
	for _, r := range results {
		labelColor.Fprintf(w, "%s", r.Label)
		fmt.Fprint(w, ": ")
		if len(r.Types) == 0 {
			faintColor.Fprintln(w, "(unknown)")
			continue
		}
		names := make([]string, len(r.Types))
		for i, d := range r.Types {
			names[i] = d.String()
		}
		typeColor.Fprintln(w, strings.Join(names, ", "))
	}
}

func printCompletions(w io.Writer, completions []pipeline.Completion) {
	for _, c := range completions {
		labelColor.Fprintf(w, "%s", c.Label)
		fmt.Fprintln(w, ":")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, it := range c.Items {
			detail := it.Detail
			if it.Extended {
				detail += " (extended)"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", it.Label, it.Kind, detail)
		}
		tw.Flush()
	}
}
