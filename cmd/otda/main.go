// Command otda recolours an image so that its colour distribution matches a
// reference image, and keeps a history of runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/colour.transfer/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("otda: %v", err)
	}
}

// run dispatches to a subcommand. Arguments that do not start with a known
// subcommand name are treated as adapt flags.
func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "adapt":
			return runAdapt(args[1:], stdout)
		case "runs":
			return runRuns(args[1:], stdout)
		case "serve":
			return runServe(args[1:])
		case "version":
			fmt.Fprintf(stdout, "otda %s\n", version.String())
			return nil
		case "help", "-h", "-help", "--help":
			printUsage(stdout)
			return nil
		}
	}
	return runAdapt(args, stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `otda - optimal transport colour transfer

Usage:
  otda [adapt] -source <image> -target <image> -out <image> [options]
  otda runs [-db runs.db] [-limit 20]
  otda serve [-db runs.db] [-listen :8080]

Adapt options:
  -method <name>    linear, linear_fourier, gaussian, sinkhorn or emd (default linear)
  -nsamples <n>     pixels drawn per image by gaussian, sinkhorn and emd (default 1000)
                    emd solves one O(n^3) assignment; gaussian solves up to 100,
                    so lower -nsamples (e.g. 300) for quick gaussian runs
  -seed <n>         fix the sampling seed
  -config <file>    JSON adaptation config; flags override its values
  -db <file>        record the run in this database
  -report <dir>     write colour histograms (PNG and HTML) into dir

Commands:
  runs     List recent runs
  serve    Serve the run history and a live SQL console under /debug/
  version  Show the otda version`)
}
