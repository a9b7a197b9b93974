// Binary pyruntime downloads and assembles an embeddable Python runtime for
// the bridge: the interpreter distribution, optional wheels, and the helper
// module the native library imports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mt5bridge-go/internal/assemble"
	"mt5bridge-go/internal/util"
)

type wheelList []string

func (w *wheelList) String() string { return strings.Join(*w, ",") }

func (w *wheelList) Set(value string) error {
	*w = append(*w, value)
	return nil
}

func main() {
	var wheels wheelList
	pythonURL := flag.String("python-url", "", "URL to the embeddable Python zip distribution (required)")
	output := flag.String("output", "py_runtime", "destination directory for the extracted runtime")
	bridgeModule := flag.String("bridge-module", filepath.Join("python", "mt5bridge_py.py"), "helper module copied into site-packages")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Var(&wheels, "wheels", "wheel URL to install into the runtime (repeatable)")
	flag.Parse()

	if *pythonURL == "" {
		fmt.Fprintln(os.Stderr, "pyruntime: --python-url is required")
		flag.Usage()
		os.Exit(2)
	}

	log := util.NewLogger(*logLevel)
	spec := assemble.Spec{
		PythonURL:   *pythonURL,
		Wheels:      wheels,
		OutputDir:   *output,
		SupportFile: *bridgeModule,
	}
	if err := assemble.New(log).Run(context.Background(), spec); err != nil {
		if errors.Is(err, assemble.ErrSupportFileMissing) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("assemble runtime")
	}
	log.Info().Str("output", *output).Msg("runtime assembled")
}
