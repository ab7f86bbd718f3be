// Command mfc compiles an MFS score file to its Score IR, and
// optionally renders a MIDI preview. Flag and error-reporting style
// grounded on main.go (flag.Bool/flag.String surface, log.Printf +
// os.Exit(1) on failure).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leafo/mfc/internal/compiler"
	"github.com/leafo/mfc/internal/render/midi"
)

func main() {
	jsonOutput := flag.Bool("json", false, "Print the Score IR and diagnostics as JSON")
	renderMidi := flag.String("render-midi", "", "Render a MIDI preview of the compiled score to this path")
	baseDir := flag.String("base-dir", "", "Base directory for resolving relative imports (defaults to the root file's directory)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <score.mf>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	rootFile := flag.Arg(0)
	dir := *baseDir
	if dir == "" {
		dir = filepath.Dir(rootFile)
	}

	result, err := compiler.Compile(rootFile, dir)
	if err != nil {
		log.Printf("error compiling %s: %v\n", rootFile, err)
		os.Exit(1)
	}

	if *jsonOutput {
		if err := printJSON(result); err != nil {
			log.Printf("error encoding result: %v\n", err)
			os.Exit(1)
		}
	} else {
		printHuman(rootFile, result)
	}

	if result.IR == nil {
		os.Exit(1)
	}

	if *renderMidi != "" {
		f, err := os.Create(*renderMidi)
		if err != nil {
			log.Printf("error creating %s: %v\n", *renderMidi, err)
			os.Exit(1)
		}
		defer f.Close()
		if err := midi.Render(result.IR, f); err != nil {
			log.Printf("error rendering MIDI preview: %v\n", err)
			os.Exit(1)
		}
	}
}

func printJSON(result *compiler.Result) error {
	out := struct {
		IR          any `json:"ir,omitempty"`
		Diagnostics any `json:"diagnostics"`
	}{IR: result.IR, Diagnostics: result.Diagnostics}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printHuman(rootFile string, result *compiler.Result) {
	if result.IR != nil {
		title := "<untitled>"
		if result.IR.Title != nil {
			title = *result.IR.Title
		}
		fmt.Printf("%s: compiled %q (%d track(s), ppq=%d)\n", rootFile, title, len(result.IR.Tracks), result.IR.PPQ)
	} else {
		fmt.Printf("%s: compilation failed\n", rootFile)
	}
	for _, d := range result.Diagnostics {
		loc := ""
		if d.Position != nil {
			loc = fmt.Sprintf(" (%d:%d)", d.Position.Line, d.Position.Column)
		}
		fmt.Printf("  [%s] %s%s: %s\n", strings.ToUpper(string(d.Severity)), d.Code, loc, d.Message)
	}
}
