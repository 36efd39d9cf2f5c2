package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of)
	if err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc renders the help template for a flag set's -h output.
func usageFunc(d HelpData) func() {
	return func() {
		help, err := (&UsageError{of: d}).renderHelp()
		if err != nil {
			return
		}
		fmt.Fprint(os.Stderr, help)
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (c *runCmd) Template() string {
	return "run.txt"
}

func (c *bindingsCmd) Template() string {
	return "bindings.txt"
}

func (c *themesCmd) Template() string {
	return "themes.txt"
}

func (c *configCmd) Template() string {
	return "config.txt"
}

func (v *versionCmd) Template() string {
	return "version.txt"
}
