// Package commandtable holds the static table of MiniFS verbs, loaded from
// an embedded CSV at init time, following the teacher's disks/disks.go
// pattern of a gocsv.UnmarshalToCallback-populated lookup map backing
// disk-geometries.csv.
package commandtable

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// Command describes one verb the daemon understands: its canonical name,
// a one-line usage form, and the description shown in `help`.
type Command struct {
	Name        string `csv:"name"`
	Usage       string `csv:"usage"`
	Description string `csv:"description"`
}

//go:embed commands.csv
var rawCSV string

var byName map[string]Command

func init() {
	byName = make(map[string]Command)
	err := gocsv.UnmarshalToCallback(strings.NewReader(rawCSV), func(row Command) error {
		if _, exists := byName[row.Name]; exists {
			return fmt.Errorf("duplicate command definition for %q", row.Name)
		}
		byName[row.Name] = row
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// Lookup returns the Command named name, and whether it exists.
func Lookup(name string) (Command, bool) {
	c, ok := byName[name]
	return c, ok
}

// HelpText renders the full `help` listing, commands sorted by name.
func HelpText() string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("                     MiniFS commands\n")
	b.WriteString("-----------------------------------------------------------------\n")
	for _, name := range names {
		c := byName[name]
		fmt.Fprintf(&b, "* %-28s %s\n", c.Usage, c.Description)
	}
	b.WriteString("-----------------------------------------------------------------\n")
	return b.String()
}
