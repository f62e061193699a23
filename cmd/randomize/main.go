// Command randomize runs one randomization offline, without a server.
//
//	randomize -settings settings.json -mode agent Ana Ben Cy Dee
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/engine"
	"github.com/DoyleJ11/squad-randomizer/internal/export"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "randomize:", err)
		os.Exit(1)
	}
}

type options struct {
	catalogFile  string
	settingsFile string
	players      string
	teamMode     string
	mode         string
	selection    string
	pinMap       string
	seed         uint64
	asJSON       bool
	dumpSettings bool
	copy         bool
}

func parse(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("randomize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.catalogFile, "catalog", "", "YAML or JSON catalog file (built-in catalog when empty)")
	fs.StringVar(&o.settingsFile, "settings", "", "settings document to import")
	fs.StringVar(&o.players, "players", "", "comma separated participants, in addition to positional args")
	fs.StringVar(&o.teamMode, "team-mode", string(engine.TeamRandom), "random or manual")
	fs.StringVar(&o.mode, "mode", "", "assignment mode: role, agent, replication or legacy (settings or role when empty)")
	fs.StringVar(&o.selection, "selection", string(constraints.KindCategory), "weapon group selection: category or weapon")
	fs.StringVar(&o.pinMap, "map", "", "always play this map")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed; 0 seeds from the clock")
	fs.BoolVar(&o.asJSON, "json", false, "print the result as JSON")
	fs.BoolVar(&o.dumpSettings, "dump-settings", false, "print the effective settings document and exit")
	fs.BoolVar(&o.copy, "copy", false, "also copy the text result to the clipboard")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	var players []string
	for _, p := range strings.Split(o.players, ",") {
		if p = strings.TrimSpace(p); p != "" {
			players = append(players, p)
		}
	}
	return o, append(players, fs.Args()...), nil
}

func run(args []string, stdout io.Writer) error {
	o, players, err := parse(args, os.Stderr)
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if o.catalogFile != "" {
		if cat, err = catalog.Load(o.catalogFile); err != nil {
			return err
		}
	}
	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	env := lobby.Env{Catalog: cat, Source: sample.NewSource(seed), HistoryLimit: 1}

	cmds, err := commands(o, players)
	if err != nil {
		return err
	}
	st := lobby.NewState()
	for _, c := range cmds {
		if st, err = lobby.Apply(st, c, env); err != nil {
			return fmt.Errorf("%s: %w", c.Type, err)
		}
	}

	if o.dumpSettings {
		return writeJSON(stdout, constraints.Export(st.Settings()))
	}

	st, err = lobby.Apply(st, lobby.Command{Type: lobby.CmdRandomize}, env)
	if err != nil {
		return err
	}
	rec := *st.Result
	text := export.Text(rec, engine.Compose(rec, cat))
	if o.copy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	if o.asJSON {
		return writeJSON(stdout, rec)
	}
	_, err = io.WriteString(stdout, text)
	return err
}

// commands turns the flags into the lobby commands a user would have issued
// by hand. The settings document goes first so explicit flags override it.
func commands(o options, players []string) ([]lobby.Command, error) {
	var cmds []lobby.Command
	if o.settingsFile != "" {
		doc, err := os.ReadFile(o.settingsFile)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, lobby.Command{Type: lobby.CmdImportSettings, Document: doc})
	}
	for _, p := range players {
		cmds = append(cmds, lobby.Command{Type: lobby.CmdAddParticipant, Name: p})
	}
	cmds = append(cmds,
		lobby.Command{Type: lobby.CmdSetTeamMode, Mode: o.teamMode},
		lobby.Command{Type: lobby.CmdSetSelectionMode, Mode: o.selection},
	)
	if o.mode != "" {
		cmds = append(cmds, lobby.Command{Type: lobby.CmdSetAssignmentMode, Mode: o.mode})
	}
	if o.pinMap != "" {
		cmds = append(cmds, lobby.Command{Type: lobby.CmdPinMap, Name: o.pinMap})
	}
	return cmds, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
