package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	List   *ListCommand
	New    *NewCommand
	Show   *ShowCommand
	Edit   *EditCommand
	Remove *RemoveCommand
	Serve  *ServeCommand
	Status *StatusCommand
	Export *ExportCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "diary"
	parser.LongDescription = "A local emotion diary: dated entries with a mood rating, kept in a single storage slot."

	cmds := &commands{
		List:   &ListCommand{globals: &globals, version: version},
		New:    &NewCommand{globals: &globals, version: version},
		Show:   &ShowCommand{globals: &globals, version: version},
		Edit:   &EditCommand{globals: &globals, version: version},
		Remove: &RemoveCommand{globals: &globals, version: version},
		Serve:  &ServeCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Export: &ExportCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("list", "List diary entries", "List diary entries with optional ordering, mood and month filters.", cmds.List)
	parser.AddCommand("new", "Write a new entry", "Write a new diary entry. Text comes from --content, --content-file or the remaining arguments.", cmds.New)
	parser.AddCommand("show", "Print one entry", "Print a single diary entry.", cmds.Show)
	parser.AddCommand("edit", "Rewrite an entry", "Rewrite an existing diary entry. Omitted fields keep their current values.", cmds.Edit)
	parser.AddCommand("remove", "Delete an entry", "Delete a diary entry. Asks for confirmation unless --force is given.", cmds.Remove)
	parser.AddCommand("serve", "Serve the diary over HTTP", "Serve the diary views and change stream over local HTTP.", cmds.Serve)
	parser.AddCommand("status", "Show diary statistics", "Show storage location, entry counts and mood distribution.", cmds.Status)
	parser.AddCommand("export", "Print the stored diary JSON", "Print the stored diary exactly as persisted.", cmds.Export)
	parser.AddCommand("purge", "Delete ALL diary data", "Delete ALL diary data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the diary CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("diary %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
