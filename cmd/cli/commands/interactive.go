package commands

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (open the database once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reloading
the configuration and database. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.autoSync(cmd.OutOrStdout()); err != nil {
				return err
			}

			s := &session{root: cmd.Root(), in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			return s.run()
		},
	}
}

// session runs commands read line by line against an initialized root command
type session struct {
	root *cobra.Command
	in   io.Reader
	out  io.Writer
}

func (s *session) run() error {
	fmt.Fprintln(s.out, "\n🚀 Starting interactive session...")
	fmt.Fprintln(s.out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}
		if line == "help" {
			s.printHelp()
			continue
		}

		if err := s.execute(line); err != nil {
			fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// execute runs one command line. The command's RunE is called directly so the
// root PersistentPreRunE does not initialize the app again.
func (s *session) execute(line string) error {
	parts, err := parseCommandLine(line)
	if err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}
	if len(parts) == 0 {
		return nil
	}

	target, args, err := s.root.Find(parts)
	if err != nil || target == s.root || !runnable(target) {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", strings.Join(parts, " "))
	}

	// Flags keep their values between runs unless reset
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
			return
		}
		flag.Value.Set(flag.DefValue)
	})
	if err := target.ParseFlags(args); err != nil {
		return err
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}
	target.SetOut(s.out)
	return target.RunE(target, args)
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")

	var lines []string
	var walk func(cmd *cobra.Command, prefix string)
	walk = func(cmd *cobra.Command, prefix string) {
		for _, sub := range cmd.Commands() {
			switch sub.Name() {
			case "interactive", "completion", "help":
				continue
			}
			if runnable(sub) {
				lines = append(lines, fmt.Sprintf("  %-40s %s", prefix+sub.Use, sub.Short))
			}
			walk(sub, prefix+sub.Name()+" ")
		}
	}
	walk(s.root, "")
	sort.Strings(lines)

	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
	fmt.Fprintln(s.out, "\n  help                                     Show this help message")
	fmt.Fprintln(s.out, "  exit, quit                               Exit the interactive session")
}

func runnable(cmd *cobra.Command) bool {
	return cmd.RunE != nil
}

// parseCommandLine splits a command line into arguments, respecting single
// and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune
	quoted := false

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			quoted = true
		case unicode.IsSpace(r):
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args, nil
}
