package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/term"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List allow-listed commands",
	Long: `List the commands the gateway will accept.

Displays each command identifier with its argument-vector template. Placeholders
are shown as <name:type>, with ? marking optional ones.`,
	Aliases: []string{"ls"},
	RunE:    runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := allowlist.Load(config.AllowlistPath(cfg))
	if err != nil {
		return err
	}

	if store.Len() == 0 {
		term.Println("No commands in the allow-list.")
		return nil
	}

	w := tabwriter.NewWriter(term.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMAND\tTEMPLATE")
	for _, id := range store.Commands() {
		entry, _ := store.Lookup(id)
		fmt.Fprintf(w, "%s\t%s\n", id, formatTemplate(entry))
	}
	return w.Flush()
}

// formatTemplate renders an entry's template for display.
func formatTemplate(entry allowlist.Entry) string {
	parts := make([]string, 0, len(entry.Tokens))
	for _, tok := range entry.Tokens {
		if tok.IsLiteral() {
			parts = append(parts, tok.Literal)
			continue
		}
		ph := tok.Placeholder
		opt := ""
		if !ph.Required {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("<%s:%s%s>", ph.Name, ph.Kind, opt))
	}
	return strings.Join(parts, " ")
}
