package cli

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/happyhackingspace/werger/phrasetable"
	"github.com/spf13/cobra"
)

func (c *CLI) newCompileCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "compile <table> [output]",
		Short: "Compile a text phrase table into a SQLite database",
		Args:  cobra.RangeArgs(1, 2),
		Example: `  # Compile next to the source file
  wergêr compile phrase-table.txt.gz

  # Explicit output path
  wergêr compile phrase-table.txt phrase-table.db

  # Rebuild even when the source is unchanged
  wergêr compile phrase-table.txt --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dst := compiledPath(src)
			if len(args) == 2 {
				dst = args[1]
			}
			start := time.Now()
			if err := phrasetable.Compile(src, dst, force); err != nil {
				return err
			}
			slog.Debug("Compile completed", "output", dst, "duration", time.Since(start))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even when the source is unchanged")
	return cmd
}

// compiledPath strips the extensions from src and appends ".db", so
// "model/phrase-table.txt.gz" becomes "model/phrase-table.db".
func compiledPath(src string) string {
	base := filepath.Base(src)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(src), base+".db")
}
