package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floodprep/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local compile and frame cache",
		Long: `The local cache lives under $XDG_CACHE_HOME/floodprep and holds compiled
artifact sets (7 days) and frame summaries (1 day). A Redis cache selected
with --redis is not touched by these commands.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the number and size of cached entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				u, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				printKeyValue("directory", fc.Dir())
				printKeyValue("entries", strconv.Itoa(u.Entries))
				printKeyValue("size", formatBytes(int(u.Bytes)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached compile and frame summary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				u, err := fc.Usage()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				if u.Entries == 0 {
					printInfo("Cache is empty")
					return nil
				}
				if err := fc.Clear(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared %d cached entries (%s)", u.Entries, formatBytes(int(u.Bytes)))
				printDetail("%s", fc.Dir())
				return nil
			},
		},
	)
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate cache: %w", err)
	}
	return cache.NewFileCache(dir)
}
