package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/portal-co/snipsync/pkg/pipeline"
)

// syncFlags holds the flags for the sync command.
type syncFlags struct {
	configPath string
	owner      string
	output     string
	refresh    bool
	noCache    bool
}

// syncCommand creates the sync command, the main harvesting operation.
func (c *CLI) syncCommand() *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Harvest dependency snippets from all Rust repositories",
		Long: `Download the root Cargo.toml of every Rust repository in the configured
GitHub organization, extract the dependency sections, and store the
blank-line groups deduplicated by content hash.

Repositories without a Cargo.toml are skipped and counted. The command
fails only when the repository listing itself cannot be fetched.

Examples:
  snipsync sync                        # harvest into ./snippets
  snipsync sync -o /data/snippets      # custom output directory
  snipsync sync --owner my-org         # override the configured owner
  snipsync sync --refresh              # bypass cached API responses`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&flags.owner, "owner", "", "GitHub organization to harvest")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory for the snippet store")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the response cache")

	return cmd
}

func (c *CLI) runSync(ctx context.Context, flags syncFlags) error {
	cfg, err := loadConfig(flags.configPath, flags.owner, flags.output)
	if err != nil {
		return err
	}

	printInfo("Harvesting %s", StyleHighlight.Render(cfg.Owner))
	printDetail("Output: %s", cfg.OutputDir)
	printNewline()

	runner := c.newRunner(ctx, cfg, flags.noCache)

	prog := newProgress(loggerFromContext(ctx))
	stats, err := runner.Run(ctx, pipeline.Options{
		Owner:     cfg.Owner,
		OutputDir: cfg.OutputDir,
		Refresh:   flags.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d repositories", stats.TotalRepos))

	printSyncSummary(stats, cfg.OutputDir)

	return nil
}

// printSyncSummary prints the post-run statistics and the store layout.
func printSyncSummary(stats *pipeline.Stats, outputDir string) {
	printNewline()
	printSuccess("Downloaded %d of %d manifests (%d skipped)",
		stats.Downloaded, stats.TotalRepos, stats.Failed)
	printKeyValue("With deps", fmt.Sprintf("%d", len(stats.ReposWithDeps)))
	printKeyValue("Sections", fmt.Sprintf("%d", stats.SectionsExtracted))
	printKeyValue("Groups", fmt.Sprintf("%d", stats.GroupsExtracted))
	printKeyValue("Unique", fmt.Sprintf("%d (%d shared)", stats.UniqueHashes, stats.Duplicates))
	printNewline()
	for _, dir := range []string{"manifests", "sections", "grouped", "hashed"} {
		printFile(filepath.Join(outputDir, dir))
	}
}
