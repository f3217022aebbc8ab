package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/portal-co/snipsync/pkg/github"
	"github.com/portal-co/snipsync/pkg/manifest"
	"github.com/portal-co/snipsync/pkg/store"
)

// reposCommand creates the repos command for browsing discovered repositories.
func (c *CLI) reposCommand() *cobra.Command {
	var (
		configPath string
		owner      string
		plain      bool
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Browse the organization's Rust repositories",
		Long: `List the Rust repositories the sync command would harvest.

By default an interactive browser opens; selecting a repository fetches
its Cargo.toml and previews the dependency sections and groups that a
sync run would extract from it.

Examples:
  snipsync repos             # interactive browser
  snipsync repos --plain     # plain listing for scripts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRepos(cmd.Context(), configPath, owner, plain, refresh, noCache)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&owner, "owner", "", "GitHub organization to list")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a plain listing instead of the browser")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")

	return cmd
}

func (c *CLI) runRepos(ctx context.Context, configPath, owner string, plain, refresh, noCache bool) error {
	cfg, err := loadConfig(configPath, owner, "")
	if err != nil {
		return err
	}

	client := c.newClient(ctx, cfg, noCache)

	spinner := newSpinnerWithContext(ctx, "Discovering Rust repositories...")
	spinner.Start()
	repos, err := client.DiscoverRepos(ctx, cfg.Owner, refresh)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("discover repositories: %w", err)
	}

	if plain {
		spinner.Stop()
		for _, r := range repos {
			fmt.Printf("%s\t%s\n", r.Name, r.DefaultBranch)
		}
		return nil
	}

	spinner.StopWithSuccess(fmt.Sprintf("Found %d Rust repositories in %s", len(repos), cfg.Owner))
	printNewline()

	m := NewRepoListModel(cfg.Owner, repos)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(RepoListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	return c.previewRepo(ctx, client, cfg.Owner, *fm.Selected, refresh)
}

// previewRepo fetches one manifest and prints the sections and groups a
// sync run would extract from it, without writing anything to disk.
func (c *CLI) previewRepo(ctx context.Context, client *github.Client, owner string, repo github.Repo, refresh bool) error {
	loggerFromContext(ctx).Debug("fetching manifest", "repo", repo.Name, "branch", repo.DefaultBranch)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s/%s...", owner, repo.Name))
	spinner.Start()
	content, err := client.FetchManifest(ctx, owner, repo, refresh)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to fetch Cargo.toml for %s/%s", owner, repo.Name))
		return fmt.Errorf("fetch manifest: %w", err)
	}
	spinner.Stop()

	sections := manifest.ExtractSections(content)
	if len(sections) == 0 {
		printWarning("No dependency sections in %s/%s", owner, repo.Name)
		return nil
	}

	for _, name := range manifest.SectionNames {
		body, ok := sections[name]
		if !ok {
			continue
		}

		printNewline()
		fmt.Println(StyleTitle.Render("[" + name + "]"))
		for i, group := range manifest.SplitGroups(body) {
			printDetail("group%02d  %s", i+1, store.ShortHash(group))
			fmt.Println(StyleValue.Render(group))
		}
	}
	printNewline()

	return nil
}
