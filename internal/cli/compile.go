package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	floodio "github.com/matzehuels/floodprep/pkg/io"
	"github.com/matzehuels/floodprep/pkg/pipeline"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	output  string // artifact directory
	name    string // overrides the manifest name
	refresh bool   // recompile even when cached
	dryRun  bool   // compile without writing files
	cache   cacheFlags
}

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile <manifest>",
		Short: "Compile a scenario manifest into solver input files",
		Long: `Compile a scenario manifest (TOML, YAML or JSON) into the solver's input
files: terrain.asc, friction.asc, rain.txt, flow.bdy, bc_<n>.txt and run.par.

Paths inside the manifest are resolved relative to the manifest file.

Examples:
  floodprep compile scenario.toml
  floodprep compile scenario.yaml -o runs/storm --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutputDir, "artifact output directory")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "scenario name (overrides the manifest)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even if the result is cached")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compile and report without writing files")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runCompile(ctx context.Context, path string, opts compileOpts) error {
	logger := loggerFromContext(ctx)

	sc, err := floodio.LoadManifest(path)
	if err != nil {
		return err
	}
	if opts.name != "" {
		sc.Name = opts.name
	}
	logger.Debug("loaded manifest",
		"path", path,
		"buildings", len(sc.Buildings),
		"roughness", len(sc.Roughness),
		"boundaries", len(sc.Boundaries))

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	label := sc.Name
	if label == "" {
		label = "scenario"
	}
	sp := startSpinner(ctx, "Compiling %s...", label)
	res, err := runner.Compile(ctx, sc, pipeline.Options{Refresh: opts.refresh, Logger: logger})
	if err != nil {
		if sp.interrupted() {
			sp.stop()
		} else {
			sp.fail("Compilation failed")
		}
		return err
	}

	if opts.dryRun {
		sp.stop()
		printWarnings(res.Warnings)
		printSuccess("Compiled %s", res.Name)
		printCompileStats(res)
		for _, name := range res.Artifacts.Names() {
			printKeyValue(name, formatBytes(len(res.Artifacts[name])))
		}
		return nil
	}

	sp.set("Writing %d artifacts to %s...", len(res.Artifacts), opts.output)
	prog := newProgress(logger)
	written, err := floodio.WriteArtifacts(opts.output, res.Artifacts)
	sp.stop()
	if err != nil {
		return err
	}
	prog.done("wrote artifacts", "count", len(written), "dir", opts.output)
	printWarnings(res.Warnings)

	printSuccess("Compiled %s", res.Name)
	printCompileStats(res)
	for _, p := range written {
		printFile(p)
	}
	printNewline()
	printNextStep("Run the solver, then follow its output", fmt.Sprintf("%s watch %s", appName, filepath.Join(opts.output, "results")))
	return nil
}
