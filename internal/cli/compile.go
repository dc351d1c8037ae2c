package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zestlabs/zest/pkg/errors"
	"github.com/zestlabs/zest/pkg/manifest"
	"github.com/zestlabs/zest/pkg/pipeline"
)

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		refresh   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "compile [manifest]",
		Short: "Compile a circuit manifest to a SPICE netlist",
		Long: `Compile reads a TOML circuit manifest, resolves its wired terminals into
electrical nodes, flattens subcircuit definitions, and emits the netlist.

With no argument, compile looks for *` + manifest.Extension + ` files in the
current directory and offers an interactive picker when several exist.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			path, err := resolveManifestPath(args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache, redisAddr)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			sp := newSpinnerWithContext(cmd.Context(), "Compiling "+filepath.Base(path))
			sp.Start()

			res, err := runner.Execute(cmd.Context(), pipeline.Options{
				ManifestPath: path,
				Refresh:      refresh,
				Logger:       logger,
			})
			sp.Stop()
			if err != nil {
				printError("Compilation failed: %s", errors.UserMessage(err))
				return err
			}
			prog.done(fmt.Sprintf("Compiled %q", res.Name))

			printSuccess("Compiled %s", res.Name)
			printStats(res.Stats.Components, res.Stats.NodeCount, res.CacheInfo.NetlistHit)

			if output != "" {
				if err := os.WriteFile(output, []byte(res.Netlist), 0644); err != nil {
					return fmt.Errorf("writing netlist: %w", err)
				}
				printFile(output)
				return nil
			}
			fmt.Print(res.Netlist)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the netlist to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the compile cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompile even on a cache hit")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis compile cache at this address instead of the file cache")

	return cmd
}

// resolveManifestPath picks the manifest to compile: the explicit argument,
// the single candidate in the working directory, or an interactive choice.
func resolveManifestPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	candidates, err := discoverManifests(".")
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", errors.New(errors.ErrCodeFileNotFound,
			"no *%s files in the current directory", manifest.Extension)
	case 1:
		printInfo("Using %s", candidates[0])
		return candidates[0], nil
	default:
		return pickManifest(candidates)
	}
}

// discoverManifests lists manifest files in dir, sorted by name.
func discoverManifests(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*"+manifest.Extension))
}
