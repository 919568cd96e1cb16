package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmaxmax/crosscc/internal/config"
	"github.com/tmaxmax/crosscc/internal/render"
	"github.com/tmaxmax/crosscc/internal/snapshot"
	"github.com/tmaxmax/crosscc/pkg/toolchain"
	"github.com/tmaxmax/crosscc/pkg/toolchain/gcc"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags]",
	Short: "Print the toolchain descriptor the environment describes",
	Long: `Resolve the toolchain descriptor described by the environment and print it.
With --all, every [[target]] of the config file is resolved as well.`,
	Args: cobra.NoArgs,
	RunE: resolveExecution,
}

func init() {
	resolveCmd.Flags().String("format", "json", "output format (json|toml)")
	resolveCmd.Flags().Bool("all", false, "also resolve every [[target]] from the config file")
	resolveCmd.Flags().String("cache-dir", "", "snapshot cache directory (default $XDG_CACHE_HOME/crosscc)")
	resolveCmd.Flags().Bool("no-cache", false, "always resolve, ignoring cached snapshots")
}

func resolveExecution(cmd *cobra.Command, _ []string) error {
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(formatValue)
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}

	envs := []toolchain.Env{toolchain.OSEnv{}}
	if all {
		envs = append(envs, targetEnvs(settings.cfg)...)
	}

	records := make([]render.Record, len(envs))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, env := range envs {
		i, env := i, env
		g.Go(func() error {
			rec, err := resolveRecord(ctx, env, cache)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return render.Encode(cmd.OutOrStdout(), format, records...)
}

func openCache(cmd *cobra.Command) (*snapshot.Cache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil || noCache {
		return nil, err
	}

	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		if dir, err = snapshot.DefaultDir(); err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
	}

	return snapshot.Open(dir)
}

// resolveRecord returns the cached record for the environment snapshot, or
// resolves and caches it. A nil cache always resolves.
func resolveRecord(ctx context.Context, env toolchain.Env, cache *snapshot.Cache) (render.Record, error) {
	key := snapshot.Fingerprint(env, settings.cfg.EnvNames().Watched(), settings.cfg.Probe.Settings()...)

	rec, ok, err := cache.Get(key)
	if err != nil {
		settings.logger.Printf("ignoring snapshot %s: %v", key, err)
	} else if ok {
		settings.logger.Printf("using snapshot %s", key)
		return rec, nil
	}

	res, err := resolve(ctx, env)
	if err != nil {
		return render.Record{}, err
	}

	rec = render.FromResolution(res)
	if err := cache.Put(key, rec); err != nil {
		settings.logger.Printf("failed to store snapshot %s: %v", key, err)
	}

	return rec, nil
}

func resolve(ctx context.Context, env toolchain.Env) (toolchain.Resolution, error) {
	cfg := settings.cfg

	return toolchain.Resolve(ctx, env,
		toolchain.WithEnvNames(cfg.EnvNames()),
		toolchain.WithLogger(settings.logger),
		toolchain.WithDiscoverOptions(toolchain.WithNoopTool(cfg.Probe.NoopTool)),
		toolchain.WithIncludeExtractor(gcc.IncludeExtractor(
			gcc.WithTimeout(time.Duration(cfg.Probe.IncludeTimeout)),
			gcc.WithLogger(settings.logger),
		)),
	)
}

// overlayEnv answers from its overrides first and from the process
// environment otherwise.
type overlayEnv struct {
	overrides toolchain.MapEnv
}

func (e overlayEnv) LookupEnv(key string) (string, bool) {
	if v, ok := e.overrides.LookupEnv(key); ok {
		return v, true
	}
	return os.LookupEnv(key)
}

func targetEnvs(cfg config.Config) []toolchain.Env {
	names := cfg.EnvNames()

	envs := make([]toolchain.Env, len(cfg.Targets))
	for i, t := range cfg.Targets {
		envs[i] = overlayEnv{overrides: toolchain.MapEnv{
			names.Triple: t.Triple,
			names.Prefix: t.Prefix,
			names.Suffix: t.Suffix,
		}}
	}
	return envs
}
