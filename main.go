package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/vimy/vimy-squads/agent"
	"github.com/nstehr/vimy/vimy-squads/catalog"
	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/config"
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Squad Allocation for RTS Bots`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Listen on the domain socket and allocate squads each tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	root := &cobra.Command{
		Use:   "vimy-squads",
		Short: "Combat squad allocation sidecar",
		Long: `vimy-squads receives the world state from a game mod over a Unix
domain socket, divides the army into squads, and replies with each
squad's directive plus garrison, cancel and scan commands.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./vimy-squads.yaml)")
	root.PersistentFlags().String("socket", config.DefaultSocket, "unix socket path")
	root.PersistentFlags().String("catalog", "", "YAML unit catalog (default is the built-in one)")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().Uint64("seed", 0, "random seed for recon targets (0 picks one)")
	_ = v.BindPFlag("socket", root.PersistentFlags().Lookup("socket"))
	_ = v.BindPFlag("catalog.path", root.PersistentFlags().Lookup("catalog"))
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("combat.seed", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(serve, newCatalogCmd(v, &cfgFile))
	return root
}

// newCatalogCmd prints the effective catalog, handy when writing overrides.
func newCatalogCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the unit types and categories the allocator knows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range cat.Names() {
				info := cat.Info(name)
				fmt.Fprintf(out, "%-24s %s\n", name, info.Category)
			}
			return nil
		},
	}
}

func loadCatalog(c config.CatalogConfig) (*catalog.Catalog, error) {
	if c.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(c.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func run(parent context.Context, cfg *config.Config) error {
	slog.SetDefault(cfg.Log.NewLogger(os.Stdout))

	fmt.Println(banner)

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	slog.Info("starting vimy-squads", "catalogTypes", cat.Len(), "catalog", cfg.Catalog.Path)

	socketPath := cfg.Socket

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, cat, cfg.Combat)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func handleConn(ctx context.Context, conn net.Conn, cat *catalog.Catalog, cfg combat.Config) {
	c := ipc.NewConnection(conn, nil)
	a := agent.New(c, cat, cfg)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeTick, a.HandleTick)
	c.ReadLoop(ctx)
}
