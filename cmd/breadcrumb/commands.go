package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	breadcrumb "github.com/goliatone/go-breadcrumb"
	breadcrumbscmd "github.com/goliatone/go-breadcrumb/internal/commands/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/di"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/logging/console"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

const shutdownTimeout = 10 * time.Second

// session is the module opened for a single command invocation.
type session struct {
	cfg         breadcrumb.Config
	module      *breadcrumb.Module
	logger      interfaces.Logger
	unsubscribe func()
}

func (s *session) close() error {
	s.unsubscribe()
	return s.module.Close()
}

// preload applies the seed file and imports the content directory when they
// are set. Used by trail and serve to populate the memory provider.
func (s *session) preload(ctx context.Context, seedFile, contentDir string) error {
	if seedFile != "" {
		if err := dispatcher.Dispatch(ctx, breadcrumbscmd.SeedSiteCommand{File: seedFile}); err != nil {
			return err
		}
	}
	if contentDir != "" {
		return dispatcher.Dispatch(ctx, breadcrumbscmd.ImportContentCommand{
			Directory:     contentDir,
			Root:          s.cfg.Importer.Root,
			IncludeDrafts: s.cfg.Importer.IncludeDrafts,
		})
	}
	return nil
}

type cli struct {
	configPath string
}

func (c *cli) open(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var opts []di.Option
	if p := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)); p == "" || p == "console" {
		consoleOpts := console.Options{Writer: cmd.ErrOrStderr()}
		if level, err := console.ParseLevel(cfg.Logging.Level); err == nil {
			consoleOpts.MinLevel = &level
		}
		opts = append(opts, di.WithLoggerProvider(console.NewProvider(consoleOpts)))
	}

	module, err := breadcrumb.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	container := module.Container()
	return &session{
		cfg:         cfg,
		module:      module,
		logger:      logging.ModuleLogger(container.LoggerProvider(), "breadcrumb.cli"),
		unsubscribe: subscribe(container.Commands()),
	}, nil
}

// run opens a session around fn and closes it afterwards.
func (c *cli) run(fn func(cmd *cobra.Command, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		s, err := c.open(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, s)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "breadcrumb",
		Short:         "Build breadcrumb trails from menus and a content tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (yaml, json or toml)")

	root.AddCommand(
		c.trailCommand(),
		c.serveCommand(),
		c.importCommand(),
		c.seedCommand(),
		c.invalidateCommand(),
	)
	return root
}

func (c *cli) trailCommand() *cobra.Command {
	var path, format, seedFile, contentDir string
	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Print the breadcrumb trail for a request path",
		RunE: c.run(func(cmd *cobra.Command, s *session) error {
			ctx := cmd.Context()
			if err := s.preload(ctx, seedFile, contentDir); err != nil {
				return err
			}
			trail, err := s.module.Trail(ctx, path)
			if err != nil {
				return err
			}
			return writeTrail(cmd.OutOrStdout(), s, trail, format)
		}),
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "request path info")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or html")
	cmd.Flags().StringVar(&seedFile, "seed", "", "site file applied before building")
	cmd.Flags().StringVar(&contentDir, "import", "", "content directory imported before building")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func writeTrail(w io.Writer, s *session, trail *breadcrumb.Breadcrumb, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		for _, item := range trail.Items() {
			href := "-"
			if link := item.Link(); link != nil {
				href = link.Href()
				if link.NotFound {
					href += " (not found)"
				}
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", item.Label(), href); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(trail)
	case "html":
		html, err := s.module.Container().Renderer().RenderString(trail)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, html)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func (c *cli) serveCommand() *cobra.Command {
	var addr, seedFile, contentDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the breadcrumb HTTP API",
		RunE: c.run(func(cmd *cobra.Command, s *session) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := s.preload(ctx, seedFile, contentDir); err != nil {
				return err
			}
			if addr == "" {
				addr = s.cfg.HTTP.Addr
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           s.module.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				s.logger.Info("cli.serve.listening", "addr", addr)
				errc <- server.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			s.logger.Info("cli.serve.shutdown", "addr", addr)
			return server.Shutdown(shutdownCtx)
		}),
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (defaults to http.addr)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "site file applied on start")
	cmd.Flags().StringVar(&contentDir, "import", "", "content directory imported on start")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	var msg breadcrumbscmd.ImportContentCommand
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a directory of markdown files into the content tree",
		RunE: c.run(func(cmd *cobra.Command, s *session) error {
			if msg.Directory == "" {
				msg.Directory = s.cfg.Importer.ContentDir
			}
			if msg.Root == "" {
				msg.Root = s.cfg.Importer.Root
			}
			if !cmd.Flags().Changed("drafts") {
				msg.IncludeDrafts = s.cfg.Importer.IncludeDrafts
			}
			if err := dispatcher.Dispatch(cmd.Context(), msg); err != nil {
				return err
			}
			result := s.module.Container().Commands().ImportContent.LastResult()
			if result == nil {
				return nil
			}
			verb := "created"
			if msg.DryRun {
				verb = "would create"
			}
			out := cmd.OutOrStdout()
			for _, path := range result.Created {
				fmt.Fprintf(out, "%s\t%s\n", verb, path)
			}
			fmt.Fprintf(out, "%d documents, %d created, %d skipped\n", len(result.Documents), len(result.Created), len(result.Skipped))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&msg.Directory, "dir", "d", "", "content directory (defaults to importer.content_dir)")
	cmd.Flags().StringVar(&msg.Root, "root", "", "content path the directory is mounted at")
	cmd.Flags().BoolVar(&msg.DryRun, "dry-run", false, "list the pages without creating them")
	cmd.Flags().BoolVar(&msg.IncludeDrafts, "drafts", false, "include documents marked as draft")
	return cmd
}

func (c *cli) seedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply a site file with menus and pages",
		RunE: c.run(func(cmd *cobra.Command, s *session) error {
			if err := dispatcher.Dispatch(cmd.Context(), breadcrumbscmd.SeedSiteCommand{File: file}); err != nil {
				return err
			}
			result := s.module.Container().Commands().SeedSite.LastResult()
			if result == nil {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d pages, %d menus, %d items, %d skipped\n",
				len(result.Pages), len(result.Menus), len(result.Items), len(result.Skipped))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "site file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) invalidateCommand() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Clear cached menu and page lookups",
		RunE: c.run(func(cmd *cobra.Command, s *session) error {
			return dispatcher.Dispatch(cmd.Context(), breadcrumbscmd.InvalidateCacheCommand{Scope: scope})
		}),
	}
	cmd.Flags().StringVar(&scope, "scope", "", "menus or pages; empty clears both")
	return cmd
}
