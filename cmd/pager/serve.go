package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aellingwood/pager/internal/server"
	"github.com/aellingwood/pager/internal/store"
	tmpl "github.com/aellingwood/pager/internal/template"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: "Start a local server that lists items page by page. Items come from a " +
		"PostgreSQL table when --table is given (connection from DATABASE_URL or " +
		"DB_* variables, optionally read from .env) and are generated otherwise. " +
		"With a table, totals are cached in Redis when --redis-url or REDIS_URL is set. " +
		"Changes to the config file or the view directory reload the page.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Read CLI flags.
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		group, _ := cmd.Root().PersistentFlags().GetString("group")
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		total, _ := cmd.Flags().GetInt("total")
		table, _ := cmd.Flags().GetString("table")
		column, _ := cmd.Flags().GetString("column")
		viewDir, _ := cmd.Flags().GetString("views")
		baseURL, _ := cmd.Flags().GetString("base-url")
		title, _ := cmd.Flags().GetString("title")
		titleTemplate, _ := cmd.Flags().GetString("title-template")
		noLiveReload, _ := cmd.Flags().GetBool("no-live-reload")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		countTTL, _ := cmd.Flags().GetDuration("count-ttl")
		if redisURL == "" {
			redisURL = os.Getenv("REDIS_URL")
		}

		// 2. Load groups and views.
		groups, err := loadGroups(cmd)
		if err != nil {
			return err
		}
		engine, err := tmpl.NewEngine(viewDir)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 3. Pick the item source.
		var counter store.Counter = store.Static{Total: total}
		if table != "" {
			dsn, err := store.DSNFromEnv()
			if err != nil {
				return err
			}
			db, err := store.Open(ctx, dsn, table, column)
			if err != nil {
				return err
			}
			defer db.Close()
			counter = db

			if redisURL != "" {
				cache, err := store.OpenRedis(ctx, redisURL)
				if err != nil {
					return err
				}
				defer cache.Close()
				counter = store.NewCached(db, cache, store.CountKey(table), countTTL)
			}
		}

		// 4. Create the server.
		srv := server.NewServer(groups, engine, counter, server.ServeOptions{
			Port:          port,
			Bind:          bind,
			ConfigPath:    configPath,
			Group:         group,
			ViewDir:       viewDir,
			BaseURL:       baseURL,
			Title:         title,
			TitleTemplate: titleTemplate,
			NoLiveReload:  noLiveReload,
			Verbose:       verbose,
		})
		srv.SetWatcher(server.NewWatcher(srv.WatchPaths(), 100*time.Millisecond, func() {
			log.Println("Change detected, reloading...")
			srv.OnChange()
		}))
		defer func() { _ = srv.Stop() }()

		// 5. Handle graceful shutdown.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
				cancel()
			case <-ctx.Done():
			}
		}()

		// 6. Start the server (blocks until shutdown).
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("bind", "localhost", "address to bind to")
	serveCmd.Flags().Int("total", 1000, "number of generated items when no table is given")
	serveCmd.Flags().String("table", "", "PostgreSQL table to page through")
	serveCmd.Flags().String("column", "", "column listed for each row (default: the whole row)")
	serveCmd.Flags().String("redis-url", "", "cache table totals in Redis (default: $REDIS_URL)")
	serveCmd.Flags().Duration("count-ttl", 30*time.Second, "how long cached totals are used")
	serveCmd.Flags().String("views", "", "directory of views overriding the built-in ones")
	serveCmd.Flags().String("base-url", "", "base URL for page links (default: from the request)")
	serveCmd.Flags().String("title", "Items", "listing title")
	serveCmd.Flags().String("title-template", server.DefaultTitleTemplate, "title of pages after the first ({title}, {page}, {total})")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}
