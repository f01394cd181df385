// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the maintenance entry point for the Inkwell blog
// backend. It loads configuration, connects to services, and runs one
// of the maintenance subcommands:
//
//	inkwell migrate   apply pending database migrations
//	inkwell seed      migrate, then insert development seed data
//	inkwell tree      print the category hierarchy
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inkwell <migrate|seed|tree>")
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "env", cfg.Env)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	switch command {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied")

	case "seed":
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}

	case "tree":
		if err := printTree(cfg, db); err != nil {
			slog.Error("failed to print category tree", "error", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: inkwell <migrate|seed|tree>\n", command)
		os.Exit(2)
	}
}

// printTree loads the category hierarchy and writes it to stdout with
// one indented line per category. It reads the warm copy from Valkey
// when one exists and falls back to the database, refilling the cache
// on the way out.
func printTree(cfg *config.Config, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var treeCache *cache.TreeCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, reading tree from database", "error", err)
	} else {
		defer valkeyClient.Close()
		treeCache = cache.NewTreeCache(valkeyClient, cache.DefaultTreeTTL)
	}

	var roots []*models.Category
	if treeCache != nil {
		if cached, ok := treeCache.Get(ctx); ok {
			roots = cached
		}
	}
	if roots == nil {
		roots, err = store.NewCategoryStore(db).Tree()
		if err != nil {
			return err
		}
		if treeCache != nil {
			treeCache.Set(ctx, roots)
		}
	}

	if len(roots) == 0 {
		fmt.Println("no categories")
		return nil
	}

	var walk func(nodes []*models.Category)
	walk = func(nodes []*models.Category) {
		for _, c := range nodes {
			indent := strings.Repeat("  ", c.Depth())
			fmt.Printf("%s%s (%s)\n", indent, c.Name, c.Slug)
			walk(c.Children)
		}
	}
	walk(roots)
	return nil
}
