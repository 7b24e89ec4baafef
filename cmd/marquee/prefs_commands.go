package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/prefs"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show the preference catalog and the persisted state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openPrefs(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPrefs(store))
			return nil
		},
	}
	prefsCmd.AddCommand(newPrefsToggleCommand(ctx))
	return prefsCmd
}

func newPrefsToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a preference, or apply a preset, and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, path, err := openPrefs(ctx)
			if err != nil {
				return err
			}
			changed, err := store.Apply(args[0])
			if err != nil {
				return fmt.Errorf("toggle %q: %w", args[0], err)
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing changed\n", args[0])
				return nil
			}
			if err := prefs.Save(path, store.Snapshot()); err != nil {
				return fmt.Errorf("save preferences: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s applied, saved to %s\n", args[0], path)
			return nil
		},
	}
}

// openPrefs loads the persisted preferences into a store.
func openPrefs(ctx *commandContext) (*prefs.Store, string, error) {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return nil, "", err
	}
	path, err := prefs.ResolvePath(cfg.PrefsPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolve prefs path: %w", err)
	}
	f, err := prefs.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load preferences: %w", err)
	}
	store := prefs.NewStore(prefs.DefaultCatalog(), log.Default())
	store.Restore(f)
	return store, path, nil
}

func renderPrefs(store *prefs.Store) string {
	catalog := store.Catalog()
	rows := make([][]string, 0, len(catalog.Preferences)+len(catalog.Presets))
	for _, d := range catalog.Preferences {
		kind := "preference"
		if d.Protected {
			kind = "protected"
		}
		rows = append(rows, []string{d.ID, kind, strconv.FormatBool(store.IsEnabled(d.ID)), strconv.FormatBool(d.Default), d.Description})
	}
	for _, p := range catalog.Presets {
		rows = append(rows, []string{p.ID, "preset", "", "", p.Description})
	}
	return renderTable([]column{
		{title: "ID"},
		{title: "Kind"},
		{title: "Enabled"},
		{title: "Default"},
		{title: "Description"},
	}, rows)
}
