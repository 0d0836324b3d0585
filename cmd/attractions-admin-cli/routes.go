package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/target/attractions-admin/internal/routes"
)

func runCheckRoutes(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("check-routes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	file := fs.String("file", cmdCtx.Config.HTTP.RoutesFile, "Route table to check (defaults to ROUTES_FILE, then the embedded table)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := routes.Load(*file)
	if err != nil {
		return fmt.Errorf("invalid route table: %w", err)
	}
	return printRouteTable(cmdCtx, *file, table)
}

func printRouteTable(cmdCtx *commandContext, source string, table *routes.Table) error {
	if source == "" {
		source = "embedded default"
	}
	w := cmdCtx.Stdout
	if err := writef(w, "Route table OK (%s)\n", source); err != nil {
		return err
	}
	if err := writef(w, "login: %s  after login: %s  not found: %s\n\n",
		table.LoginPath, table.AfterLoginPath, table.NotFoundPath); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "PATH\tACTION\tGUARD\n"); err != nil {
		return err
	}
	for _, r := range table.Routes {
		action := "serve " + string(r.Serve)
		if r.Redirect != "" {
			action = "redirect " + r.Redirect
		}
		guard := "-"
		if r.Guard != nil {
			guard = "authenticated"
			if r.Guard.Role != "" {
				guard = "role " + string(r.Guard.Role)
			}
		}
		if err := writef(tw, "%s\t%s\t%s\n", r.Path, action, guard); err != nil {
			return err
		}
	}
	return tw.Flush()
}
