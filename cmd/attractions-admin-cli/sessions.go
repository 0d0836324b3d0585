package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/attractions-admin/internal/ports"
)

const defaultStoreTimeout = 30 * time.Second

type listSessionsOptions struct {
	JSON    bool
	Timeout time.Duration
}

type clearSessionOptions struct {
	Scope   string
	Yes     bool
	Timeout time.Duration
}

type sessionRow struct {
	Scope       string `json:"scope"`
	UserID      string `json:"userId,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
}

func parseListSessionsFlags(args []string) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listSessionsOptions{}
	fs.BoolVar(&opts.JSON, "json", false, "Print sessions as JSON")
	fs.DurationVar(&opts.Timeout, "timeout", defaultStoreTimeout, "Maximum duration for the listing")

	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Timeout <= 0 {
		return listSessionsOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseClearSessionFlags(args []string) (clearSessionOptions, error) {
	fs := flag.NewFlagSet("clear-session", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := clearSessionOptions{}
	fs.StringVar(&opts.Scope, "scope", "", "Client scope (client_id cookie value) to clear")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")
	fs.DurationVar(&opts.Timeout, "timeout", defaultStoreTimeout, "Maximum duration for the operation")

	if err := fs.Parse(args); err != nil {
		return clearSessionOptions{}, err
	}
	opts.Scope = strings.TrimSpace(opts.Scope)
	if opts.Scope == "" {
		return clearSessionOptions{}, errors.New("--scope is required")
	}
	if opts.Timeout <= 0 {
		return clearSessionOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func commandTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args)
	if err != nil {
		return err
	}
	ctx, cancel := commandTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withStore(cmdCtx, func(store sessionStore) error {
		rows, listErr := collectSessions(ctx, store)
		if listErr != nil {
			return listErr
		}
		if opts.JSON {
			enc := json.NewEncoder(cmdCtx.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		return printSessions(cmdCtx.Stdout, rows)
	})
}

// collectSessions reads each listed scope. Scopes whose pair is torn or vanished
// between listing and reading are skipped, the same way the server would treat them.
func collectSessions(ctx context.Context, store sessionStore) ([]sessionRow, error) {
	scopes, err := store.Scopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	rows := make([]sessionRow, 0, len(scopes))
	for _, scope := range scopes {
		sess, getErr := store.Get(ctx, scope)
		if errors.Is(getErr, ports.ErrSessionNotFound) {
			continue
		}
		if getErr != nil {
			return nil, fmt.Errorf("read session %s: %w", scope, getErr)
		}
		row := sessionRow{Scope: scope}
		if sess.User != nil {
			row.UserID = sess.User.ID
			row.Email = sess.User.Email
			row.DisplayName = sess.User.DisplayName
			row.Role = string(sess.User.Role)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printSessions(w io.Writer, rows []sessionRow) error {
	if len(rows) == 0 {
		return writeln(w, "No stored sessions.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "SCOPE\tUSER\tEMAIL\tROLE\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", r.Scope, r.DisplayName, r.Email, r.Role); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\n%d session(s)\n", len(rows))
}

func runClearSession(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionFlags(args)
	if err != nil {
		return err
	}
	if !opts.Yes {
		if confirmErr := confirm(cmdCtx, fmt.Sprintf("Clear the stored session for scope %q?", opts.Scope)); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := commandTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withStore(cmdCtx, func(store sessionStore) error {
		if clearErr := store.Clear(ctx, opts.Scope); clearErr != nil {
			return fmt.Errorf("clear session: %w", clearErr)
		}
		cmdCtx.Logger.Info("session cleared", "scope", opts.Scope)
		return writef(cmdCtx.Stdout, "Cleared session for scope %s\n", opts.Scope)
	})
}

func runPurgeSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("purge-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	timeout := fs.Duration("timeout", defaultStoreTimeout, "Maximum duration for the purge")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := commandTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	return withStore(cmdCtx, func(store sessionStore) error {
		purger, ok := store.(ports.SessionPurger)
		if !ok {
			return fmt.Errorf("session store %q expires entries on its own; nothing to purge", cmdCtx.Config.Session.Store)
		}
		n, purgeErr := purger.PurgeExpired(ctx)
		if purgeErr != nil {
			return purgeErr
		}
		return writef(cmdCtx.Stdout, "Purged %d expired session(s)\n", n)
	})
}

func confirm(cmdCtx *commandContext, prompt string) error {
	if err := writef(cmdCtx.Stdout, "%s [y/N]: ", prompt); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	in := cmdCtx.Stdin
	if in == nil {
		in = os.Stdin
	}
	resp, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}
