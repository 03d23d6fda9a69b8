package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pribylovaa/fritter-signals/internal/client"
	"github.com/pribylovaa/fritter-signals/internal/config"
	"github.com/pribylovaa/fritter-signals/internal/metrics"
	"github.com/pribylovaa/fritter-signals/internal/mirror"
	"github.com/pribylovaa/fritter-signals/internal/models"
	"github.com/pribylovaa/fritter-signals/internal/syncer"
)

// app — зависимости одной команды, собираются в PersistentPreRunE.
type app struct {
	cfg       *config.ClientConfig
	coord     *syncer.Coordinator
	registry  *prometheus.Registry
	onRefresh func(*mirror.Snapshot)
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		author     string
		userID     string
		a          app
	)

	root := &cobra.Command{
		Use:           "signalsctl",
		Short:         "Client for the signals-service: reactions and controversy warnings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("user") {
				cfg.Server.UserID = userID
			}
			if cmd.Flags().Changed("author") {
				cfg.Sync.Author = author
			}

			slog.SetDefault(setupLogger(cfg.Env, cmd.ErrOrStderr()))

			return a.init(cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	root.PersistentFlags().StringVar(&author, "author", "", "limit the mirror to posts of this author (UUID or username)")
	root.PersistentFlags().StringVar(&userID, "user", "", "caller identity (UUID), overrides server.user_id")

	root.AddCommand(
		refreshCmd(&a),
		showCmd(&a),
		reactCmd(&a),
		unreactCmd(&a),
		flagCmd(&a),
		voteCmd(&a),
		watchCmd(&a),
	)

	return root
}

func (a *app) init(cfg *config.ClientConfig) error {
	var caller uuid.UUID
	if raw := strings.TrimSpace(cfg.Server.UserID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("server.user_id must be a UUID: %w", err)
		}
		caller = id
	}

	cl, err := client.New(cfg.Server.URL, caller, &http.Client{Timeout: cfg.Sync.Timeout})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.registry = prometheus.NewRegistry()
	a.coord = syncer.New(cl, mirror.New(),
		syncer.WithTimeout(cfg.Sync.Timeout),
		syncer.WithAuthorFilter(cfg.Sync.Author),
		syncer.WithMetrics(metrics.New(a.registry)),
		syncer.WithOnRefresh(func(s *mirror.Snapshot) {
			if a.onRefresh != nil {
				a.onRefresh(s)
			}
		}),
	)

	return nil
}

func refreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Pull reactions and warnings and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.coord.Refresh(cmd.Context()); err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), a.coord.Mirror().Snapshot())
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <post_id>",
		Short: "Show reactions and the controversy warning of one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			if err := a.coord.Refresh(cmd.Context()); err != nil {
				return err
			}

			printPost(cmd.OutOrStdout(), a.coord.Mirror().Snapshot(), postID)
			return nil
		},
	}
}

func reactCmd(a *app) *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "react <post_id> <emotion>",
		Short: "React to a post (happy, sad, angry, confused, shocked)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			call := a.coord.React
			if update {
				call = a.coord.UpdateReaction
			}

			r, err := call(cmd.Context(), postID, args[1])
			if err := staleOK(cmd, err); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "reaction %s: %s (%s)\n", r.ID, r.Emotion, models.FormatDisplay(r.ModifiedAt))
			printPost(cmd.OutOrStdout(), a.coord.Mirror().Snapshot(), postID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "change an existing reaction instead of creating one")

	return cmd
}

func unreactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unreact <post_id>",
		Short: "Remove your reaction from a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			if err := staleOK(cmd, a.coord.RemoveReaction(cmd.Context(), postID)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "reaction removed")
			printPost(cmd.OutOrStdout(), a.coord.Mirror().Snapshot(), postID)
			return nil
		},
	}
}

func flagCmd(a *app) *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "flag <post_id>",
		Short: "Mark a post as controversial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			_, err = a.coord.CreateWarning(cmd.Context(), postID, active)
			if err := staleOK(cmd, err); err != nil {
				return err
			}

			printPost(cmd.OutOrStdout(), a.coord.Mirror().Snapshot(), postID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "create the warning already active")

	return cmd
}

func voteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <post_id>",
		Short: "Vote for the controversy warning of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := parsePostID(args[0])
			if err != nil {
				return err
			}

			_, err = a.coord.CastVote(cmd.Context(), postID)
			if err := staleOK(cmd, err); err != nil {
				return err
			}

			printPost(cmd.OutOrStdout(), a.coord.Mirror().Snapshot(), postID)
			return nil
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the mirror refreshed and print a summary after every refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						slog.Error("metrics_serve_failed", slog.String("err", err.Error()))
					}
				}()
				defer srv.Close()
			}

			a.onRefresh = func(s *mirror.Snapshot) { printSummary(out, s) }

			err := a.coord.Run(cmd.Context(), a.cfg.Sync.Interval)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

// staleOK превращает ErrStale в предупреждение: мутация на сервере уже выполнена.
func staleOK(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, syncer.ErrStale) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}

	return err
}

func parsePostID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("post id %q is not a UUID", raw)
	}

	return id, nil
}

func printSummary(w io.Writer, s *mirror.Snapshot) {
	reactions, active := 0, 0
	for _, id := range s.PostIDs() {
		reactions += len(s.Reactions(id))
		if wr, ok := s.Warning(id); ok && wr.Active {
			active++
		}
	}

	fmt.Fprintf(w, "posts=%d reactions=%d active_warnings=%d version=%d\n", s.Len(), reactions, active, s.Version())
}

func printPost(w io.Writer, s *mirror.Snapshot, postID uuid.UUID) {
	fmt.Fprintf(w, "post %s\n", postID)

	counts := s.Counts(postID)
	for _, e := range models.Emotions() {
		if n := counts[e]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", e, n)
		}
	}

	wr, ok := s.Warning(postID)
	if !ok {
		fmt.Fprintln(w, "  warning: none")
		return
	}

	fmt.Fprintf(w, "  warning: %s votes=%d modified=%s\n", wr.State(), wr.VoteCount, models.FormatDisplay(wr.ModifiedAt))
}

func setupLogger(env string, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}

	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "dev":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
}
