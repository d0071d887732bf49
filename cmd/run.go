package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/basp-group/basplib-redirect/config"
	"github.com/basp-group/basplib-redirect/countdown"
	"github.com/basp-group/basplib-redirect/monitoring"
	"github.com/basp-group/basplib-redirect/navigation"
	"github.com/basp-group/basplib-redirect/page"
	"github.com/basp-group/basplib-redirect/sim/id"
	"github.com/basp-group/basplib-redirect/sim/timing"
	"github.com/basp-group/basplib-redirect/surface"
	"github.com/basp-group/basplib-redirect/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the countdown and redirect.",
	Long: "Settings come from defaults, then .env and BASP_REDIRECT_* " +
		"variables, then flags.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		applyFlags(cmd, &cfg)

		if err := cfg.Validate(); err != nil {
			return err
		}

		hold, _ := cmd.Flags().GetBool("hold")

		ctx, stop := signal.NotifyContext(
			cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = runRedirect(ctx, cfg, hold, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted.")
			return nil
		}

		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := config.Default()
	f := runCmd.Flags()
	f.String("env-file", ".env", "File with BASP_REDIRECT_* variables")
	f.String("url", d.Destination, "Destination URL")
	f.Int("seconds", d.Seconds, "First value shown")
	f.Duration("interval", d.Interval, "Time between ticks")
	f.String("surface", d.Surface, "Where to show the countdown: stdout, terminal or none")
	f.String("navigator", d.Navigator, "How to navigate: browser, print or none")
	f.Int("monitor-port", d.MonitorPort,
		"Serve the page and API on this port; 0 picks a free port, -1 disables")
	f.String("trace-db", d.TraceDB, "Record ticks into this SQLite file (without extension)")
	f.Int("refresh", d.MonitorRefresh, "Seconds between reloads of the page served by the monitor")
	f.Bool("log-events", d.LogEvents, "Log every engine event and tick to stderr")
	f.Bool("parallel-ids", d.ParallelIDs, "Use globally unique event and trace IDs")
	f.Bool("hold", false, "Keep the monitor serving after the redirect until interrupted")
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()

	if f.Changed("url") {
		cfg.Destination, _ = f.GetString("url")
	}

	if f.Changed("seconds") {
		cfg.Seconds, _ = f.GetInt("seconds")
	}

	if f.Changed("interval") {
		cfg.Interval, _ = f.GetDuration("interval")
	}

	if f.Changed("surface") {
		cfg.Surface, _ = f.GetString("surface")
	}

	if f.Changed("navigator") {
		cfg.Navigator, _ = f.GetString("navigator")
	}

	if f.Changed("monitor-port") {
		cfg.MonitorPort, _ = f.GetInt("monitor-port")
	}

	if f.Changed("trace-db") {
		cfg.TraceDB, _ = f.GetString("trace-db")
	}

	if f.Changed("refresh") {
		cfg.MonitorRefresh, _ = f.GetInt("refresh")
	}

	if f.Changed("log-events") {
		cfg.LogEvents, _ = f.GetBool("log-events")
	}

	if f.Changed("parallel-ids") {
		cfg.ParallelIDs, _ = f.GetBool("parallel-ids")
	}
}

func runRedirect(
	ctx context.Context,
	cfg config.Config,
	hold bool,
	out, errOut io.Writer,
) error {
	if cfg.ParallelIDs {
		id.UseParallelIDGenerator()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := timing.NewRealTimeEngine(timing.SystemClock{})
	logger := log.New(errOut, "", log.LstdFlags)

	if cfg.LogEvents {
		engine.AcceptHook(timing.NewEventLogger(logger))
	}

	doc := page.NewDocument(
		"Redirecting to "+cfg.Destination, "about:blank", countdown.ElementID)

	display, closeDisplay, err := openSurface(cfg, out, cancel)
	if err != nil {
		return err
	}
	defer closeDisplay()

	switch cfg.Navigator {
	case config.NavigatorBrowser:
		doc.OnNavigate(navigation.NewBrowserNavigator(errOut, errOut).Assign)
	case config.NavigatorPrint:
		doc.OnNavigate(navigation.NewPrintNavigator(out).Assign)
	}

	ctrl := countdown.MakeBuilder().
		WithEngine(engine).
		WithSeconds(cfg.Seconds).
		WithInterval(cfg.Interval).
		WithDestination(cfg.Destination).
		WithDisplay(surface.Tee(doc.Display(countdown.ElementID), display)).
		WithNavigator(doc).
		Build("Countdown")

	if cfg.LogEvents {
		ctrl.AcceptHook(countdown.NewLogHook(logger))
	}

	if cfg.TraceDB != "" {
		recorder, err := tracing.NewRecorder(cfg.TraceDB)
		if err != nil {
			return err
		}
		defer recorder.Close()
		defer func() {
			if err := recorder.Flush(); err != nil {
				logger.Printf("flush trace: %v", err)
			}
		}()

		ctrl.AcceptHook(recorder)
	}

	var monitor *monitoring.Monitor
	if cfg.MonitorPort >= 0 {
		monitor = monitoring.NewMonitor().
			WithPortNumber(cfg.MonitorPort).
			WithRefreshSeconds(cfg.MonitorRefresh)
		monitor.RegisterEngine(engine)
		monitor.RegisterDocument(doc)
		monitor.RegisterCountdown(ctrl)

		if _, err := monitor.StartServer(); err != nil {
			return fmt.Errorf("start monitor: %w", err)
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second)
			defer cancel()

			_ = monitor.StopServer(shutdownCtx)
		}()
	}

	doc.OnLoad(ctrl.Start)
	doc.Load()

	if err := engine.RunContext(ctx); err != nil {
		return err
	}

	if hold && monitor != nil {
		<-ctx.Done()
	}

	return nil
}

// openSurface returns the display for cfg and a function that releases it.
// An interactive surface calls stop when the user asks to quit.
func openSurface(
	cfg config.Config,
	out io.Writer,
	stop func(),
) (countdown.Display, func(), error) {
	switch cfg.Surface {
	case config.SurfaceStdout:
		return surface.NewWriterDisplay(out), func() {}, nil
	case config.SurfaceTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, err
		}

		if err := screen.Init(); err != nil {
			return nil, nil, err
		}

		display := surface.NewTerminalDisplay(screen, "Redirecting to "+cfg.Destination)
		display.WatchKeys(stop)

		return display, screen.Fini, nil
	default:
		return nil, func() {}, nil
	}
}
