package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/bannerpin/bannerpin/internal/ax"
	"github.com/bannerpin/bannerpin/internal/config"
	"github.com/bannerpin/bannerpin/internal/display"
	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/hotkeys"
	"github.com/bannerpin/bannerpin/internal/ipc"
	"github.com/bannerpin/bannerpin/internal/lifecycle"
	"github.com/bannerpin/bannerpin/internal/tui"
	"github.com/bannerpin/bannerpin/internal/watcher"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: bannerpin daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: bannerpin daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "position":
		os.Exit(runPosition(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "resubscribe":
		os.Exit(runResubscribe(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "pick":
		os.Exit(runPick(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bannerpin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the bannerpin daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List monitors and usable geometry")
	fmt.Fprintln(w, "  resubscribe         Re-attempt the notifier event subscription")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  position get        Show the active banner position")
	fmt.Fprintln(w, "  position set        Move banners to a position")
	fmt.Fprintln(w, "  position list       List the nine valid positions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pick                Open the interactive position picker")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'bannerpin <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bannerpin status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("state:            %s\n", status.State)
	fmt.Printf("position:         %s\n", status.Position)
	fmt.Printf("notifier_running: %v\n", status.NotifierRunning)
	fmt.Printf("placement_cached: %v\n", status.PlacementCached)
	fmt.Printf("overlay_visible:  %v\n", status.OverlayVisible)
	fmt.Printf("moved_count:      %d\n", status.MovedCount)
	if !status.LastMove.IsZero() {
		fmt.Printf("last_move:        %s\n", status.LastMove.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	return 0
}

func printPositionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bannerpin position get")
	fmt.Fprintln(w, "  bannerpin position set [--no-persist] <position>")
	fmt.Fprintln(w, "  bannerpin position list")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'bannerpin position <command> --help' for command-specific options.")
}

func runPosition(args []string) int {
	if len(args) == 0 {
		printPositionUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printPositionUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "get":
		fs := flag.NewFlagSet("get", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: bannerpin position get")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		status, err := client.GetStatus()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(status.Position)
		return 0

	case "set":
		fs := flag.NewFlagSet("set", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: bannerpin position set [--no-persist] <position>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Move banners to one of the nine positions and save the choice.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		noPersist := fs.Bool("no-persist", false, "Apply without writing the config file")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "position set requires <position>")
			fs.Usage()
			return 2
		}
		if err := client.SetPosition(fs.Arg(0), !*noPersist); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: bannerpin position list")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.GetPositions()
		if err != nil {
			// Daemon down; the valid names are still useful.
			for _, name := range geometry.AnchorNames() {
				fmt.Printf("- %s\n", name)
			}
			return 0
		}
		for _, name := range data.Positions {
			marker := " "
			if name == data.Active {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown position command: %s\n\n", args[0])
		printPositionUsage(os.Stderr)
		return 2
	}
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bannerpin monitors")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range data.Monitors {
		fmt.Printf("%d: %s %dx%d+%d+%d (usable %dx%d+%d+%d)\n",
			m.ID, m.Name, m.Width, m.Height, m.X, m.Y,
			m.UsableWidth, m.UsableHeight, m.UsableX, m.UsableY)
	}
	return 0
}

func runResubscribe(args []string) int {
	fs := flag.NewFlagSet("resubscribe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bannerpin resubscribe")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-attempt its notifier event subscription.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Resubscribe(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bannerpin reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reload the daemon's configuration from disk.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  bannerpin config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  bannerpin config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/bannerpin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/bannerpin/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runPick(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: bannerpin pick")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive 3x3 position picker. Moving the selection previews the")
		fmt.Fprintln(os.Stderr, "position live through the daemon; Enter saves it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  arrows, hjkl  Move selection")
		fmt.Fprintln(os.Stderr, "  1-9           Jump to a cell")
		fmt.Fprintln(os.Stderr, "  Enter         Apply and persist")
		fmt.Fprintln(os.Stderr, "  q, Esc        Quit")
		return 0
	}

	if err := tui.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (position: %s, notifier: %s)", cfg.Position, cfg.NotifierClass)

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	// Losing the display connection at startup is the one unrecoverable
	// failure; everything later degrades to retries.
	conn, err := ax.Connect(cfg.NotifierClass, logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	log.Println("bannerpin daemon started successfully")

	resolver := display.NewResolver(conn.XUtil(), logger)

	ctrl := watcher.New(conn, resolver, watcher.Options{
		Anchor:        cfg.Anchor(),
		Insets:        cfg.Insets(),
		BannerRoles:   cfg.BannerRoles,
		OverlayPrefix: cfg.OverlayPrefix,
		RetryInterval: cfg.RetryInterval(),
		PollInterval:  cfg.PollInterval(),
		PollWindow:    cfg.PollWindow(),
		Logger:        logger,
	})

	// Track the notifier's presence on the session bus so subscriptions are
	// torn down and re-established across notifier restarts.
	lw := lifecycle.NewWatcher(cfg.NotifierBusName, ctrl, logger)
	if running, err := lw.Running(); err != nil {
		log.Printf("Warning: D-Bus presence check failed, assuming notifier is running: %v", err)
		ctrl.ProcessLaunched()
	} else if running {
		ctrl.ProcessLaunched()
	}
	if err := lw.Start(); err != nil {
		log.Printf("Warning: D-Bus lifecycle watch unavailable: %v", err)
	} else {
		defer lw.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	ipcServer, err := ipc.NewServer(cfg, ctrl, resolver)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	if cfg.CycleHotkey != "" {
		handler := hotkeys.NewHandler(conn.XUtil(), conn.RootWindow(), logger)
		err := handler.RegisterCycle(cfg.CycleHotkey,
			func() geometry.Anchor { return geometry.Anchor(ctrl.Status().Anchor) },
			ctrl.SetAnchor,
		)
		if err != nil {
			log.Printf("Warning: Failed to register cycle hotkey: %v", err)
		} else {
			log.Printf("Cycle hotkey registered: %s", cfg.CycleHotkey)
		}
	}

	// Watch the config file so edits apply without a restart.
	if path, err := config.DefaultConfigPath(); err == nil {
		cw, err := config.NewWatcher(path, func(newCfg *config.Config) {
			ctrl.ApplyConfig(newCfg.Anchor(), newCfg.Insets())
			ipcServer.UpdateConfig(newCfg)
		}, logger)
		if err == nil {
			if err := cw.Start(); err != nil {
				log.Printf("Warning: config watch failed: %v", err)
			} else {
				defer cw.Stop()
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := config.Load()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				ctrl.ApplyConfig(newCfg.Anchor(), newCfg.Insets())
				ipcServer.UpdateConfig(newCfg)
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down bannerpin daemon...")
				cancel()
				ipcServer.Stop()
				conn.Quit()
				return
			}
		}
	}()

	// Blocks until Quit.
	conn.EventLoop()
}
