package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/seed"
	"github.com/GriffinCanCode/myvfs/internal/domain/shell"
	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/logging"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, shell.OSEnv))
}

// run is main without the process globals. It returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, env shell.LookupFunc) int {
	flags := flag.NewFlagSet("myvfs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	command := flags.String("c", "", "Run one command line and exit")
	serve := flags.Bool("serve", false, "Serve the HTTP and WebSocket API instead of the REPL")
	dev := flags.Bool("dev", false, "Development logging (debug level, console format)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics()
	manager, err := newManager(ctx, cfg, env, metrics, logger)
	if err != nil {
		logger.Error("Failed to populate filesystem", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *serve {
		return serveAPI(ctx, cfg, manager, metrics, logger, stderr)
	}
	// The REPL keeps the default SIGTERM behaviour.
	stop()

	session, err := manager.Get(manager.Create().ID)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	r := &repl{
		name:    cfg.Shell.Name,
		session: session,
		env:     env,
		stdout:  stdout,
		stderr:  stderr,
	}
	if *command != "" {
		return r.runOne(*command)
	}
	return r.loop(stdin)
}

// newManager builds and seeds the tree, then the session manager over it.
func newManager(ctx context.Context, cfg *config.Config, env shell.LookupFunc, metrics *monitoring.Metrics, logger *logging.Logger) (*shell.Manager, error) {
	tree := vfs.NewTree()
	metrics.TrackNodes(tree.Len)

	layoutHome, stats, err := seed.Bootstrap(ctx, tree, seed.Options{
		DefaultLayout: cfg.Seed.DefaultLayout,
		User:          cfg.Shell.User,
		File:          cfg.Seed.File,
		HostDir:       cfg.Seed.HostDir,
		Target:        cfg.Seed.Target,
		MaxFileSize:   cfg.Seed.MaxFileSize,
		Logger:        logger.Named("seed").Logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Filesystem ready",
		zap.Int("nodes", tree.Len()),
		zap.Int("dirs", stats.Dirs),
		zap.Int("files", stats.Files))

	home := cfg.Shell.Home
	if layoutHome != "" && (home == "" || home == vfs.Separator) {
		home = layoutHome
	}

	manager := shell.NewManager(tree, shell.Options{
		Home:     home,
		Env:      env,
		Logger:   logger.Named("shell").Logger,
		Recorder: metrics,
	})
	manager.OnChange(metrics.SetSessionsActive)
	return manager, nil
}

func serveAPI(ctx context.Context, cfg *config.Config, manager *shell.Manager, metrics *monitoring.Metrics, logger *logging.Logger, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	srv := server.NewServer(cfg, manager, metrics, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// repl drives one session from a line-oriented reader.
type repl struct {
	name    string
	session *shell.Session
	env     shell.LookupFunc
	stdout  io.Writer
	stderr  io.Writer
}

func (r *repl) banner() {
	rule := strings.Repeat("-", 50)
	fmt.Fprintf(r.stdout, "Welcome to the %s shell emulator!\n", r.name)
	fmt.Fprintln(r.stdout, "Type 'help' for commands and 'exit' to quit")
	fmt.Fprintln(r.stdout, rule)
	fmt.Fprintln(r.stdout, "Environment:")
	fmt.Fprintf(r.stdout, "  HOME/USERPROFILE = %s\n", shell.LookupVar(r.env, "HOME"))
	fmt.Fprintf(r.stdout, "  USER/USERNAME = %s\n", shell.LookupVar(r.env, "USER"))
	fmt.Fprintln(r.stdout, rule)
}

func (r *repl) prompt() {
	fmt.Fprintf(r.stdout, "%s:%s$ ", r.name, r.session.Cwd())
}

// execute runs one line and prints its result. It reports whether the line
// succeeded.
func (r *repl) execute(line string) bool {
	res := r.session.Execute(line)
	for _, out := range res.Output {
		fmt.Fprintln(r.stdout, out)
	}
	if res.Err != nil {
		fmt.Fprintln(r.stderr, res.Err)
	}
	return res.OK()
}

func (r *repl) runOne(line string) int {
	if !r.execute(line) {
		return 1
	}
	return 0
}

// loop reads lines until exit or end of input. An interrupt abandons the
// current line and prints a hint.
func (r *repl) loop(stdin io.Reader) int {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	return r.loopWith(stdin, interrupts)
}

func (r *repl) loopWith(stdin io.Reader, interrupts <-chan os.Signal) int {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	r.banner()
	for {
		r.prompt()
		select {
		case line := <-lines:
			r.execute(strings.TrimSpace(line))
			if !r.session.Running() {
				fmt.Fprintln(r.stdout, "Bye")
				return 0
			}
		case <-interrupts:
			fmt.Fprintln(r.stdout)
			fmt.Fprintln(r.stdout, "Type 'exit' to quit")
		case err := <-readErr:
			fmt.Fprintln(r.stdout)
			if err != nil && !errors.Is(err, io.EOF) {
				fmt.Fprintln(r.stderr, err)
				return 1
			}
			return 0
		}
	}
}
