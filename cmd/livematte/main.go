// Package main provides the CLI entry point for livematte.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/user/livematte/pkg/adapters/chromakey"
	"github.com/user/livematte/pkg/adapters/imagedirsource"
	"github.com/user/livematte/pkg/adapters/imagerender"
	"github.com/user/livematte/pkg/adapters/logger"
	"github.com/user/livematte/pkg/adapters/nullsink"
	"github.com/user/livematte/pkg/adapters/osfilesystem"
	"github.com/user/livematte/pkg/adapters/pngsink"
	"github.com/user/livematte/pkg/config"
	"github.com/user/livematte/pkg/fpsmeter"
	"github.com/user/livematte/pkg/ports"
	"github.com/user/livematte/pkg/processor"
	"github.com/user/livematte/pkg/runner"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	app := &cli.App{
		Name:  "livematte",
		Usage: "Real-time foreground matting for video frame sequences",
		Commands: []*cli.Command{
			runCommand(),
			versionCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Composite an image sequence with a chroma-key matte",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Directory with the input image sequence"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Directory for composited PNG frames"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.IntFlag{Name: "period", Usage: "Run inference once every N frames"},
			&cli.Float64Flag{Name: "scale", Usage: "Downsampling factor applied before inference (0-1]"},
			&cli.Float64Flag{Name: "blur", Usage: "Background blur radius in pixels (0 = none)"},
			&cli.StringFlag{Name: "key", Usage: "Background key color (hex, e.g. #00ff00)"},
			&cli.Float64Flag{Name: "tolerance", Usage: "Color distance treated as fully foreground"},
			&cli.BoolFlag{Name: "fps-overlay", Usage: "Draw the measured frame rate onto the output"},
			&cli.BoolFlag{Name: "no-output", Usage: "Discard frames instead of writing them (throughput benchmark)"},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: "Suppress all log output"},
		},
		Action: runAction,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("livematte %s\n", version)
			return nil
		},
	}
}

func runAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	var log ports.Logger
	if cfg.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	key, err := config.ParseHexColor(cfg.KeyColor)
	if err != nil {
		return fmt.Errorf("key color: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := imagedirsource.New(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	segmenter := chromakey.New(key, cfg.Tolerance)
	renderer := imagerender.New()
	meter := fpsmeter.New(fpsmeter.DefaultWindow)

	opts := []processor.Option{
		processor.WithPeriod(cfg.Period),
		processor.WithScaleFactor(cfg.ScaleFactor),
		processor.WithBlurRadius(cfg.BlurRadius),
	}
	if cfg.ShowFPS {
		opts = append(opts, processor.WithOverlay(meter.String))
	}
	proc := processor.New(segmenter, renderer, log, opts...)
	proc.Start(ctx)
	defer proc.Destroy()

	if err := awaitReady(ctx, proc); err != nil {
		return err
	}

	log.Info("Reading %d frames from %s", source.Len(), cfg.InputDir)

	var sink ports.FrameSink = pngsink.New(cfg.OutputDir, osfilesystem.New())
	if c.Bool("no-output") {
		sink = nullsink.New()
	}

	result, err := runner.New(source, proc, sink, meter, log).Run(ctx)
	if err != nil {
		return err
	}

	if result.Frames > 0 {
		if !c.Bool("no-output") {
			log.Info("Output saved to %s", cfg.OutputDir)
		}
		log.Info("Average throughput: %.1f fps", result.Rate)
	}
	return nil
}

// buildConfig merges the optional config file with CLI flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.InputDir = c.String("input")
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("period") {
		cfg.Period = c.Int("period")
	}
	if c.IsSet("scale") {
		cfg.ScaleFactor = c.Float64("scale")
	}
	if c.IsSet("blur") {
		cfg.BlurRadius = c.Float64("blur")
	}
	if c.IsSet("key") {
		cfg.KeyColor = c.String("key")
	}
	if c.IsSet("tolerance") {
		cfg.Tolerance = c.Float64("tolerance")
	}
	if c.IsSet("fps-overlay") {
		cfg.ShowFPS = c.Bool("fps-overlay")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("quiet") {
		cfg.Quiet = true
	}
	return cfg, nil
}

// awaitReady blocks until the segmenter finished initializing. For an
// offline sequence there is no point feeding frames that would only pass
// through.
func awaitReady(ctx context.Context, proc *processor.Processor) error {
	deadline := time.Now().Add(30 * time.Second)
	for !proc.Ready() {
		if time.Now().After(deadline) {
			return fmt.Errorf("segmenter initialization timed out")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}
