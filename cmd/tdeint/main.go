// Package main provides the command-line interface for the deinterlacer.
//
// It reads an uncompressed YUV4MPEG2 stream and either writes the
// deinterlaced stream or prints the combing verdict of every frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/opd-ai/tdeint"
	"github.com/opd-ai/tdeint/frame"
	"github.com/opd-ai/tdeint/y4m"
	"github.com/sirupsen/logrus"
)

// CLI configuration
type CLIConfig struct {
	input    string
	output   string
	isCombed bool
	workers  int
	digest   bool
	logLevel string
	planes   string
	help     bool

	opts     *tdeint.Options
	combOpts *tdeint.CombOptions
}

// parseCLIFlags parses args into a configuration.
func parseCLIFlags(args []string) (*CLIConfig, error) {
	config := &CLIConfig{
		opts:     tdeint.NewOptions(),
		combOpts: tdeint.NewCombOptions(),
	}
	fs := flag.NewFlagSet("tdeint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// I/O configuration
	fs.StringVar(&config.input, "in", "", "Input Y4M file")
	fs.StringVar(&config.output, "out", "", "Output Y4M file, - for stdout")
	fs.BoolVar(&config.isCombed, "iscombed", false, "Print per-frame combing verdicts instead of deinterlacing")
	fs.IntVar(&config.workers, "workers", 0, "Frames processed concurrently (0: one per CPU)")
	fs.BoolVar(&config.digest, "digest", false, "Print a BLAKE2b digest of every output frame")

	// Deinterlacer options
	o := config.opts
	fs.IntVar(&o.Order, "order", -1, "Field order: 0 bottom first, 1 top first (required unless the stream declares it)")
	fs.IntVar(&o.Field, "field", o.Field, "Field to keep: -1 follow order, 0 bottom, 1 top")
	fs.IntVar(&o.Mode, "mode", o.Mode, "0 same rate, 1 double rate")
	fs.IntVar(&o.Length, "length", o.Length, "Static period in fields (>= 6)")
	fs.IntVar(&o.MType, "mtype", o.MType, "Motion type 0-2")
	fs.IntVar(&o.TType, "ttype", o.TType, "Threshold type 0-5")
	fs.IntVar(&o.MtqL, "mtql", o.MtqL, "Luma quarter threshold override")
	fs.IntVar(&o.MthL, "mthl", o.MthL, "Luma half threshold override")
	fs.IntVar(&o.MtqC, "mtqc", o.MtqC, "Chroma quarter threshold override")
	fs.IntVar(&o.MthC, "mthc", o.MthC, "Chroma half threshold override")
	fs.IntVar(&o.NT, "nt", o.NT, "Noise threshold")
	fs.IntVar(&o.MinThresh, "minthresh", o.MinThresh, "Minimum motion threshold")
	fs.IntVar(&o.MaxThresh, "maxthresh", o.MaxThresh, "Maximum motion threshold")
	fs.IntVar(&o.Cstr, "cstr", o.Cstr, "Neighbours needed to promote a half-threshold pixel")
	fs.IntVar(&o.AThresh, "athresh", o.AThresh, "Spatial combing threshold (-1 disables)")
	fs.IntVar(&o.Metric, "metric", o.Metric, "Combing metric 0 or 1 (deinterlacer and detector)")
	fs.IntVar(&o.Expand, "expand", o.Expand, "Horizontal expansion of interpolated areas")
	fs.BoolVar(&o.Link, "link", o.Link, "Link luma motion to chroma")
	fs.BoolVar(&o.Show, "show", o.Show, "Output the decision mask")
	fs.IntVar(&o.Opt, "opt", o.Opt, "Kernels: 0 auto, 1 scalar, 2-3 unrolled")
	fs.StringVar(&config.planes, "planes", "", "Comma-separated planes to process (default all)")

	// Detector options
	c := config.combOpts
	fs.IntVar(&c.CThresh, "cthresh", c.CThresh, "Per-pixel combing threshold")
	fs.IntVar(&c.BlockX, "blockx", c.BlockX, "Block width (power of 2)")
	fs.IntVar(&c.BlockY, "blocky", c.BlockY, "Block height (power of 2)")
	fs.BoolVar(&c.Chroma, "chroma", c.Chroma, "Include chroma in the combing check")
	fs.IntVar(&c.MI, "mi", c.MI, "Combed pixel count above which a frame is combed")

	// Logging configuration
	fs.StringVar(&config.logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")

	// Help
	fs.BoolVar(&config.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.Metric = o.Metric

	planes, err := parsePlanes(config.planes)
	if err != nil {
		return nil, err
	}
	o.Planes = planes
	return config, nil
}

// parsePlanes parses a comma-separated list of plane indices.
func parsePlanes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var planes []int
	for _, part := range strings.Split(s, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid plane %q: %w", part, err)
		}
		planes = append(planes, p)
	}
	return planes, nil
}

// printUsage prints the usage information.
func printUsage() {
	fmt.Println("TDeint motion-adaptive deinterlacer")
	fmt.Println("===================================")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] -in input.y4m -out output.y4m\n", os.Args[0])
	fmt.Printf("  %s -iscombed [options] -in input.y4m\n", os.Args[0])
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  # Double-rate deinterlace of a top-field-first stream\n")
	fmt.Printf("  %s -order 1 -mode 1 -in in.y4m -out out.y4m\n", os.Args[0])
	fmt.Println()
	fmt.Printf("  # List combed frames with digests of the input\n")
	fmt.Printf("  %s -iscombed -digest -in in.y4m\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  Every filter option is available as a flag of the same name in lower")
	fmt.Println("  case, e.g. -length 12 -mtype 2 -athresh 20 -planes 0.")
}

// validateCLIConfig validates the CLI configuration. Option ranges are
// checked by the filter constructors.
func validateCLIConfig(config *CLIConfig) error {
	if config.input == "" {
		return fmt.Errorf("input file is required")
	}
	if !config.isCombed && config.output == "" {
		return fmt.Errorf("output file is required unless -iscombed is set")
	}
	if config.isCombed && config.output != "" {
		return fmt.Errorf("-out cannot be combined with -iscombed")
	}
	if config.workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if _, err := logrus.ParseLevel(config.logLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// configureLogging applies the log level and a text formatter on stderr.
func configureLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}

// setupSignalHandling cancels ctx on interrupt. Frames already in flight
// finish before the run stops.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		logrus.WithFields(logrus.Fields{
			"function": "setupSignalHandling",
			"signal":   sig.String(),
		}).Warn("Received signal, stopping after frames in flight")
		cancel()
	}()
}

// run opens the input and dispatches on its sample width.
func run(ctx context.Context, config *CLIConfig, stdout io.Writer) error {
	in, err := os.Open(config.input)
	if err != nil {
		return err
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return err
	}
	header, err := y4m.Probe(in)
	if err != nil {
		return err
	}
	format, err := header.Format()
	if err != nil {
		return err
	}

	if format.BytesPerSample() == 1 {
		return process[uint8](ctx, config, in, stat.Size(), stdout)
	}
	return process[uint16](ctx, config, in, stat.Size(), stdout)
}

func process[T frame.Sample](ctx context.Context, config *CLIConfig, in io.ReaderAt, size int64, stdout io.Writer) error {
	src, err := y4m.NewSource[T](in, size)
	if err != nil {
		return err
	}
	if config.isCombed {
		return detect(ctx, config, src, stdout)
	}
	return deinterlace(ctx, config, src, stdout)
}

func detect[T frame.Sample](ctx context.Context, config *CLIConfig, src *y4m.Source[T], stdout io.Writer) error {
	c, err := tdeint.NewCombDetector[T](src, config.combOpts)
	if err != nil {
		return err
	}

	combedFrames := 0
	err = c.Render(ctx, config.workers, func(n int, f *frame.Frame[T]) error {
		v, _ := f.Props.Get(frame.PropCombed)
		score, _ := f.Props.Get(frame.PropCombScore)
		combed := v == 1
		if combed {
			combedFrames++
		}
		line := fmt.Sprintf("frame %d combed=%t score=%d", n, combed, score)
		if config.digest {
			line += " digest=" + frame.Digest(f)
		}
		_, err := fmt.Fprintln(stdout, line)
		return err
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%d of %d frames combed\n", combedFrames, c.Info().NumFrames)
	return err
}

func deinterlace[T frame.Sample](ctx context.Context, config *CLIConfig, src *y4m.Source[T], stdout io.Writer) error {
	opts := *config.opts
	if opts.Order < 0 {
		fb, ok := src.Header().FieldBased()
		switch {
		case ok && fb == frame.FieldTopFirst:
			opts.Order = 1
		case ok && fb == frame.FieldBottomFirst:
			opts.Order = 0
		default:
			return fmt.Errorf("%w: -order is required for streams without a field order", tdeint.ErrInvalidOption)
		}
	}
	if src.Info().Format.Family == frame.Gray {
		opts.Link = false
	}

	d, err := tdeint.NewDeinterlacer[T](src, &opts, nil)
	if err != nil {
		return err
	}

	out := stdout
	if config.output != "-" {
		f, err := os.Create(config.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	header, err := y4m.HeaderFor(d.Info(), frame.FieldProgressive)
	if err != nil {
		return err
	}
	header.AspectNum, header.AspectDen = src.Header().AspectNum, src.Header().AspectDen
	header.Extra = src.Header().Extra
	w, err := y4m.NewWriter(out, header)
	if err != nil {
		return err
	}

	err = d.Render(ctx, config.workers, func(n int, f *frame.Frame[T]) error {
		if config.digest {
			fmt.Fprintf(os.Stderr, "frame %d digest=%s\n", n, frame.Digest(f))
		}
		return y4m.WriteFrame(w, f)
	})
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	hits, misses := d.CacheStats()
	logrus.WithFields(logrus.Fields{
		"function":     "deinterlace",
		"instance":     d.ID(),
		"frames":       w.Frames(),
		"cache_hits":   hits,
		"cache_misses": misses,
	}).Info("Deinterlacing completed")
	return nil
}

// main is the entry point for the deinterlacer.
func main() {
	config, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(2)
	}

	if config.help {
		printUsage()
		os.Exit(0)
	}

	if err := validateCLIConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(1)
	}
	if err := configureLogging(config.logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	if err := run(ctx, config, os.Stdout); err != nil {
		exitCode := 1
		if errors.Is(err, context.Canceled) {
			exitCode = 130
		}
		fmt.Fprintf(os.Stderr, "tdeint: %v\n", err)
		cancel()
		os.Exit(exitCode)
	}
}
