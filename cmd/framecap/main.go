// framecap captures the frames of a web page animation on virtual time, as
// a numbered image sequence or a stream suitable for an image2pipe encoder.
//
// Settings may be read from a YAML file with -config. Flags override the
// values of the file:
//
//	framecap -config capture.yaml -fps 30 https://example.com/animation.html
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"gopkg.in/yaml.v3"

	"github.com/chromedp/framecap"
)

// settings are the command line settings, as read from the config file.
type settings struct {
	URL string `yaml:"url"`

	FPS                       float64       `yaml:"fps"`
	Frames                    int           `yaml:"frames"`
	Duration                  time.Duration `yaml:"duration"`
	Start                     time.Duration `yaml:"start"`
	StartDelay                time.Duration `yaml:"start_delay"`
	MaxAnimationFrameDuration time.Duration `yaml:"max_animation_frame_duration"`

	OutputDir     string `yaml:"output_dir"`
	OutputPattern string `yaml:"output_pattern"`
	Stdout        bool   `yaml:"stdout"`

	Canvas  string `yaml:"canvas"`
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`

	Width       int64   `yaml:"width"`
	Height      int64   `yaml:"height"`
	Scale       float64 `yaml:"scale"`
	Unrandomize bool    `yaml:"unrandomize"`
	Seed        int64   `yaml:"seed"`

	Headless       bool     `yaml:"headless"`
	ExecutablePath string   `yaml:"executable_path"`
	LaunchArgs     []string `yaml:"launch_args"`

	Quiet     bool `yaml:"quiet"`
	LogStderr bool `yaml:"log_stderr"`
}

func defaultSettings() *settings {
	return &settings{
		URL:       "index.html",
		OutputDir: ".",
		Format:    "png",
		Quality:   92,
		Width:     800,
		Height:    600,
		Seed:      1,
		Headless:  true,
	}
}

// load overlays the values of the YAML file at name onto s.
func (s *settings) load(name string) error {
	buf, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(buf, s); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (s *settings) config() framecap.Config {
	return framecap.Config{
		FPS:                       s.FPS,
		Frames:                    s.Frames,
		Duration:                  s.Duration,
		Start:                     s.Start,
		StartDelay:                s.StartDelay,
		MaxAnimationFrameDuration: s.MaxAnimationFrameDuration,
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, " ")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// configPath returns the value of the -config flag in args, if any. The
// file has to be read before the flags are defined, as its values are the
// flag defaults.
func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
		if v := strings.TrimPrefix(name, "config="); v != name {
			return v
		}
	}
	return ""
}

// parse reads the settings from the config file named in args, then from
// the flags in args. A positional argument overrides the url.
func parse(args []string, output io.Writer) (*settings, error) {
	s := defaultSettings()
	if name := configPath(args); name != "" {
		if err := s.load(name); err != nil {
			return nil, err
		}
	}

	fs := flag.NewFlagSet("framecap", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.String("config", "", "YAML settings file; flags override its values")
	fs.StringVar(&s.URL, "url", s.URL, "page URL, or a path to a local file")

	fs.Float64Var(&s.FPS, "fps", s.FPS, "frames per virtual second (default 60)")
	fs.IntVar(&s.Frames, "frames", s.Frames, "number of frames to capture")
	fs.DurationVar(&s.Duration, "duration", s.Duration, "virtual duration to capture (default 5s)")
	fs.DurationVar(&s.Start, "start", s.Start, "virtual time of the first frame")
	fs.DurationVar(&s.StartDelay, "start-delay", s.StartDelay, "real time to wait after the page loaded")
	fs.DurationVar(&s.MaxAnimationFrameDuration, "max-animation-frame-duration", s.MaxAnimationFrameDuration,
		"largest virtual time step between two visits of the page")

	fs.StringVar(&s.OutputDir, "output-dir", s.OutputDir, "directory frames are written to")
	fs.StringVar(&s.OutputPattern, "output-pattern", s.OutputPattern, `frame file name pattern (default "%d.<format>")`)
	fs.BoolVar(&s.Stdout, "stdout", s.Stdout, "write frames to stdout instead of files")

	fs.StringVar(&s.Canvas, "canvas", s.Canvas, "capture the canvas matching this selector instead of screenshots")
	fs.StringVar(&s.Format, "format", s.Format, "image format: png, jpeg or webp")
	fs.IntVar(&s.Quality, "quality", s.Quality, "lossy image quality [0..100]")

	fs.Int64Var(&s.Width, "width", s.Width, "viewport width")
	fs.Int64Var(&s.Height, "height", s.Height, "viewport height")
	fs.Float64Var(&s.Scale, "scale", s.Scale, "device scale factor")
	fs.BoolVar(&s.Unrandomize, "unrandomize", s.Unrandomize, "replace Math.random with a seeded generator")
	fs.Int64Var(&s.Seed, "seed", s.Seed, "Math.random seed, with -unrandomize")

	fs.BoolVar(&s.Headless, "headless", s.Headless, "run the browser headless")
	fs.StringVar(&s.ExecutablePath, "executable-path", s.ExecutablePath, "browser executable")
	launchArgs := stringList(s.LaunchArgs)
	fs.Var(&launchArgs, "launch-arg", "extra browser flag, such as --disable-web-security (repeatable)")

	fs.BoolVar(&s.Quiet, "quiet", s.Quiet, "disable logging")
	fs.BoolVar(&s.LogStderr, "log-stderr", s.LogStderr, "log to stderr instead of stdout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s.LaunchArgs = launchArgs
	switch fs.NArg() {
	case 0:
	case 1:
		s.URL = fs.Arg(0)
	default:
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args()[1:])
	}
	return s, nil
}

// resolveURL turns a path into an absolute file URL. URLs are returned
// unchanged.
func resolveURL(urlstr string) (string, error) {
	if strings.Contains(urlstr, "://") {
		return urlstr, nil
	}
	abs, err := filepath.Abs(urlstr)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// newLogger returns the logger of s. Frames on stdout move the logs to
// stderr.
func newLogger(s *settings) *log.Logger {
	switch {
	case s.Quiet:
		return log.New(io.Discard, "", 0)
	case s.LogStderr || s.Stdout:
		return log.New(os.Stderr, "", 0)
	}
	return log.New(os.Stdout, "", 0)
}

// newCapturer returns the capturer of s writing to files, or to stream
// when not nil.
func newCapturer(s *settings, stream io.Writer) (framecap.Capturer, error) {
	format := strings.ToLower(s.Format)
	switch format {
	case "png", "webp":
	case "jpeg", "jpg":
		format = "jpeg"
	default:
		return nil, fmt.Errorf("unsupported format %q", s.Format)
	}
	if s.Quality < 0 || s.Quality > 100 {
		return nil, fmt.Errorf("quality %d out of range [0..100]", s.Quality)
	}

	out := &framecap.FrameOutput{Pattern: s.OutputPattern, Stream: stream}
	if stream == nil {
		out.Dir = s.OutputDir
	}
	if s.Canvas != "" {
		return &framecap.CanvasCapturer{
			Output:   out,
			Selector: s.Canvas,
			Type:     "image/" + format,
			Quality:  float64(s.Quality) / 100,
		}, nil
	}
	return &framecap.ScreenshotCapturer{
		Output:  out,
		Format:  page.CaptureScreenshotFormat(format),
		Quality: s.Quality,
	}, nil
}

// allocatorOptions returns the options launching the browser of s.
func allocatorOptions(s *settings) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)
	if !s.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if s.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(s.ExecutablePath))
	}
	for _, arg := range s.LaunchArgs {
		name, value, ok := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if ok {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	if !s.Quiet && !s.LogStderr && !s.Stdout {
		opts = append(opts, chromedp.CombinedOutput(os.Stdout))
	}
	return opts
}

func run(ctx context.Context, args []string) error {
	s, err := parse(args, os.Stderr)
	if err != nil {
		return err
	}
	urlstr, err := resolveURL(s.URL)
	if err != nil {
		return err
	}
	logger := newLogger(s)

	var stream io.Writer
	if s.Stdout {
		stream = bufio.NewWriter(os.Stdout)
	}
	c, err := newCapturer(s, stream)
	if err != nil {
		return err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocatorOptions(s)...)
	defer cancel()
	ctx, cancel = chromedp.NewContext(allocCtx, chromedp.WithErrorf(logger.Printf))
	defer cancel()

	opts := []framecap.Option{
		framecap.WithLogf(logger.Printf),
		framecap.WithViewport(s.Width, s.Height, s.Scale),
	}
	if s.Unrandomize {
		opts = append(opts, framecap.WithUnrandomize(s.Seed))
	}
	if s.Canvas != "" {
		logger.Printf("Capture Mode: Canvas")
	} else {
		logger.Printf("Capture Mode: Screenshot")
	}

	err = framecap.Capture(ctx, urlstr, s.config(), c, opts...)
	if cerr := chromedp.Cancel(ctx); err == nil {
		err = cerr
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		stop()
		log.Fatal(err)
	}
}
