package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures ffmpeg progress events.
type ProgressUpdate struct {
	Percent float64
	OutTime time.Duration
	Speed   string
}

// Result describes a finished compression run.
type Result struct {
	InputPath    string  `json:"inputPath"`
	OutputPath   string  `json:"outputPath"`
	Profile      string  `json:"profile"`
	InputSize    int64   `json:"inputSize"`
	OutputSize   int64   `json:"outputSize"`
	SavedPercent float64 `json:"savedPercent"`
}

// Client defines video compression behaviour.
type Client interface {
	Compress(ctx context.Context, inputPath, outputDir string, profile Profile, progress func(ProgressUpdate)) (*Result, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProbeBinary overrides the default ffprobe binary name.
func WithProbeBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.probeBinary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary      string
	probeBinary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", probeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// OutputName derives the compressed file name for an input and profile.
func OutputName(inputPath string, profile Profile) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem + "_" + strings.ToLower(profile.Name) + ".mp4"
}

// Compress transcodes a video into outputDir with the given profile and
// returns size accounting for the finished file.
func (c *CLI) Compress(ctx context.Context, inputPath, outputDir string, profile Profile, progress func(ProgressUpdate)) (*Result, error) {
	if inputPath == "" {
		return nil, errors.New("input path required")
	}
	cleanOutputDir := strings.TrimSpace(outputDir)
	if cleanOutputDir == "" {
		return nil, errors.New("output directory required")
	}

	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if err := os.MkdirAll(cleanOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	outputPath := filepath.Join(cleanOutputDir, OutputName(inputPath, profile))

	// Best effort; without a duration progress has no percentage.
	duration, _ := c.probeDuration(ctx, inputPath)

	args := []string{"-y", "-i", inputPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(profile.CRF),
		"-preset", profile.Preset,
	}
	if profile.ScaleHeight > 0 {
		// -2 keeps dimensions even as H.264 requires.
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", profile.ScaleHeight))
	}
	args = append(args, "-c:a", "aac", "-b:a", "128k",
		"-progress", "pipe:1", "-nostats",
		outputPath,
	)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	update := ProgressUpdate{}
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us":
			micros, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}
			update.OutTime = time.Duration(micros) * time.Microsecond
			if duration > 0 {
				percent := update.OutTime.Seconds() / duration.Seconds() * 100
				if percent > 100 {
					percent = 100
				}
				update.Percent = percent
			}
		case "speed":
			update.Speed = value
		case "progress":
			if progress != nil {
				if value == "end" {
					update.Percent = 100
				}
				progress(update)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg compress failed: %w", err)
	}

	outputInfo, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}
	result := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Profile:    profile.Name,
		InputSize:  inputInfo.Size(),
		OutputSize: outputInfo.Size(),
	}
	if inputInfo.Size() > 0 {
		result.SavedPercent = (1 - float64(outputInfo.Size())/float64(inputInfo.Size())) * 100
	}
	return result, nil
}

func (c *CLI) probeDuration(ctx context.Context, inputPath string) (time.Duration, error) {
	args := []string{"-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", inputPath}
	out, err := commandContext(ctx, c.probeBinary, args...).Output() //nolint:gosec
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

var _ Client = (*CLI)(nil)
