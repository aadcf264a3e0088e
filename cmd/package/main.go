// Command package builds the strafe-jump-trainer release archive.
//
//	package [flags] <version_number>
//
// The version falls back to $TRAVIS_TAG when no argument is given. Either
// way it must be three dot-separated numbers.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mrhapile/strafe-release-bundler/internal/logging"
	"github.com/mrhapile/strafe-release-bundler/pkg/bundler"
	"github.com/mrhapile/strafe-release-bundler/pkg/types"
	"github.com/spf13/pflag"
	yaml "gopkg.in/yaml.v2"
)

const (
	usageLine = "usage: package <version_number>"

	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2

	envSourceDateEpoch = "SOURCE_DATE_EPOCH"
)

type options struct {
	outputDir      string
	sourceDir      string
	manifestPath   string
	output         string
	epoch          int64
	verify         bool
	checksum       bool
	cleanOnFailure bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	log := logging.New(stderr, logging.FromEnv(logging.DefaultConfig(stderr), getenv))

	var opts options
	flags := pflag.NewFlagSet("package", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.StringVarP(&opts.outputDir, "output-dir", "d", ".", "Directory to write the archive to")
	flags.StringVarP(&opts.sourceDir, "source-dir", "s", ".", "Directory the manifest sources are read from")
	flags.StringVarP(&opts.manifestPath, "manifest", "m", "", "YAML manifest replacing the built-in file list")
	flags.StringVarP(&opts.output, "output", "o", "text", "Summary format (text, json, or yaml)")
	flags.Int64Var(&opts.epoch, "epoch", -1, "Unix time stamped on every entry (default $"+envSourceDateEpoch+")")
	flags.BoolVar(&opts.verify, "verify", false, "Re-read the archive and compare it with the sources")
	flags.BoolVar(&opts.checksum, "checksum", false, "Write a .sha256 file next to the archive")
	flags.BoolVar(&opts.cleanOnFailure, "clean-on-failure", false, "Remove the partial archive if packaging fails")
	flags.Usage = func() {
		fmt.Fprintln(stdout, usageLine)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		// pflag has already printed the error and flags.Usage.
		return exitUsage
	}

	version, err := bundler.ResolveVersion(flags.Args(), getenv)
	if err != nil {
		fmt.Fprintln(stdout, usageLine)
		return exitUsage
	}

	switch opts.output {
	case "text", "json", "yaml":
	default:
		fmt.Fprintln(stdout, usageLine)
		return exitUsage
	}

	ts, err := resolveTimestamp(opts.epoch, getenv)
	if err != nil {
		log.Error().Err(err).Msg("invalid timestamp")
		fmt.Fprintln(stdout, usageLine)
		return exitUsage
	}

	buildOpts := []bundler.Option{
		bundler.WithOutputDir(opts.outputDir),
		bundler.WithSourceDir(opts.sourceDir),
		bundler.WithTimestamp(ts),
		bundler.WithLogger(log),
	}

	manifest := bundler.DefaultManifest()
	if opts.manifestPath != "" {
		manifest, err = bundler.LoadManifest(opts.manifestPath)
		if err != nil {
			log.Error().Err(err).Str("manifest", opts.manifestPath).Msg("cannot load manifest")
			return exitFailure
		}
		buildOpts = append(buildOpts, bundler.WithManifest(manifest))
	}
	if opts.checksum {
		buildOpts = append(buildOpts, bundler.WithChecksumFile())
	}
	if opts.cleanOnFailure {
		buildOpts = append(buildOpts, bundler.WithRemoveOnFailure())
	}

	result, err := bundler.Build(version, buildOpts...)
	if err != nil {
		ev := log.Error().Err(err).Str("version", version)
		if errors.Is(err, fs.ErrExist) {
			ev = ev.Str("hint", "remove the existing archive or bump the version")
		}
		ev.Msg("packaging failed")
		return exitFailure
	}

	if opts.verify {
		if err := bundler.Verify(result.ArchivePath, opts.sourceDir, manifest); err != nil {
			log.Error().Err(err).Str("archive", result.ArchivePath).Msg("verification failed")
			return exitFailure
		}
		log.Info().Str("archive", result.ArchivePath).Msg("archive verified")
	}

	if err := printResult(stdout, opts.output, result); err != nil {
		log.Error().Err(err).Msg("cannot print summary")
		return exitFailure
	}
	return exitOK
}

// resolveTimestamp returns the fixed entry time from --epoch or
// SOURCE_DATE_EPOCH, or the zero time when neither is set.
func resolveTimestamp(epoch int64, getenv func(string) string) (time.Time, error) {
	if epoch >= 0 {
		return time.Unix(epoch, 0).UTC(), nil
	}
	raw := getenv(envSourceDateEpoch)
	if raw == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, fmt.Errorf("%s=%q is not a Unix timestamp", envSourceDateEpoch, raw)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func printResult(w io.Writer, format string, result *types.BundleResult) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		_, err = w.Write(b)
		return err
	}
	_, err := fmt.Fprintf(w, "Created %s (%s, %d files)\n",
		filepath.Base(result.ArchivePath), humanize.Bytes(uint64(result.SizeBytes)), result.FileCount)
	return err
}
