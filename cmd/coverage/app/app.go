package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mcallistertad/coverage-analysis/internal/batch"
	"github.com/mcallistertad/coverage-analysis/internal/coverage"
	"github.com/mcallistertad/coverage-analysis/internal/legend"
	"github.com/mcallistertad/coverage-analysis/internal/projection"
	"github.com/mcallistertad/coverage-analysis/internal/raster"
	"github.com/mcallistertad/coverage-analysis/internal/storage"
)

// Run resolves coverage for either a single coordinate or a batch CSV,
// depending on the configuration.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.RasterPath); err != nil {
		return fmt.Errorf("raster file '%s' is not accessible: %w", config.RasterPath, err)
	}

	proj, err := projection.ForEPSG(config.EPSG)
	if err != nil {
		return err
	}

	ds, err := raster.Open(config.RasterPath, proj)
	if err != nil {
		return err
	}

	l := legend.Default()
	if config.LegendPath != "" {
		if l, err = legend.FromFile(config.LegendPath); err != nil {
			return err
		}
	}

	resolver, err := coverage.NewResolver(ds, l, config.Interpolation, logger)
	if err != nil {
		return err
	}

	if config.Coordinates != "" {
		return resolveSingle(resolver, config.Coordinates)
	}
	return runBatch(ctx, resolver, config, logger)
}

// resolveSingle resolves one coordinate and prints the result to stdout.
func resolveSingle(resolver *coverage.Resolver, coordinates string) error {
	level, err := resolver.Resolve(coordinates)
	if err != nil {
		return err
	}

	if level == nil {
		fmt.Printf("No coverage at coordinates %s\n", coordinates)
		return nil
	}

	fmt.Printf("Coverage level at coordinates %s: %d dBm\n", coordinates, int(*level))
	return nil
}

// runBatch streams the input CSV through the pipeline into either the
// sibling prediction CSV or a SQLite database.
func runBatch(ctx context.Context, resolver *coverage.Resolver, config *Config, logger *slog.Logger) error {
	src, err := batch.OpenCSV(config.CSVPath)
	if err != nil {
		if errors.Is(err, batch.ErrBadHeader) {
			// No output file is produced for a malformed header.
			logger.Warn("the first row of the CSV does not contain 'Latitude' and 'Longitude' headers, exiting",
				slog.String("path", config.CSVPath))
			return nil
		}
		return err
	}
	defer src.Close()

	var sink interface {
		batch.Sink
		Close() error
	}
	if config.DBPath != "" {
		sink, err = storage.NewSink(config.DBPath, config.RasterPath, config.EPSG, string(config.Interpolation))
		if err != nil {
			return err
		}
		logger.Info("writing results to database", slog.String("path", config.DBPath))
	} else {
		outputPath := batch.OutputPath(config.CSVPath)
		sink, err = batch.CreateCSVSink(outputPath)
		if err != nil {
			return err
		}
		logger.Info("writing results to CSV", slog.String("path", outputPath))
	}

	pipeline := batch.NewPipeline(resolver, batch.WithLogger(logger))

	runErr := pipeline.Run(ctx, src, sink)
	if cErr := sink.Close(); cErr != nil && runErr == nil {
		runErr = cErr
	}
	return runErr
}
