// Command sculptor runs one dataset operation configured through SCULPTOR_*
// environment variables (optionally from .env). Every operation modifies
// files, so SCULPTOR_CONFIRM=yes must be set explicitly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	sculptor "github.com/anatolykoptev/go-sculptor"
	"github.com/anatolykoptev/go-sculptor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := config.NewLogger(cfg.AppEnv)

	if !cfg.Confirm {
		logger.Error().Str("operation", cfg.Operation).Msg(config.ErrNotConfirmed.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Str("operation", cfg.Operation).Msg("sculptor: run failed")
		os.Exit(1)
	}

	logger.Info().
		Str("run", report.RunID).
		Str("operation", report.Operation).
		Int("applied", report.Applied).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("asymmetric", report.Asymmetric).
		Int("captions", report.CaptionsApplied).
		Float64("elapsed_seconds", report.ElapsedSeconds()).
		Msg("sculptor: batch complete")

	if report.Failed > 0 || report.Asymmetric > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sculptor.BatchReport, error) {
	engine := &sculptor.Config{
		Workers:   cfg.Workers,
		OnOutcome: outcomeLogger(logger),
		OnPanic: func(tag string, r any) {
			logger.Error().Str("op", tag).Interface("panic", r).Msg("sculptor: worker panic")
		},
	}
	scope := sculptor.Scope{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Recursive:  cfg.Recursive,
		Extensions: cfg.Extensions,
	}
	transfer, err := sculptor.ParseTransfer(cfg.Transfer)
	if err != nil {
		return nil, err
	}

	switch cfg.Operation {
	case config.OpCull:
		return engine.Cull(ctx, sculptor.CullOpts{
			Scope:              scope,
			MinEdgeLength:      cfg.MinEdgeLength,
			KeepOrphanCaptions: cfg.KeepOrphanCaptions,
		})
	case config.OpResize:
		return engine.Resize(ctx, sculptor.ResizeOpts{
			Scope:             scope,
			MaxEdgeLength:     cfg.MaxEdgeLength,
			PreserveOriginals: cfg.PreserveOriginals,
		})
	case config.OpConvert:
		return engine.Convert(ctx, sculptor.ConvertOpts{
			Scope:             scope,
			TargetExtension:   cfg.TargetExtension,
			PreserveOriginals: cfg.PreserveOriginals,
		})
	case config.OpGrayscale:
		return runGrayscale(ctx, engine, cfg, scope, transfer)
	case config.OpSubstring:
		sel, err := sculptor.NewSubstringSelector(cfg.SearchString)
		if err != nil {
			return nil, err
		}
		return engine.MoveBySubstring(ctx, sculptor.SubstringOpts{Scope: scope, Selector: sel, Transfer: transfer})
	case config.OpDedupe:
		return engine.Dedupe(ctx, sculptor.DedupOpts{Scope: scope, Threshold: cfg.DedupThreshold, Transfer: transfer})
	case config.OpCaptionToMetadata:
		et, err := sculptor.StartExifTool(ctx, cfg.ExifToolPath)
		if err != nil {
			return nil, err
		}
		defer et.Close()
		engine.Metadata = et
		return engine.CaptionsToMetadata(ctx, sculptor.MetadataOpts{Scope: scope, SaveToOutput: cfg.SaveToOutput})
	case config.OpMetadataToCaption:
		engine.MetadataReader = sculptor.NativeMetadataReader{}
		return engine.MetadataToCaptions(ctx, sculptor.MetadataOpts{Scope: scope, SaveToOutput: cfg.SaveToOutput})
	}
	return nil, fmt.Errorf("unknown operation %q", cfg.Operation)
}

func runGrayscale(ctx context.Context, engine *sculptor.Config, cfg *config.Config, scope sculptor.Scope, transfer sculptor.Transfer) (*sculptor.BatchReport, error) {
	namePos, err := sculptor.ParseLabelPosition(cfg.LabelPosition)
	if err != nil {
		return nil, err
	}
	captionPos, err := sculptor.ParseLabelPosition(cfg.CaptionLabelPosition)
	if err != nil {
		return nil, err
	}
	return engine.SortGrayscale(ctx, sculptor.GrayscaleOpts{
		Scope: scope,
		Params: sculptor.GrayscaleParams{
			ThumbnailSize:         cfg.ThumbnailSize,
			MSECutoff:             cfg.MSECutoff,
			DisableBiasCorrection: cfg.DisableBiasCorrection,
		},
		LabelFilename: cfg.LabelFilename,
		FilenameLabel: cfg.FilenameLabel,
		LabelPosition: namePos,
		CaptionLabel:  sculptor.CaptionLabel{Text: cfg.CaptionLabel, Position: captionPos},
		Transfer:      transfer,
	})
}

func outcomeLogger(logger zerolog.Logger) func(sculptor.PairOutcome) {
	return func(o sculptor.PairOutcome) {
		ev := logger.Debug()
		switch {
		case o.Asymmetric():
			ev = logger.Warn().Bool("asymmetric", true)
		case o.Asset.Status == sculptor.StatusFailed:
			ev = logger.Warn()
		}
		ev = ev.Str("path", o.Asset.Path).
			Str("status", o.Asset.Status.String()).
			Str("reason", o.Asset.Reason)
		if o.Asset.Dest != "" {
			ev = ev.Str("dest", o.Asset.Dest)
		}
		if o.Asset.Kind != sculptor.KindNone {
			ev = ev.Str("kind", o.Asset.Kind.String())
		}
		if o.Asset.Err != nil {
			ev = ev.Err(o.Asset.Err)
		}
		if o.Caption != nil {
			ev = ev.Str("caption_status", o.Caption.Status.String())
			if o.Caption.Err != nil {
				ev = ev.AnErr("caption_error", o.Caption.Err)
			}
		}
		ev.Msg("sculptor: outcome")
	}
}
