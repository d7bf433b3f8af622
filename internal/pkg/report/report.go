package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/project-ambr/ambr/internal/pkg/config"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

// Options locates the inputs and output of a report run.
type Options struct {
	UploadDir  string
	OldMaster  string
	NewMaster  string
	OutputFile string
	Workers    int
	// Notifier is optional.
	Notifier Notifier
	Now      func() time.Time
}

// OptionsFromConfig resolves report options from cfg. A Discord notifier is
// configured when a webhook URL is set.
func OptionsFromConfig(cfg *config.Config) Options {
	upload, _, oldMaster, newMaster, outFile := cfg.ReportPaths()
	opts := Options{
		UploadDir:  upload,
		OldMaster:  oldMaster,
		NewMaster:  newMaster,
		OutputFile: outFile,
		Workers:    cfg.Report.Workers,
	}
	if cfg.Report.DiscordWebhookURL != "" {
		opts.Notifier = NewDiscordNotifier(cfg.Report.DiscordWebhookURL, vars.DiscordEmbedColor)
	}

	return opts
}

// Generate runs the whole pipeline: load, process, write, notify.
func Generate(ctx context.Context, opts Options) (Summary, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger.Infoln("Starting the unshipped orders process...")

	in, err := load(ctx, opts)
	if err != nil {
		return Summary{}, err
	}

	res, err := Process(ctx, in, opts.Workers)
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputFile), 0o755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	logger.Infof("Saving all reports to %s...\n", opts.OutputFile)
	if err := WriteWorkbook(opts.OutputFile, res.Sheets()); err != nil {
		return Summary{}, err
	}

	summary := Summarize(res, opts.Now())
	summary.OutputFile = opts.OutputFile

	if opts.Notifier != nil {
		if err := opts.Notifier.Notify(ctx, summary); err != nil {
			logger.Warningf("failed to send report summary: %v\n", err)
		}
	}
	logger.Infoln("Processing complete. All reports have been saved.")

	return summary, nil
}

func load(ctx context.Context, opts Options) (Inputs, error) {
	var in Inputs

	logger.Infoln("Loading old and new master sheets...")
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.OldMaster, err = LoadWorkbook(opts.OldMaster)

		return err
	})
	g.Go(func() (err error) {
		in.NewMaster, err = LoadWorkbook(opts.NewMaster)

		return err
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}

	path, err := FindOrdersFile(opts.UploadDir)
	if err != nil {
		return Inputs{}, err
	}
	logger.Infof("Found .txt file: %s\n", filepath.Base(path))

	in.Orders, err = LoadOrders(path)
	if err != nil {
		return Inputs{}, err
	}

	return in, nil
}
