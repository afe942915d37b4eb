package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StackLoad/internal/engine"
	"github.com/piwi3910/StackLoad/internal/export"
	"github.com/piwi3910/StackLoad/internal/importer"
	"github.com/piwi3910/StackLoad/internal/model"
	"github.com/piwi3910/StackLoad/internal/project"
	"github.com/piwi3910/StackLoad/internal/session"
)

// ErrExpectation is returned when a replay does not end the way the scenario
// or the --expect-count flag says it should.
var ErrExpectation = errors.New("scenario expectations not met")

type simulateOpts struct {
	boxes         string
	seed          int64
	palletProfile string
	truckProfile  string
	expectCount   int
	pdf           string
	labels        string
	xlsx          string
	dxf           string
	quiet         bool
}

func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{expectCount: -1}

	cmd := &cobra.Command{
		Use:   "simulate <scenario>",
		Short: "Replay a loading scenario against the pallet and truck engines",
		Long: `Replay a YAML or TOML scenario step by step. Each step is a user action
(place_container, generate, preview, place, remove, reposition, mark,
cycle_column, switch_mode, discard, reset) with an optional expected outcome.

Boxes come from the scenario's box list, then from --boxes, then from the
random generator when the scenario enables it.`,
		Example: `  stackload simulate load.yaml
  stackload simulate load.toml --boxes boxes.csv --pdf plan.pdf --xlsx manifest.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.boxes, "boxes", "", "CSV or XLSX file with extra boxes, queued after the scenario's boxes")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for random boxes (overrides scenario and config)")
	cmd.Flags().StringVar(&opts.palletProfile, "pallet-profile", "", "container profile to use for the pallet engine")
	cmd.Flags().StringVar(&opts.truckProfile, "truck-profile", "", "container profile to use for the truck engine")
	cmd.Flags().IntVar(&opts.expectCount, "expect-count", -1, "fail unless this many boxes are committed in total")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF load plan")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write a PDF sheet of QR box labels")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write an XLSX load manifest")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write a DXF top-down plan")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the summary")

	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, path string, opts simulateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	sc, err := project.LoadScenario(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("scenario loaded", "name", sc.Name, "steps", len(sc.Steps), "boxes", len(sc.Boxes))

	settings, err := c.settingsFor(cfg, opts.palletProfile, opts.truckProfile)
	if err != nil {
		return err
	}
	if sc.Pallet != nil {
		settings.Pallet = sc.Pallet.Clone()
	}
	if sc.Truck != nil {
		settings.Truck = sc.Truck.Clone()
	}

	boxes := append([]model.BoxSpec(nil), sc.Boxes...)
	if opts.boxes != "" {
		imported := importer.Import(opts.boxes)
		for _, w := range imported.Warnings {
			c.Logger.Warn(w, "file", opts.boxes)
		}
		if err := imported.Err(); err != nil {
			return err
		}
		boxes = append(boxes, imported.Boxes...)
		c.Logger.Info("boxes imported", "file", opts.boxes, "count", len(imported.Boxes))
	}

	var fallback engine.ItemSource
	if sc.Random || len(boxes) == 0 {
		seed := cfg.DefaultSeed
		if sc.Seed != 0 {
			seed = sc.Seed
		}
		if cmd.Flags().Changed("seed") {
			seed = opts.seed
		}
		fallback = engine.NewRandomSource(settings.MinDimension, settings.MaxDimension, seed)
	}
	source := engine.NewQueueSource(boxes, fallback)

	ctx, err := session.New(settings, source, c.Logger)
	if err != nil {
		return err
	}
	if sc.Mode == project.ModeTruck {
		ctx.SwitchMode(session.ModeTruck)
	}

	prog := newProgress(c.Logger)
	res, err := session.Replay(cmd.Context(), ctx, sc.Steps)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d steps", len(res.Outcomes)))

	if !opts.quiet {
		printTitle(c.Out, sc.Name)
		for _, o := range res.Outcomes {
			printOutcome(c, o)
		}
		fmt.Fprintln(c.Out)
	}
	for _, e := range []*engine.Engine{ctx.Pallet, ctx.Truck} {
		printSummary(c, e)
	}

	report := export.NewReport(sc.Name, ctx.Pallet, ctx.Truck)
	if err := c.writeExports(report, opts); err != nil {
		return err
	}

	c.rememberScenario(path)

	total := ctx.Pallet.Count() + ctx.Truck.Count()
	switch {
	case !res.OK():
		printError(c.Out, "%d step(s) did not match their expectation", res.Mismatches)
		return ErrExpectation
	case opts.expectCount >= 0 && total != opts.expectCount:
		printError(c.Out, "expected %d committed boxes, got %d", opts.expectCount, total)
		return ErrExpectation
	}
	printSuccess(c.Out, "%d boxes committed", total)
	return nil
}

func printOutcome(c *CLI, o session.StepOutcome) {
	line := fmt.Sprintf("%2d %-7s %s", o.Index, o.Mode, o.Step)
	msg := o.Result.Message
	switch {
	case o.Mismatch:
		printError(c.Out, "%s  %s (expected %s)", line, msg, o.Step.Expect)
	case o.Result.Success:
		printSuccess(c.Out, "%s  %s", line, StyleDim.Render(msg))
	case msg == "":
		printInfo(c.Out, "%s", line)
	default:
		printWarning(c.Out, "%s  %s", line, msg)
	}
}

func printSummary(c *CLI, e *engine.Engine) {
	if e.Container() == nil && e.Count() == 0 {
		return
	}
	s := engine.Summarize(e)
	printTitle(c.Out, s.Container)
	printKeyValue(c.Out, "Boxes", StyleNumber.Render(fmt.Sprint(s.Count))+"  "+renderCounts(s.PerCategory))
	printKeyValue(c.Out, "Volume", fmt.Sprintf("%.3f m³", s.UsedVolume))
	printKeyValue(c.Out, "Floor coverage", fmt.Sprintf("%.1f%%", s.Coverage()))
	printKeyValue(c.Out, "Tallest stack", fmt.Sprintf("%.2f m", s.MaxTop))
	if len(s.PerColumn) > 0 {
		printKeyValue(c.Out, "Per column", fmt.Sprint(s.PerColumn))
	}
	fmt.Fprintln(c.Out)
}

func (c *CLI) writeExports(report export.Report, opts simulateOpts) error {
	exports := []struct {
		path  string
		write func(string, export.Report) error
	}{
		{opts.pdf, export.ExportPDF},
		{opts.labels, export.ExportLabels},
		{opts.xlsx, export.ExportManifest},
		{opts.dxf, export.ExportDXF},
	}
	for _, x := range exports {
		if x.path == "" {
			continue
		}
		if err := x.write(x.path, report); err != nil {
			if errors.Is(err, export.ErrEmptyReport) {
				printWarning(c.Out, "skipped %s: %v", x.path, err)
				continue
			}
			return fmt.Errorf("export %s: %w", x.path, err)
		}
		printFile(c.Out, x.path)
	}
	return nil
}

// rememberScenario records path in the recent list. Failures are logged only.
func (c *CLI) rememberScenario(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	err := project.UpdateAppConfig(c.ConfigPath, func(cfg *model.AppConfig) {
		cfg.AddRecentScenario(path)
	})
	if err != nil {
		c.Logger.Warn("could not update recent scenarios", "err", err)
	}
}
