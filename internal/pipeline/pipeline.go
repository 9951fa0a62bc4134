// internal/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/neurodataflow/epoch-segmenter/internal/auxfiles"
	"github.com/neurodataflow/epoch-segmenter/internal/config"
	"github.com/neurodataflow/epoch-segmenter/internal/epochs"
	"github.com/neurodataflow/epoch-segmenter/internal/events"
	"github.com/neurodataflow/epoch-segmenter/internal/recording"
	"github.com/neurodataflow/epoch-segmenter/internal/settings"
	"github.com/neurodataflow/epoch-segmenter/internal/status"
)

// OutputName is the fixed name of the segmented data file.
const OutputName = "meg.edf"

// MissingInputError marks a required input file that is not on disk.
type MissingInputError struct {
	Key  string
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input %s: %s", e.Key, e.Path)
}

// Options carries everything one run needs.
type Options struct {
	ConfigPath string
	Settings   settings.Settings
	Log        *logrus.Logger
}

// Run performs one complete segmentation: load config, normalize,
// resolve auxiliary files, build the events matrix, extract epochs,
// write outputs. The status document is written only on completion;
// fatal errors abort before any of it exists.
func Run(opts Options) error {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	report := status.New()

	doc, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	params, err := config.Normalize(doc)
	if err != nil {
		return err
	}
	log.WithField("config", opts.ConfigPath).Info("configuration normalized")

	if doc.Recording == "" {
		return &MissingInputError{Key: "fif", Path: "(unset)"}
	}
	rec, err := recording.Load(doc.Recording)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"recording": doc.Recording,
		"channels":  len(rec.Channels),
		"samples":   rec.SampleCount(),
		"rate":      rec.SampleRate,
	}).Info("recording loaded")

	resolved, err := auxfiles.Resolve(opts.Settings.OutDir, []auxfiles.Input{
		{Key: "crosstalk", Path: doc.Crosstalk, DestName: "crosstalk.fif"},
		{Key: "calibration", Path: doc.Calibration, DestName: "calibration.dat"},
		{Key: "destination", Path: doc.Destination, DestName: "destination.fif"},
		{Key: "headshape", Path: doc.Headshape, DestName: "headshape.pos"},
		{Key: "channels", Path: doc.Channels, DestName: "channels.tsv"},
		{Key: "events", Path: doc.Events, DestName: "events.tsv"},
	})
	if err != nil {
		return err
	}

	for _, r := range resolved {
		switch {
		case r.Exists:
			log.WithFields(logrus.Fields{"key": r.Key, "dest": r.Dest}).Debug("auxiliary file copied")
		case r.Source != "":
			report.Warningf("%s file %s not found, continuing without it", r.Key, r.Source)
		}
	}

	if src := sourceOf(resolved, "channels"); src != "" {
		bads, err := recording.LoadChannelStatus(src)
		if err != nil {
			return err
		}
		rec.MarkBad(bads)
		if len(bads) > 0 {
			report.Infof("%d channel(s) marked bad from the channels file", len(bads))
		}
	}

	matrix, err := buildMatrix(doc, rec, opts.Settings, report)
	if err != nil {
		return err
	}
	log.WithField("events", len(matrix)).Info("events matrix built")

	res, err := epochs.Extract(rec, matrix, params)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		report.Warningf("%s", w)
	}
	if len(res.Drops) > 0 {
		report.Warningf("%d epoch(s) dropped: %s", len(res.Drops), summarizeDrops(res.Drops))
	}
	report.Infof("%d epoch(s) extracted from %d event(s)", len(res.Epochs), len(matrix))

	outPath := filepath.Join(opts.Settings.OutDir, OutputName)
	if err := epochs.Save(outPath, res); err != nil {
		return err
	}
	log.WithField("output", outPath).Info("segmented data written")

	report.Successf("Data was successfully epoched.")
	return status.Save(report, opts.Settings.Product)
}

// buildMatrix reads the events table when one is configured, otherwise
// synthesizes fixed-length events. A configured-but-absent events file
// is fatal.
func buildMatrix(doc *config.Document, rec *recording.Recording, s settings.Settings, report *status.Report) (events.Matrix, error) {
	if doc.Events == "" {
		report.Infof("no events file given, creating fixed length events every %g s", s.FixedLengthDuration)
		return events.FixedLength(rec.FirstSample, rec.SampleCount(), rec.SampleRate, s.FixedLengthDuration), nil
	}

	if _, err := os.Stat(doc.Events); err != nil {
		return nil, &MissingInputError{Key: "events", Path: doc.Events}
	}

	report.Infof("events are read from the events file, make sure it is BIDS compliant")

	table, err := events.ReadTable(doc.Events)
	if err != nil {
		return nil, err
	}
	return events.Build(rec.FirstSample, table), nil
}

func sourceOf(resolved []auxfiles.Resolved, key string) string {
	for _, r := range resolved {
		if r.Key == key && r.Exists {
			return r.Source
		}
	}
	return ""
}

func summarizeDrops(drops []epochs.Drop) string {
	counts := make(map[string]int)
	var order []string
	for _, d := range drops {
		if counts[d.Reason] == 0 {
			order = append(order, d.Reason)
		}
		counts[d.Reason]++
	}

	out := ""
	for i, reason := range order {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s x%d", reason, counts[reason])
	}
	return out
}
