package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/thywilljoshua/booksum/internal/progress"
	"github.com/thywilljoshua/booksum/internal/sections"
	"github.com/thywilljoshua/booksum/internal/summarize"
	"go.uber.org/zap"
)

var (
	ErrNoDocument  = errors.New("no input document selected")
	ErrNoStructure = errors.New("no parts or chapters found in the document text")
)

// TextSource acquires the raw text of a document.
type TextSource interface {
	Text(ctx context.Context, path string) (string, error)
}

type Deps struct {
	Source      TextSource
	Detector    sections.Detector
	Partitioner sections.Partitioner // defaults to sections.TextPartitioner
	Reducer     *summarize.Reducer
	Sink        Sink
	Log         *zap.Logger
	Progress    *progress.Printer
}

// Driver runs one document through extraction, segmentation, the map stage
// and the reduce stage, writing outputs as it goes.
type Driver struct {
	source      TextSource
	detector    sections.Detector
	partitioner sections.Partitioner
	reducer     *summarize.Reducer
	sink        Sink
	log         *zap.Logger
	out         *progress.Printer
}

func New(d Deps) *Driver {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Partitioner == nil {
		d.Partitioner = sections.NewTextPartitioner(d.Log)
	}
	if d.Progress == nil {
		d.Progress = progress.New(nil)
	}
	if d.Sink == nil {
		d.Sink = DirSink{Dir: "."}
	}
	return &Driver{
		source:      d.Source,
		detector:    d.Detector,
		partitioner: d.Partitioner,
		reducer:     d.Reducer,
		sink:        d.Sink,
		log:         d.Log,
		out:         d.Progress,
	}
}

// Segmentation is the section structure derived from a document's text.
type Segmentation struct {
	Boundaries []sections.Boundary `json:"boundaries"`
	Sections   []sections.Section  `json:"sections"`
	Dropped    []sections.Boundary `json:"dropped,omitempty"`
}

type Result struct {
	Segmentation
	Summaries []summarize.SectionSummary `json:"summaries"`
	Skipped   []string                   `json:"skipped,omitempty"`
	Overall   string                     `json:"-"`
	Files     []string                   `json:"files"`
}

// Segment detects boundaries and partitions text. It fails with
// ErrNoStructure when no boundary is found.
func (d *Driver) Segment(text string) (Segmentation, error) {
	bounds := d.detector.Detect(text)
	if len(bounds) == 0 {
		return Segmentation{}, ErrNoStructure
	}
	d.log.Debug("boundaries detected", zap.Int("count", len(bounds)))
	part := d.partitioner.Partition(text, bounds)
	return Segmentation{Boundaries: bounds, Sections: part.Sections, Dropped: part.Dropped}, nil
}

// Load acquires the document text and segments it without generating
// anything.
func (d *Driver) Load(ctx context.Context, path string) (Segmentation, error) {
	if path == "" {
		return Segmentation{}, ErrNoDocument
	}
	d.out.Stage("Extracting text from %s", path)
	text, err := d.source.Text(ctx, path)
	if err != nil {
		return Segmentation{}, fmt.Errorf("acquire document text: %w", err)
	}
	seg, err := d.Segment(text)
	if err != nil {
		return Segmentation{}, err
	}
	for _, b := range seg.Dropped {
		d.out.Warn("Could not locate %q in the text. Skipping...", b.Title)
	}
	return seg, nil
}

// Run processes the document at path. Fatal conditions (no document, text
// acquisition failure, no structure) return before any generation request;
// per-section failures are reported and skipped.
func (d *Driver) Run(ctx context.Context, path string) (Result, error) {
	var res Result
	seg, err := d.Load(ctx, path)
	if err != nil {
		return res, err
	}
	res.Segmentation = seg
	d.out.Stage("Found %d sections", len(seg.Sections))

	files := map[sections.Key]string{}
	obs := &runObserver{d: d, res: &res, files: files, names: NewNamer()}
	sums, combined := d.reducer.SummarizeSections(ctx, seg.Sections, obs)
	res.Summaries = sums
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if len(seg.Sections) > 0 {
		contents := renderContents(sections.Nest(seg.Sections), files)
		if p, err := d.sink.Write(ContentsFileName, contents); err != nil {
			d.log.Warn("contents not written", zap.Error(err))
		} else {
			res.Files = append(res.Files, p)
		}
	}

	d.out.Stage("Generating overall summary")
	res.Overall = d.reducer.SummarizeOverall(ctx, combined)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if res.Overall == "" {
		d.out.Warn("No overall summary generated.")
		return res, nil
	}
	p, err := d.sink.Write(OverallFileName, res.Overall)
	if err != nil {
		return res, fmt.Errorf("save overall summary: %w", err)
	}
	res.Files = append(res.Files, p)
	d.out.Success("Overall Summary saved.")
	return res, nil
}

type runObserver struct {
	d     *Driver
	res   *Result
	files map[sections.Key]string
	names *Namer
}

func (o *runObserver) SectionStarted(index, total int, s sections.Section) {
	o.d.out.Processing(index, total, s.Title)
}

func (o *runObserver) SectionDone(out summarize.Outcome) {
	title := out.Section.Title
	if !out.OK {
		o.res.Skipped = append(o.res.Skipped, title)
		o.d.out.Warn("No summary generated for %s. Skipping...", title)
		return
	}
	name := o.names.Name(title)
	path, err := o.d.sink.Write(name, out.Summary.Text)
	if err != nil {
		o.d.log.Warn("section summary not written", zap.String("title", title), zap.Error(err))
		o.d.out.Warn("Could not save summary for %s.", title)
		return
	}
	o.files[out.Section.Key()] = name
	o.res.Files = append(o.res.Files, path)
	o.d.out.Success("%s summary saved.", title)
}
