package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thywilljoshua/booksum/internal/progress"
	"github.com/thywilljoshua/booksum/internal/sections"
	"github.com/thywilljoshua/booksum/internal/summarize"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

const book = "Title page\n[Page 1 Start]\nCHAPTER 1: Intro\nHello world.\n[Page 2 Start]\nCHAPTER 2: Middle\nMore text.\nCHAPTER 3: End\nFinal."

type fakeSource struct {
	text string
	err  error
}

func (f fakeSource) Text(ctx context.Context, path string) (string, error) { return f.text, f.err }

type fakeGenerator struct {
	bodies  []string
	failAll bool
	failOn  string
}

func (f *fakeGenerator) Generate(ctx context.Context, directive, body string) (string, error) {
	f.bodies = append(f.bodies, body)
	if f.failAll || (f.failOn != "" && strings.Contains(body, f.failOn)) {
		return "", errors.New("generation failed")
	}
	return "sum(" + strings.SplitN(body, "\n", 2)[0] + ")", nil
}

type memSink struct {
	files map[string]string
	fail  string
}

func newMemSink() *memSink { return &memSink{files: map[string]string{}} }

func (m *memSink) Write(name, content string) (string, error) {
	if name == m.fail {
		return "", errors.New("disk full")
	}
	m.files[name] = content
	return "mem/" + name, nil
}

type countingPartitioner struct {
	calls int
}

func (c *countingPartitioner) Partition(text string, b []sections.Boundary) sections.Result {
	c.calls++
	return sections.NewTextPartitioner(nil).Partition(text, b)
}

func newDriver(src TextSource, gen *fakeGenerator, sink Sink, part sections.Partitioner, out *bytes.Buffer) *Driver {
	var w io.Writer
	if out != nil {
		w = out
	}
	return New(Deps{
		Source:      src,
		Detector:    sections.NewHeadingDetector(sections.PartsAndChapters),
		Partitioner: part,
		Reducer:     summarize.NewReducer(summarize.New(gen, nil), summarize.Config{ChunkSize: 40}, nil),
		Sink:        sink,
		Progress:    progress.New(w),
	})
}

func TestRunWritesSectionAndOverallSummaries(t *testing.T) {
	gen := &fakeGenerator{}
	sink := newMemSink()
	var out bytes.Buffer

	res, err := newDriver(fakeSource{text: book}, gen, sink, nil, &out).Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	require.Len(t, res.Sections, 3)
	assert.Equal(t, "CHAPTER 2: Middle\nMore text.", res.Sections[1].Body)
	require.Len(t, res.Summaries, 3)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, "sum(CHAPTER 1: Intro)", sink.files["CHAPTER_1_Intro_Summary.txt"])
	assert.Equal(t, "sum(CHAPTER 3: End)", sink.files["CHAPTER_3_End_Summary.txt"])
	assert.Contains(t, sink.files[ContentsFileName], "- CHAPTER 2: Middle -> CHAPTER_2_Middle_Summary.txt")

	// Combined text is 3 summaries joined by blank lines, 66 chars, so the
	// reduce stage sends chunks of 40 and 26.
	require.Len(t, gen.bodies, 5)
	assert.Len(t, gen.bodies[3], 40)
	assert.Len(t, gen.bodies[4], 26)
	assert.Equal(t, res.Overall, sink.files[OverallFileName])
	assert.Equal(t, "sum(sum(CHAPTER 1: Intro))\n\nsum(ddle))", res.Overall)
	assert.Contains(t, res.Files, "mem/"+OverallFileName)

	assert.Contains(t, out.String(), "Processing CHAPTER 1: Intro...")
	assert.Contains(t, out.String(), "Overall Summary saved.")
}

func TestRunHaltsWithoutStructure(t *testing.T) {
	gen := &fakeGenerator{}
	sink := newMemSink()
	part := &countingPartitioner{}

	_, err := newDriver(fakeSource{text: "Just prose, no headings."}, gen, sink, part, nil).Run(context.Background(), "book.pdf")

	require.ErrorIs(t, err, ErrNoStructure)
	assert.Zero(t, part.calls)
	assert.Empty(t, gen.bodies)
	assert.Empty(t, sink.files)
}

func TestRunFailsOnTextAcquisition(t *testing.T) {
	gen := &fakeGenerator{}
	sink := newMemSink()
	boom := errors.New("cannot parse pages")

	_, err := newDriver(fakeSource{err: boom}, gen, sink, nil, nil).Run(context.Background(), "book.pdf")

	require.ErrorIs(t, err, boom)
	assert.Empty(t, gen.bodies)
	assert.Empty(t, sink.files)
}

func TestRunRequiresDocument(t *testing.T) {
	_, err := newDriver(fakeSource{text: book}, &fakeGenerator{}, newMemSink(), nil, nil).Run(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestRunSkipsFailedSection(t *testing.T) {
	gen := &fakeGenerator{failOn: "Middle"}
	sink := newMemSink()
	var out bytes.Buffer

	res, err := newDriver(fakeSource{text: book}, gen, sink, nil, &out).Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"CHAPTER 2: Middle"}, res.Skipped)
	require.Len(t, res.Summaries, 2)
	assert.NotContains(t, sink.files, "CHAPTER_2_Middle_Summary.txt")
	assert.Contains(t, sink.files[ContentsFileName], "- CHAPTER 2: Middle -> (no summary)")
	assert.Contains(t, out.String(), "No summary generated for CHAPTER 2: Middle. Skipping...")
	assert.NotEmpty(t, sink.files[OverallFileName])
}

func TestRunAllSectionsFail(t *testing.T) {
	gen := &fakeGenerator{failAll: true}
	sink := newMemSink()
	var out bytes.Buffer

	res, err := newDriver(fakeSource{text: book}, gen, sink, nil, &out).Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	assert.Len(t, res.Skipped, 3)
	assert.Empty(t, res.Overall)
	assert.Len(t, gen.bodies, 3)
	assert.NotContains(t, sink.files, OverallFileName)
	assert.Contains(t, out.String(), "No overall summary generated.")
}

func TestRunDropsUnlocatableSection(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gen := &fakeGenerator{}
	sink := newMemSink()
	d := New(Deps{
		Source: fakeSource{text: book},
		Detector: detectorFunc(func(text string) []sections.Boundary {
			return []sections.Boundary{
				{Kind: sections.Chapter, Title: "CHAPTER 1: Intro"},
				{Kind: sections.Chapter, Title: "CHAPTER 7: Ghost"},
				{Kind: sections.Chapter, Title: "CHAPTER 3: End"},
			}
		}),
		Reducer: summarize.NewReducer(summarize.New(gen, nil), summarize.DefaultConfig(), nil),
		Sink:    sink,
		Log:     zap.New(core),
	})

	res, err := d.Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	require.Len(t, res.Dropped, 1)
	require.Len(t, res.Sections, 2)
	assert.Len(t, res.Summaries, 2)
	for _, b := range gen.bodies {
		assert.NotContains(t, b, "Ghost")
	}
	assert.NotContains(t, sink.files[OverallFileName], "Ghost")
	assert.Equal(t, 1, logs.FilterMessage("section title not found in text, skipping").Len())
}

func TestRunSectionWriteFailureIsNotFatal(t *testing.T) {
	sink := newMemSink()
	sink.fail = "CHAPTER_1_Intro_Summary.txt"

	res, err := newDriver(fakeSource{text: book}, &fakeGenerator{}, sink, nil, nil).Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	assert.Len(t, res.Summaries, 3)
	assert.Contains(t, sink.files, "CHAPTER_2_Middle_Summary.txt")
	assert.Contains(t, sink.files, OverallFileName)
}

func TestRunOverallWriteFailure(t *testing.T) {
	sink := newMemSink()
	sink.fail = OverallFileName

	_, err := newDriver(fakeSource{text: book}, &fakeGenerator{}, sink, nil, nil).Run(context.Background(), "book.pdf")
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDriver(fakeSource{text: book}, &fakeGenerator{}, newMemSink(), nil, nil).Run(ctx, "book.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunKeepsCollidingTitlesApart(t *testing.T) {
	text := "CHAPTER 1: Intro\nalpha body\nCHAPTER 1 - Intro\nbeta body\n"
	sink := newMemSink()

	res, err := newDriver(fakeSource{text: text}, &fakeGenerator{}, sink, nil, nil).Run(context.Background(), "book.pdf")
	require.NoError(t, err)

	require.Len(t, res.Summaries, 2)
	assert.Equal(t, "sum(CHAPTER 1: Intro)", sink.files["CHAPTER_1_Intro_Summary.txt"])
	assert.Equal(t, "sum(CHAPTER 1 - Intro)", sink.files["CHAPTER_1_Intro_2_Summary.txt"])
	assert.ElementsMatch(t, []string{
		"mem/CHAPTER_1_Intro_Summary.txt",
		"mem/CHAPTER_1_Intro_2_Summary.txt",
		"mem/" + ContentsFileName,
		"mem/" + OverallFileName,
	}, res.Files)

	contents := sink.files[ContentsFileName]
	assert.Contains(t, contents, "- CHAPTER 1: Intro -> CHAPTER_1_Intro_Summary.txt\n")
	assert.Contains(t, contents, "- CHAPTER 1 - Intro -> CHAPTER_1_Intro_2_Summary.txt\n")
}

type cancellingGenerator struct {
	fakeGenerator
	cancel context.CancelFunc
}

func (c *cancellingGenerator) Generate(ctx context.Context, directive, body string) (string, error) {
	c.cancel()
	return c.fakeGenerator.Generate(ctx, directive, body)
}

func TestRunStopsMapStageOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := &cancellingGenerator{cancel: cancel}
	var out bytes.Buffer

	d := New(Deps{
		Source:   fakeSource{text: book},
		Detector: sections.NewHeadingDetector(sections.PartsAndChapters),
		Reducer:  summarize.NewReducer(summarize.New(gen, nil), summarize.Config{}, nil),
		Sink:     newMemSink(),
		Progress: progress.New(&out),
	})
	_, err := d.Run(ctx, "book.pdf")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.bodies, 1)
	assert.NotContains(t, out.String(), "Skipping")
}

func TestNamerAvoidsCollisions(t *testing.T) {
	n := NewNamer()

	assert.Equal(t, "CHAPTER_1_Intro_Summary.txt", n.Name("CHAPTER 1: Intro"))
	assert.Equal(t, "CHAPTER_1_Intro_2_Summary.txt", n.Name("CHAPTER 1 - Intro"))
	assert.Equal(t, "chapter_1_intro_3_Summary.txt", n.Name("chapter 1 intro"))
	assert.Equal(t, "CHAPTER_2_Summary.txt", n.Name("CHAPTER 2"))

	long := "CHAPTER 9 " + strings.Repeat("x", 60)
	first := n.Name(long + " one")
	second := n.Name(long + " two")
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "_2_Summary.txt"))

	assert.Equal(t, "Overall_2_Summary.txt", n.Name("Overall"))
	assert.NotEqual(t, ContentsFileName, n.Name("Contents"))
}

func TestSegment(t *testing.T) {
	d := newDriver(fakeSource{}, &fakeGenerator{}, newMemSink(), nil, nil)

	seg, err := d.Segment(book)
	require.NoError(t, err)
	assert.Len(t, seg.Boundaries, 3)
	assert.Len(t, seg.Sections, 3)

	_, err = d.Segment("")
	assert.ErrorIs(t, err, ErrNoStructure)
}

func TestSanitizeTitle(t *testing.T) {
	cases := map[string]string{
		"CHAPTER 1: Intro":      "CHAPTER_1_Intro",
		"  PART II -- The End ": "PART_II_The_End",
		"Chapter 3/4: a\\b?":    "Chapter_3_4_a_b",
		"???":                   "Section",
		"Rozdział 5 — Łódź":     "Rozdział_5_Łódź",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeTitle(in), "title %q", in)
	}

	long := SanitizeTitle("CHAPTER 12 " + strings.Repeat("word ", 30))
	assert.LessOrEqual(t, len([]rune(long)), 50)
	assert.False(t, strings.HasSuffix(long, "_"))
	assert.Equal(t, "CHAPTER_1_Intro_Summary.txt", SummaryFileName("CHAPTER 1: Intro"))
}

func TestDirSinkOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := DirSink{Dir: dir}

	_, err := s.Write("a.txt", "first")
	require.NoError(t, err)
	path, err := s.Write("a.txt", "second")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestRenderContentsNestsChapters(t *testing.T) {
	secs := []sections.Section{
		{Kind: sections.Part, Title: "PART 1"},
		{Kind: sections.Chapter, Title: "CHAPTER 1"},
	}
	files := map[sections.Key]string{secs[1].Key(): "CHAPTER_1_Summary.txt"}

	got := renderContents(sections.Nest(secs), files)

	assert.Contains(t, got, "- PART 1 -> (no summary)\n  - CHAPTER 1 -> CHAPTER_1_Summary.txt\n")
}

type detectorFunc func(text string) []sections.Boundary

func (f detectorFunc) Detect(text string) []sections.Boundary { return f(text) }
