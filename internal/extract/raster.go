package extract

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Blank placeholder pages are A4 at scan resolution.
const (
	placeholderWidth  = 2480
	placeholderHeight = 3508
)

// rasterize renders every page of the PDF into PNG files under tmpDir and
// returns them in page order. Strategies cascade: poppler's pdftoppm, then
// mupdf's mutool, then synthesized blank pages so the document still moves
// through the pipeline.
func (s *ScannedExtractor) rasterize(ctx context.Context, path, tmpDir string) ([]string, string, error) {
	dpi := int(72 * s.zoom)
	if dpi <= 0 {
		dpi = 144
	}
	prefix := filepath.Join(tmpDir, "page")

	return runChain(s.logger, "extract.raster", []strategy[[]string]{
		{name: "pdftoppm", run: func() ([]string, error) {
			// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
			_, errb, err := s.runner.Run(ctx, s.pdftoppm, "-r", strconv.Itoa(dpi), "-png", path, prefix)
			if err != nil {
				return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
			}
			return collectPageImages(prefix + "-*.png")
		}},
		{name: "mutool", run: func() ([]string, error) {
			// mutool draw -r <dpi> -o <tmp/page-%d.png> <in.pdf>
			_, errb, err := s.runner.Run(ctx, s.mutool, "draw", "-r", strconv.Itoa(dpi), "-o", prefix+"-%d.png", path)
			if err != nil {
				return nil, fmt.Errorf("mutool: %w: %s", err, truncate(string(errb), 512))
			}
			return collectPageImages(prefix + "-*.png")
		}},
		{name: "placeholder", run: func() ([]string, error) {
			return synthesizeBlankPages(path, tmpDir, s.logger)
		}},
	})
}

func collectPageImages(pattern string) ([]string, error) {
	matches, _ := filepath.Glob(pattern)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}
	sortPageFiles(matches)
	return matches, nil
}

var rePageNum = regexp.MustCompile(`(\d+)\.png$`)

// sortPageFiles orders rendered pages numerically; mutool does not zero-pad
// page numbers, so a plain lexicographic sort would scramble 10+ page docs.
func sortPageFiles(files []string) {
	num := func(s string) int {
		m := rePageNum.FindStringSubmatch(s)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	sort.Slice(files, func(i, j int) bool { return num(files[i]) < num(files[j]) })
}

// synthesizeBlankPages writes white placeholder images, one per page of the
// source document (best effort: a single page when the count is unreadable).
func synthesizeBlankPages(path, tmpDir string, logger *slog.Logger) ([]string, error) {
	count, err := api.PageCountFile(path)
	if err != nil || count <= 0 {
		logger.Warn("extract.raster.page_count_unreadable", "path", path, "error", err)
		count = 1
	}

	blank := image.NewNRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	for y := 0; y < placeholderHeight; y++ {
		for x := 0; x < placeholderWidth; x++ {
			blank.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	var files []string
	for i := 1; i <= count; i++ {
		out := filepath.Join(tmpDir, fmt.Sprintf("blank-%03d.png", i))
		if err := imaging.Save(blank, out); err != nil {
			return nil, fmt.Errorf("write placeholder page: %w", err)
		}
		files = append(files, out)
	}
	return files, nil
}
