package mems

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/mems/bitmap"
	"github.com/bodgit/mems/grid"
	"github.com/bodgit/mems/param"
	"github.com/bodgit/mems/table"
)

const (
	batchWorkers = 10

	// TableExt is appended to the image file name by Batch
	TableExt = ".tsv"
)

var imageExts = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

func isImage(file string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(file))]
	return ok
}

func (s *Session) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// exportImage imports file into a fresh grid and writes its table beside it
func (s *Session) exportImage(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	states, err := bitmap.Read(f, s.config.Width, s.config.Height, s.config.Filter)
	if err != nil {
		if errors.Is(err, bitmap.ErrDecode) {
			s.logger.Printf("Skipping \"%s\": %v\n", file, err)
			return nil
		}
		return err
	}

	g, err := grid.New(s.config.Width, s.config.Height)
	if err != nil {
		return err
	}
	if err := g.Load(states); err != nil {
		return err
	}

	w, err := os.Create(file + TableExt)
	if err != nil {
		return err
	}
	defer w.Close()

	t := table.Format(param.Encode(g.Snapshot(), s.config.GroupSize), s.config.Orientation)
	if _, err := t.WriteTo(w); err != nil {
		return err
	}

	s.logger.Printf("Exported \"%s\", %d/%d active pixels\n", file, g.Active(), g.Len())

	return w.Close()
}

func (s *Session) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := s.exportImage(file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch walks path and, for every image found, writes the parameter table of
// that image to a file named after it with TableExt appended, so a.png and
// a.jpg produce a.png.tsv and a.jpg.tsv. Each image is imported into its own
// grid of the session's dimensions; the session's grid is not touched. Images that cannot be decoded are logged and skipped.
func (s *Session) Batch(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < batchWorkers; i++ {
		errc, err := s.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
