package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/KashifMalik777/ml-ids/util"

	"github.com/pbnjay/memory"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

//LoadOptions controls how source files are loaded
type LoadOptions struct {
	// Threads is the number of files read concurrently
	Threads int
	// Progress receives the progress bar. Defaults to stdout.
	Progress io.Writer
}

//LoadFiles reads every source file using a fixed number of goroutines.
//Loaded files are returned in the order of sources regardless of which
//goroutine read them. Files which fail to load are logged and returned
//as skipped rather than aborting the load.
func LoadFiles(ctx context.Context, sources []Source, opts LoadOptions, logger *log.Logger) ([]*LoadedFile, []SkippedFile) {
	n := len(sources)
	if n == 0 {
		return nil, nil
	}
	threads := util.Max(1, util.Min(opts.Threads, n))
	progress := opts.Progress
	if progress == nil {
		progress = os.Stdout
	}

	warnIfLargerThanMemory(progress, sources, memory.TotalMemory(), logger)

	output := make([]*LoadedFile, n)
	errs := make([]error, n)
	loadingWG := new(sync.WaitGroup)

	p := mpb.New(mpb.WithWidth(20), mpb.WithOutput(progress))
	bar := p.AddBar(int64(n),
		mpb.PrependDecorators(
			decor.Name("\t[-] Loading Files:", decor.WC{W: 30, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	for i := 0; i < threads; i++ {
		loadingWG.Add(1)

		go func(start int, jump int, length int) {
			defer loadingWG.Done()
			for j := start; j < length; j += jump {
				began := time.Now()
				if err := ctx.Err(); err != nil {
					errs[j] = err
					bar.IncrBy(1, time.Since(began))
					continue
				}

				loaded, err := ReadFile(sources[j])
				if err != nil {
					logger.WithFields(log.Fields{
						"file":  sources[j].Path,
						"error": err.Error(),
					}).Warn("An error was encountered while loading a file, skipping it.")
					errs[j] = err
				} else {
					output[j] = loaded
					logger.WithFields(log.Fields{
						"file":     loaded.Path,
						"encoding": loaded.Encoding,
						"rows":     loaded.Table.NumRows(),
						"columns":  len(loaded.Table.Columns),
					}).Debug("Loaded file")
				}
				bar.IncrBy(1, time.Since(began))
			}
		}(i, threads, n)
	}

	loadingWG.Wait()
	p.Wait()

	// collapse the fixed slots, keeping source order
	loadedFiles := make([]*LoadedFile, 0, n)
	var skipped []SkippedFile
	for j, file := range output {
		if file != nil {
			loadedFiles = append(loadedFiles, file)
		} else {
			skipped = append(skipped, SkippedFile{Path: sources[j].Path, Err: errs[j]})
		}
	}
	return loadedFiles, skipped
}

// warnIfLargerThanMemory logs a warning and tells the user when the inputs
// exceed a quarter of sysMem. Tables are held in memory as float64 columns
// and generally take more space than the text they were parsed from.
func warnIfLargerThanMemory(w io.Writer, sources []Source, sysMem uint64, logger *log.Logger) bool {
	var total uint64
	for _, src := range sources {
		info, err := os.Stat(src.Path)
		if err != nil {
			continue
		}
		total += uint64(info.Size())
	}

	if sysMem == 0 || total <= sysMem/4 {
		return false
	}

	logger.WithFields(log.Fields{
		"input_bytes":  total,
		"system_bytes": sysMem,
	}).Warn("Input files are large compared to system memory")
	fmt.Fprintf(w, "\t[!] Input files total %s, the system has %s of memory\n",
		util.FormatBytes(total), util.FormatBytes(sysMem))
	return true
}
