package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	groovyExt = ".gradle"
	kotlinExt = ".kts"
)

// FileResult is the outcome of converting one file.
type FileResult struct {
	Path       string
	OutputPath string
	Result     *Result
	Err        error
}

// OutputPath returns where the conversion of path is written:
// build.gradle becomes build.gradle.kts. With outDir set, a relative path
// keeps its directories under outDir and any other path keeps its base
// name only.
func OutputPath(path, outDir string) string {
	name := path
	if ext := filepath.Ext(name); ext != groovyExt {
		name = strings.TrimSuffix(name, ext) + groovyExt
	}
	name += kotlinExt

	if outDir == "" {
		return name
	}
	if !filepath.IsLocal(name) {
		name = filepath.Base(name)
	}
	return filepath.Join(outDir, name)
}

// ConvertFile reads, converts and writes one file.
func (e *Engine) ConvertFile(path string) (*FileResult, error) {
	out := &FileResult{Path: path, OutputPath: OutputPath(path, e.cfg.OutputDir)}

	src, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := e.ConvertSource(path, string(src))
	if err != nil {
		return out, err
	}
	out.Result = res

	if err := os.MkdirAll(filepath.Dir(out.OutputPath), 0750); err != nil {
		return out, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out.OutputPath, []byte(res.Output), 0600); err != nil {
		return out, fmt.Errorf("failed to write %s: %w", out.OutputPath, err)
	}
	return out, nil
}

// ConvertFiles converts paths in parallel, at most Jobs at a time. Results
// keep the order of paths. Without FailFast every file is attempted and
// failures are reported in FileResult.Err; with FailFast the first failure
// cancels the batch and is returned.
func (e *Engine) ConvertFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	jobs := e.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Info("converting files", "count", len(paths), "jobs", jobs)

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Path: path, OutputPath: OutputPath(path, e.cfg.OutputDir), Err: err}
				return nil
			}

			res, err := e.ConvertFile(path)
			results[i] = *res
			results[i].Err = err
			if err == nil {
				logger.Debug("file converted", "path", path, "output", res.OutputPath)
				return nil
			}

			logger.Warn("file failed", "path", path, "error", err)
			if e.cfg.FailFast {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// skippedDirs are never searched for build scripts.
var skippedDirs = []string{"build", "node_modules", "out"}

func skipDir(name string) bool {
	return (strings.HasPrefix(name, ".") && name != ".") || slices.Contains(skippedDirs, name)
}

// Discover returns the Groovy build scripts under root in lexical order.
// A root that is a file is returned as is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == groovyExt {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover scripts in %s: %w", root, err)
	}
	return found, nil
}
