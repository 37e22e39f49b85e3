package xlmacro

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Run applies a macro to the workbook at inputPath and saves the result to
// outputPath (which may equal inputPath). Nothing is saved when the macro
// fails.
func Run(ctx context.Context, macro, inputPath, outputPath string, opts ...Option) (*Report, error) {
	return NewRunner(opts...).RunFile(ctx, macro, inputPath, outputPath)
}

// RunReader applies a macro to a workbook read from in and writes the
// result to out.
func RunReader(ctx context.Context, macro string, in io.Reader, out io.Writer, opts ...Option) (*Report, error) {
	return NewRunner(opts...).RunReader(ctx, macro, in, out)
}

// Runner resolves selections and dispatches macros.
type Runner struct {
	opts     *Options
	registry *Registry
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Runner{opts: o, registry: NewRegistry(o)}
}

// Macros lists the macros this runner knows.
func (r *Runner) Macros() []string {
	return r.registry.Names()
}

// RunFile applies a macro to a workbook file. The output path is locked for
// the whole read-modify-write cycle so concurrent invocations cannot
// interleave their writes.
func (r *Runner) RunFile(ctx context.Context, macro, inputPath, outputPath string) (*Report, error) {
	if outputPath == "" {
		outputPath = inputPath
	}
	lockPath, err := LockPath(outputPath)
	if err != nil {
		return nil, err
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock workbook %q: %w", outputPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("workbook %q is being modified by another invocation", outputPath)
	}
	defer lock.Unlock()

	wb, err := OpenWorkbook(inputPath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	report, err := r.Apply(ctx, macro, wb)
	if err != nil {
		return nil, err
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return nil, err
	}
	return report, nil
}

// LockPath returns the advisory lock file guarding writes to a workbook. It
// lives in the temp directory, named after the workbook's absolute path, so
// nothing is left next to the workbook itself.
func LockPath(workbookPath string) (string, error) {
	abs, err := filepath.Abs(workbookPath)
	if err != nil {
		return "", fmt.Errorf("resolve workbook path %q: %w", workbookPath, err)
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs)))
	return filepath.Join(os.TempDir(), "xlmacro-"+name.String()+".lock"), nil
}

// RunReader applies a macro to a workbook read from in and writes it to out.
func (r *Runner) RunReader(ctx context.Context, macro string, in io.Reader, out io.Writer) (*Report, error) {
	wb, err := OpenWorkbookReader(in)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	report, err := r.Apply(ctx, macro, wb)
	if err != nil {
		return nil, err
	}
	if err := wb.Write(out); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return report, nil
}

// Apply runs a macro against an open workbook without saving it.
func (r *Runner) Apply(ctx context.Context, macro string, wb *Workbook) (*Report, error) {
	m, err := r.registry.Get(macro)
	if err != nil {
		return nil, err
	}
	logger := r.opts.logger.With("macro", m.Name())

	area, err := r.selection(wb)
	if err != nil {
		return nil, err
	}
	area, err = wb.ResolveArea(area)
	if err != nil {
		return nil, err
	}
	if err := validateSelection(area, m.SingleColumn()); err != nil {
		return nil, err
	}

	filter, err := CompileRowFilter(r.opts.rowFilter)
	if err != nil {
		return nil, err
	}
	values, err := wb.ReadArea(area)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info("macro started", "range", area.String(), "rows", len(values))
	report, err := m.Apply(ctx, &Selection{
		Workbook: wb,
		Area:     area,
		Values:   values,
		Filter:   filter,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("macro failed", "range", area.String(), "error", err)
		return nil, fmt.Errorf("%s on %s: %w", m.Name(), area, err)
	}

	size := area.Size()
	report.Macro = m.Name()
	report.Range = area.String()
	report.Rows = size.Height
	report.Cells = size.Cells()
	logger.Info("macro finished",
		"range", report.Range,
		"written", report.Written,
		"filtered", report.Filtered,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return report, nil
}

func (r *Runner) selection(wb *Workbook) (AreaRef, error) {
	if r.opts.area == "" {
		return wb.Selection()
	}
	area, err := ParseAreaRef(r.opts.area)
	if err != nil {
		return AreaRef{}, &UsageError{Err: ErrNoSelection, Detail: err.Error()}
	}
	return area, nil
}
