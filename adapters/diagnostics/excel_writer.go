// Package diagnostics writes per-run convergence artifacts as Excel
// workbooks: a burn-in trace workbook (one sheet per parameter, steps down
// the rows and walkers across the columns) and a corner workbook holding
// the flattened marginal samples for pairwise inspection.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"photoeccentric/domain/fit"
	"photoeccentric/internal"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// ExcelWriter writes run diagnostics under a base artifacts directory. One
// subdirectory per run id.
type ExcelWriter struct {
	baseDir string
	log     *internal.Logger
}

// NewExcelWriter creates a diagnostics writer rooted at baseDir.
func NewExcelWriter(baseDir string) *ExcelWriter {
	return &ExcelWriter{baseDir: baseDir, log: internal.DefaultLogger}
}

// WriteBurnInTrace writes trace.xlsx with one sheet per parameter. Each
// sheet has a header row of walker indices and one row per recorded step,
// including the burn-in, so the settling phase stays visible.
func (w *ExcelWriter) WriteBurnInTrace(runID string, labels []string, chain *fit.Chain) error {
	if chain == nil || chain.Dims() != len(labels) {
		return errors.InvalidInputf("trace needs one label per chain dimension: labels=%d dims=%d",
			len(labels), chainDims(chain))
	}

	f := excelize.NewFile()
	defer f.Close()

	for dim, label := range labels {
		sheet := label
		if dim == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.Wrapf(err, "failed to add trace sheet %q", sheet)
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetCellValue(sheet, cell, "step"); err != nil {
			return errors.Wrap(err, "failed to write trace header")
		}
		for walker := 0; walker < chain.Walkers(); walker++ {
			cell, _ := excelize.CoordinatesToCellName(walker+2, 1)
			if err := f.SetCellValue(sheet, cell, fmt.Sprintf("walker_%d", walker)); err != nil {
				return errors.Wrap(err, "failed to write trace header")
			}
		}

		for step := 0; step < chain.Steps(); step++ {
			cell, _ := excelize.CoordinatesToCellName(1, step+2)
			if err := f.SetCellValue(sheet, cell, step); err != nil {
				return errors.Wrap(err, "failed to write trace row")
			}
			for walker := 0; walker < chain.Walkers(); walker++ {
				cell, _ := excelize.CoordinatesToCellName(walker+2, step+2)
				if err := f.SetCellValue(sheet, cell, chain.At(step, walker, dim)); err != nil {
					return errors.Wrap(err, "failed to write trace row")
				}
			}
		}
	}

	return w.save(f, runID, "trace.xlsx")
}

// WriteCornerMatrix writes corner.xlsx: a single sheet of the flattened
// samples, one column per parameter. Any plotting tool can build the
// pairwise scatter matrix from it.
func (w *ExcelWriter) WriteCornerMatrix(runID string, labels []string, flat *fit.FlatSamples) error {
	if flat == nil || flat.Dims() != len(labels) {
		return errors.InvalidInputf("corner matrix needs one label per sample column: labels=%d dims=%d",
			len(labels), flatDims(flat))
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "samples"
	f.SetSheetName("Sheet1", sheet)

	for dim, label := range labels {
		cell, _ := excelize.CoordinatesToCellName(dim+1, 1)
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return errors.Wrap(err, "failed to write corner header")
		}
		col := flat.Column(dim)
		for i, v := range col {
			cell, _ := excelize.CoordinatesToCellName(dim+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrap(err, "failed to write corner column")
			}
		}
	}

	return w.save(f, runID, "corner.xlsx")
}

func (w *ExcelWriter) save(f *excelize.File, runID, name string) error {
	dir := filepath.Join(w.baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create artifacts dir %s", dir)
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	w.log.Debug("diagnostics written: %s", path)
	return nil
}

func chainDims(c *fit.Chain) int {
	if c == nil {
		return 0
	}
	return c.Dims()
}

func flatDims(f *fit.FlatSamples) int {
	if f == nil {
		return 0
	}
	return f.Dims()
}

var _ ports.DiagnosticsPort = (*ExcelWriter)(nil)
