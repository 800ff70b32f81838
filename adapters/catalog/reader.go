// Package catalog loads target records from archive exports. Both .xlsx
// (Sheet1 with a header row) and .csv are supported; columns are matched by
// header name and parsed into typed records once at load time.
package catalog

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"photoeccentric/domain/orbit"
	"photoeccentric/domain/target"
	"photoeccentric/internal"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// Column headers the loader understands. Error columns are optional; a
// missing error cell loads as zero.
const (
	colID          = "id"
	colPeriod      = "period_days"
	colPeriodErrLo = "period_err_minus"
	colPeriodErrHi = "period_err_plus"
	colRprs        = "rprs"
	colRprsErrLo   = "rprs_err_minus"
	colRprsErrHi   = "rprs_err_plus"
	colArs         = "a_rs"
	colArsErrLo    = "a_rs_err_minus"
	colArsErrHi    = "a_rs_err_plus"
	colInclination = "inclination_deg"
	colEcc         = "eccentricity"
	colLongitude   = "periastron_deg"
	colMstar       = "stellar_mass_msun"
	colMstarErrLo  = "stellar_mass_err_minus"
	colMstarErrHi  = "stellar_mass_err_plus"
	colRstar       = "stellar_radius_rsun"
	colRstarErrLo  = "stellar_radius_err_minus"
	colRstarErrHi  = "stellar_radius_err_plus"
)

// FileCatalog is a CatalogPort backed by a single archive export file.
// Records are loaded and validated eagerly in Load.
type FileCatalog struct {
	path    string
	byID    map[target.ID]*target.Record
	ordered []target.Record
	log     *internal.Logger
}

// Load reads, parses, and validates the catalog file. A record that fails
// validation fails the whole load; a catalog with silently dropped rows is
// worse than no catalog.
func Load(path string) (*FileCatalog, error) {
	c := &FileCatalog{
		path: path,
		byID: make(map[target.ID]*target.Record),
		log:  internal.DefaultLogger,
	}

	rows, err := c.readRows()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInputf("catalog %s needs a header row and at least one data row", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colID, colPeriod, colRprs, colArs, colInclination, colMstar, colRstar} {
		if _, ok := header[required]; !ok {
			return nil, errors.InvalidInputf("catalog %s is missing required column %q", path, required)
		}
	}

	for rowNum, row := range rows[1:] {
		rec, err := parseRecord(header, row)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog %s row %d", path, rowNum+2)
		}
		if err := rec.Validate(); err != nil {
			return nil, errors.Wrapf(err, "catalog %s row %d", path, rowNum+2)
		}
		if _, dup := c.byID[rec.ID]; dup {
			return nil, errors.InvalidInputf("catalog %s: duplicate target id %s", path, rec.ID)
		}
		c.ordered = append(c.ordered, *rec)
		c.byID[rec.ID] = &c.ordered[len(c.ordered)-1]
	}

	c.log.Info("catalog %s loaded: %d targets", path, len(c.ordered))
	return c, nil
}

// Target returns the record for one target id.
func (c *FileCatalog) Target(id target.ID) (*target.Record, error) {
	rec, ok := c.byID[id]
	if !ok {
		return nil, errors.NotFound("target " + string(id))
	}
	return rec, nil
}

// Targets returns all records in file order.
func (c *FileCatalog) Targets() ([]target.Record, error) {
	out := make([]target.Record, len(c.ordered))
	copy(out, c.ordered)
	return out, nil
}

func (c *FileCatalog) readRows() ([][]string, error) {
	if _, err := os.Stat(c.path); err != nil {
		return nil, errors.Wrapf(err, "catalog file %s not readable", c.path)
	}
	if strings.ToLower(filepath.Ext(c.path)) == ".csv" {
		return c.readCSV()
	}
	return c.readExcel()
}

func (c *FileCatalog) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog workbook %s", c.path)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read Sheet1 of %s", c.path)
	}
	return rows, nil
}

func (c *FileCatalog) readCSV() ([][]string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog file %s", c.path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog file %s", c.path)
	}
	return rows, nil
}

func parseRecord(header map[string]int, row []string) (*target.Record, error) {
	cell := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	num := func(col string) (float64, error) {
		s := cell(col)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.InvalidInputf("column %q: %q is not numeric", col, s)
		}
		return v, nil
	}
	val := func(colVal, colLo, colHi string) (target.Value, error) {
		v, err := num(colVal)
		if err != nil {
			return target.Value{}, err
		}
		lo, err := num(colLo)
		if err != nil {
			return target.Value{}, err
		}
		hi, err := num(colHi)
		if err != nil {
			return target.Value{}, err
		}
		// Archives quote the lower error as a negative offset; store the
		// magnitude.
		return target.Value{Value: v, ErrMinus: math.Abs(lo), ErrPlus: hi}, nil
	}

	rec := &target.Record{
		ID:            target.ID(cell(colID)),
		LimbDarkening: orbit.UniformLimbDarkening(),
	}

	var err error
	if rec.PeriodDays, err = val(colPeriod, colPeriodErrLo, colPeriodErrHi); err != nil {
		return nil, err
	}
	if rec.RadiusRatio, err = val(colRprs, colRprsErrLo, colRprsErrHi); err != nil {
		return nil, err
	}
	if rec.ScaledSemimajorAxis, err = val(colArs, colArsErrLo, colArsErrHi); err != nil {
		return nil, err
	}
	if rec.StellarMass, err = val(colMstar, colMstarErrLo, colMstarErrHi); err != nil {
		return nil, err
	}
	if rec.StellarRadius, err = val(colRstar, colRstarErrLo, colRstarErrHi); err != nil {
		return nil, err
	}
	if rec.Inclination, err = num(colInclination); err != nil {
		return nil, err
	}
	if rec.Eccentricity, err = num(colEcc); err != nil {
		return nil, err
	}
	if rec.LongitudeOfPeriastron, err = num(colLongitude); err != nil {
		return nil, err
	}
	return rec, nil
}

var _ ports.CatalogPort = (*FileCatalog)(nil)
