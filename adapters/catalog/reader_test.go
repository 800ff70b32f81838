package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/domain/target"
	"photoeccentric/internal/errors"
)

const validCSV = `id,period_days,period_err_minus,period_err_plus,rprs,rprs_err_minus,rprs_err_plus,a_rs,a_rs_err_minus,a_rs_err_plus,inclination_deg,eccentricity,periastron_deg,stellar_mass_msun,stellar_mass_err_minus,stellar_mass_err_plus,stellar_radius_rsun,stellar_radius_err_minus,stellar_radius_err_plus
Kepler-1b,2.470613,-0.000001,0.000001,0.1245,-0.0012,0.0011,7.90,-0.06,0.05,83.87,0,90,0.98,-0.05,0.06,0.95,-0.02,0.03
Kepler-2b,2.204735,-0.000002,0.000002,0.0776,-0.0007,0.0007,4.15,-0.03,0.04,86.71,0,90,1.47,-0.08,0.08,1.84,-0.04,0.05
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesTypedRecords(t *testing.T) {
	cat, err := Load(writeTempCSV(t, validCSV))
	require.NoError(t, err)

	targets, err := cat.Targets()
	require.NoError(t, err)
	require.Len(t, targets, 2)

	rec, err := cat.Target("Kepler-1b")
	require.NoError(t, err)
	assert.Equal(t, target.ID("Kepler-1b"), rec.ID)
	assert.InDelta(t, 2.470613, rec.PeriodDays.Value, 1e-9)
	// Lower errors load as magnitudes.
	assert.InDelta(t, 0.0012, rec.RadiusRatio.ErrMinus, 1e-9)
	assert.InDelta(t, 0.0011, rec.RadiusRatio.ErrPlus, 1e-9)
	assert.InDelta(t, 83.87, rec.Inclination, 1e-9)
	assert.InDelta(t, 0.98, rec.StellarMass.Value, 1e-9)
	assert.Positive(t, rec.StellarMassKg())
	assert.Positive(t, rec.StellarRadiusM())
}

func TestTargetNotFound(t *testing.T) {
	cat, err := Load(writeTempCSV(t, validCSV))
	require.NoError(t, err)

	_, err = cat.Target("Kepler-99z")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLoadRejectsInvalidRecord(t *testing.T) {
	bad := `id,period_days,rprs,a_rs,inclination_deg,eccentricity,periastron_deg,stellar_mass_msun,stellar_radius_rsun
Kepler-3b,10.0,1.5,15,89,0,90,1.0,1.0
`
	_, err := Load(writeTempCSV(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius ratio")
}

func TestLoadRejectsMissingColumn(t *testing.T) {
	bad := `id,period_days,rprs
Kepler-3b,10.0,0.1
`
	_, err := Load(writeTempCSV(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a_rs")
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dup := `id,period_days,rprs,a_rs,inclination_deg,eccentricity,periastron_deg,stellar_mass_msun,stellar_radius_rsun
Kepler-3b,10.0,0.1,15,89,0,90,1.0,1.0
Kepler-3b,11.0,0.1,15,89,0,90,1.0,1.0
`
	_, err := Load(writeTempCSV(t, dup))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsNonNumericCell(t *testing.T) {
	bad := `id,period_days,rprs,a_rs,inclination_deg,eccentricity,periastron_deg,stellar_mass_msun,stellar_radius_rsun
Kepler-3b,soon,0.1,15,89,0,90,1.0,1.0
`
	_, err := Load(writeTempCSV(t, bad))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
