package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"photoeccentric/adapters/catalog"
	"photoeccentric/adapters/diagnostics"
	"photoeccentric/adapters/mcmc"
	"photoeccentric/adapters/transit"
	"photoeccentric/app"
	"photoeccentric/domain/density"
	"photoeccentric/domain/fit"
	"photoeccentric/domain/orbit"
	"photoeccentric/domain/target"
	intfit "photoeccentric/internal/fit"
	"photoeccentric/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "photoeccentric",
		Short: "Photoeccentric CLI for transit fits and eccentricity inference",
	}

	rootCmd.AddCommand(
		newSyntheticCmd(),
		newDurationsCmd(),
		newGCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSyntheticCmd() *cobra.Command {
	var (
		ecc, w       float64
		walkers      int
		steps        int
		discard      int
		seed         int64
		artifactsDir string
	)

	cmd := &cobra.Command{
		Use:   "synthetic",
		Short: "Run the full two-stage pipeline on a synthetic light curve",
		Long: `Generate a noisy synthetic transit, fit the circular-orbit parameters,
propagate the posterior into a g distribution against the known stellar
density, and fit (w, e).

Example: photoeccentric synthetic --e 0.3 --w 45 --walkers 32 --steps 2000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynthetic(cmd.Context(), ecc, w, app.SamplerGeometry{
				Walkers: walkers,
				Steps:   steps,
				Discard: discard,
				Seed:    seed,
			}, artifactsDir)
		},
	}

	cmd.Flags().Float64Var(&ecc, "e", 0.0, "True eccentricity injected into the light curve")
	cmd.Flags().Float64Var(&w, "w", 90.0, "True longitude of periastron in degrees")
	cmd.Flags().IntVar(&walkers, "walkers", 32, "Ensemble size (must be even and > 2x dims)")
	cmd.Flags().IntVar(&steps, "steps", 2000, "Steps per walker")
	cmd.Flags().IntVar(&discard, "discard", 500, "Burn-in steps to discard")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic runs")
	cmd.Flags().StringVar(&artifactsDir, "artifacts", "", "Directory for trace/corner workbooks (empty disables)")

	return cmd
}

func runSynthetic(ctx context.Context, ecc, w float64, geometry app.SamplerGeometry, artifactsDir string) error {
	cfg := testkit.DefaultLightCurveConfig()
	cfg.Eccentricity = ecc
	cfg.LongitudeDeg = w
	cfg.Seed = uint64(geometry.Seed)

	curve, err := testkit.GenerateLightCurve(cfg)
	if err != nil {
		return fmt.Errorf("light curve synthesis failed: %w", err)
	}
	fmt.Printf("Synthesized %d points: P=%.2f d, Rp/Rs=%.3f, a/Rs=%.1f, i=%.2f, e=%.2f, w=%.1f\n",
		len(curve.Time), cfg.PeriodDays, cfg.RadiusRatio, cfg.ScaledSemimajorAxis,
		cfg.Inclination, cfg.Eccentricity, cfg.LongitudeDeg)

	rng := mcmc.NewSeededRNG()
	sampler := mcmc.NewEnsembleSampler(rng, mcmc.WithSeed(geometry.Seed))
	var driver *intfit.Driver
	if artifactsDir != "" {
		driver = intfit.NewDriver(sampler, rng, diagnostics.NewExcelWriter(artifactsDir))
	} else {
		driver = intfit.NewDriver(sampler, rng, nil)
	}

	repo := testkit.NewInMemoryRunRepository()
	service := app.NewService(transit.NewModel(), driver, repo)

	transitFit, err := service.FitTransit(ctx, app.TransitFitRequest{
		TargetID: "synthetic",
		Time:     curve.Time,
		Flux:     curve.Flux,
		FluxErr:  curve.FluxErr,
		Initial:  curve.Truth,
		Geometry: geometry,
	})
	if err != nil {
		return fmt.Errorf("transit fit failed: %w", err)
	}

	fmt.Printf("\n=== STAGE 1: CIRCULAR TRANSIT FIT ===\n")
	printResult(transitFit)

	// The true density distribution is a narrow Gaussian around the density
	// implied by the injected geometry, anchoring g at 1 for e=0.
	rhoTrue := density.FromScaledSemimajorAxis(orbit.DaysToSeconds(cfg.PeriodDays), cfg.ScaledSemimajorAxis)
	rhoStar := testkit.GenerateDensitySamples(rhoTrue, rhoTrue*0.01, geometry.FlatCount(), uint64(geometry.Seed)+1)

	outcome, err := service.FitEccentricity(ctx, app.EccentricityFitRequest{
		TargetID:   "synthetic",
		TransitFit: transitFit,
		RhoStar:    rhoStar,
		InitialW:   90,
		InitialE:   math.Max(ecc, 0.05),
		Geometry:   geometry,
	})
	if err != nil {
		return fmt.Errorf("eccentricity fit failed: %w", err)
	}

	fmt.Printf("\n=== STAGE 2: (w, e) FIT ===\n")
	fmt.Printf("g distribution: %d samples, spread %.4f\n", len(outcome.GSamples), outcome.GErr)
	printResult(outcome.Fit)

	fmt.Printf("\nInjected: e=%.3f w=%.1f | Recovered: e=%.3f (+%.3f/-%.3f) w=%.1f\n",
		ecc, w,
		outcome.Fit.Estimates["e"],
		outcome.Fit.Uncertainties["e"].Plus,
		outcome.Fit.Uncertainties["e"].Minus,
		outcome.Fit.Estimates["w"])
	return nil
}

func printResult(r *fit.Result) {
	for _, label := range r.Labels {
		bounds := r.Uncertainties[label]
		fmt.Printf("  %-8s %.6g  +%.3g / -%.3g\n", label, r.Estimates[label], bounds.Plus, bounds.Minus)
	}
	fmt.Printf("  (%d flattened samples per parameter)\n", r.SampleCount())
}

func newDurationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "durations [catalog-file] [target-id]",
		Short: "Compute transit durations and circular density for a catalog target",
		Long: `Load a target from a catalog export and report the total and full
transit durations, the implied circular stellar density, and the a/Rs
implied by the stellar mass and radius.

Example: photoeccentric durations catalog.csv Kepler-1520b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDurations(args[0], target.ID(args[1]))
		},
	}
	return cmd
}

func runDurations(catalogFile string, id target.ID) error {
	cat, err := catalog.Load(catalogFile)
	if err != nil {
		return err
	}
	rec, err := cat.Target(id)
	if err != nil {
		return err
	}

	periodSec := orbit.DaysToSeconds(rec.PeriodDays.Value)
	params := rec.Orbital()

	t14s, err := orbit.TransitDurationTotal(
		[]float64{periodSec}, []float64{params.RadiusRatio},
		[]float64{params.ScaledSemimajorAxis}, []float64{params.Inclination})
	if err != nil {
		return err
	}
	t23s, err := orbit.TransitDurationFull(
		[]float64{periodSec}, []float64{params.RadiusRatio},
		[]float64{params.ScaledSemimajorAxis}, []float64{params.Inclination})
	if err != nil {
		return err
	}
	t14, t23 := t14s[0], t23s[0]

	fmt.Printf("Target %s\n", rec.ID)
	fmt.Printf("  T14: %.4f hours\n", t14/orbit.HoursToSeconds(1))
	fmt.Printf("  T23: %.4f hours\n", t23/orbit.HoursToSeconds(1))
	if math.IsNaN(t23) {
		fmt.Println("  (grazing geometry: no second/third contact)")
	}

	rhoCirc := density.CircularDensity(params.RadiusRatio, t14, t23, periodSec)
	fmt.Printf("  rho_circ: %.1f kg/m^3\n", rhoCirc)

	aRs := orbit.SemimajorAxisFromPeriod(periodSec, rec.StellarMassKg(), rec.StellarRadiusM())
	fmt.Printf("  a/Rs from stellar parameters: %.2f (catalog: %.2f)\n",
		aRs, params.ScaledSemimajorAxis)
	return nil
}

func newGCmd() *cobra.Command {
	var ecc, w float64

	cmd := &cobra.Command{
		Use:   "g",
		Short: "Evaluate g(e, w) and its eccentricity inverse",
		Long: `Print the photoeccentric density ratio factor g for an orbit and the
eccentricity recovered from (g, w). The inversion follows the
quadratic-solution branch and is undefined when the radicand is negative.

Example: photoeccentric g --e 0.3 --w 45`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := density.GFromOrbit(ecc, w)
			fmt.Printf("g(e=%.3f, w=%.1f) = %.6f\n", ecc, w, g)
			back := density.EccentricityFromG(g, w)
			if math.IsNaN(back) {
				fmt.Println("e(g, w) undefined for this (g, w): negative radicand")
			} else {
				fmt.Printf("e(g, w) = %.6f\n", back)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&ecc, "e", 0.0, "Eccentricity")
	cmd.Flags().Float64Var(&w, "w", 90.0, "Longitude of periastron in degrees")
	return cmd
}
