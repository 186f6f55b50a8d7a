// Package compute holds the shared statistical routines the battery queries
// call: Pearson correlation with exact t-distribution p-values, Welch's
// t-test, OLS slope and Cohen's d. Every routine validates its own minimum
// sample size and returns an error instead of a garbage statistic; callers
// translate those errors into insufficient-data verdicts before the routine
// is ever reached in the normal path.
package compute

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"toypal/internal/errors"
)

// Correlation is a Pearson correlation result.
type Correlation struct {
	R float64
	P float64
	N int
}

// TTestResult is a Welch two-sample t-test result.
type TTestResult struct {
	T       float64
	P       float64
	CohensD float64
	N1, N2  int
	Mean1   float64
	Mean2   float64
}

// Pearson computes the Pearson correlation coefficient between two aligned
// samples with an exact two-tailed p-value from the Student's t
// distribution. Requires at least two pairs and non-zero variance on both
// sides; the p-value degrades to 1.0 below three pairs, where the t
// transform is undefined.
func Pearson(x, y []float64) (Correlation, error) {
	if len(x) != len(y) {
		return Correlation{}, fmt.Errorf("mismatched sample lengths: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return Correlation{}, errors.InsufficientSample(fmt.Sprintf("need at least 2 pairs, have %d", len(x)))
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return Correlation{}, fmt.Errorf("correlation undefined (zero variance in a sample of %d pairs)", len(x))
	}
	return Correlation{R: r, P: CorrelationPValue(r, len(x)), N: len(x)}, nil
}

// CorrelationPValue transforms r into a t-statistic with n-2 degrees of
// freedom and returns the two-tailed p-value. Returns 1.0 for n < 3 or
// |r| = 1 (degenerate cases where the transform blows up).
func CorrelationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	denom := 1 - r*r
	if denom <= 0 {
		if math.Abs(r) >= 1 {
			return 0.0
		}
		return 1.0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/denom)
	return TTestPValue(t, df)
}

// TTestPValue returns the two-tailed p-value for a t-statistic.
func TTestPValue(t, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// Slope computes the ordinary-least-squares slope of y against x.
// Requires at least two points and at least two distinct x values.
func Slope(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("mismatched sample lengths: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, errors.InsufficientSample(fmt.Sprintf("need at least 2 points for a slope, have %d", len(x)))
	}
	distinct := false
	for i := 1; i < len(x); i++ {
		if x[i] != x[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return 0, fmt.Errorf("slope undefined: all %d x values identical", len(x))
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	return beta, nil
}

// WelchTTest runs Welch's unequal-variance t-test between two groups with a
// Welch-Satterthwaite corrected p-value. Both groups need at least two
// observations.
func WelchTTest(a, b []float64) (TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return TTestResult{}, errors.InsufficientSample(fmt.Sprintf("welch t-test needs 2+ observations per group, have %d and %d", len(a), len(b)))
	}

	mean1, _ := stats.Mean(a)
	mean2, _ := stats.Mean(b)
	var1, _ := stats.SampleVariance(a)
	var2, _ := stats.SampleVariance(b)
	n1 := float64(len(a))
	n2 := float64(len(b))

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return TTestResult{}, fmt.Errorf("welch t-test undefined: zero variance in both groups")
	}
	t := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	return TTestResult{
		T:       t,
		P:       TTestPValue(t, df),
		CohensD: CohensD(a, b),
		N1:      len(a),
		N2:      len(b),
		Mean1:   mean1,
		Mean2:   mean2,
	}, nil
}

// CohensD computes the standardized mean difference between two groups using
// the averaged-variance pooled standard deviation. Returns 0 when the pooled
// SD is zero or either group is empty.
func CohensD(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	mean1, _ := stats.Mean(a)
	mean2, _ := stats.Mean(b)
	var1, _ := stats.SampleVariance(a)
	var2, _ := stats.SampleVariance(b)
	pooled := math.Sqrt((var1 + var2) / 2)
	if pooled == 0 {
		return 0
	}
	return (mean1 - mean2) / pooled
}

// PercentChange returns (first-last)/first*100, the improvement framing used
// for response-time reduction. Returns 0 when first is 0 or not finite, so a
// degenerate baseline never divides by zero.
func PercentChange(first, last float64) float64 {
	if first == 0 || math.IsNaN(first) || math.IsInf(first, 0) {
		return 0
	}
	return (first - last) / first * 100
}

// Mean returns the arithmetic mean, or NaN on an empty sample.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m, _ := stats.Mean(xs)
	return m
}
