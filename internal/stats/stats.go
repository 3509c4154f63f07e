// Package stats holds the small set of descriptive and inferential
// statistics used to compare feature distributions between labels.
package stats

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a sample is too small for a test.
var ErrInsufficientData = errors.New("insufficient data")

// Mean of xs ignoring NaN; NaN for an empty sample.
func Mean(xs []float64) float64 {
	var sum float64
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Variance is the unbiased sample variance ignoring NaN.
func Variance(xs []float64) float64 {
	m := Mean(xs)
	var ss float64
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		d := x - m
		ss += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return ss / float64(n-1)
}

type TTest struct {
	T  float64 `json:"t"`
	DF float64 `json:"df"`
	P  float64 `json:"p"`
	N1 int     `json:"n1"`
	N2 int     `json:"n2"`
}

// Significant reports whether the two-sided p-value is below alpha.
func (t TTest) Significant(alpha float64) bool {
	return !math.IsNaN(t.P) && t.P < alpha
}

// WelchTTest compares the means of a and b without assuming equal
// variances. The p-value is two-sided.
func WelchTTest(a, b []float64) (TTest, error) {
	a, b = dropNaN(a), dropNaN(b)
	n1, n2 := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return TTest{N1: len(a), N2: len(b)}, ErrInsufficientData
	}
	v1, v2 := Variance(a)/n1, Variance(b)/n2
	res := TTest{N1: len(a), N2: len(b)}
	se := math.Sqrt(v1 + v2)
	if se == 0 {
		res.T, res.DF, res.P = math.NaN(), math.NaN(), math.NaN()
		return res, nil
	}
	res.T = (Mean(a) - Mean(b)) / se
	res.DF = (v1 + v2) * (v1 + v2) / (v1*v1/(n1-1) + v2*v2/(n2-1))
	res.P = studentTwoSided(res.T, res.DF)
	return res, nil
}

// studentTwoSided is P(|T| >= |t|) for Student's t with df degrees of freedom.
func studentTwoSided(t, df float64) float64 {
	x := df / (df + t*t)
	return regIncBeta(df/2, 0.5, x)
}

// regIncBeta is the regularized incomplete beta function I_x(a, b).
func regIncBeta(a, b, x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	front := math.Exp(lab - la - lb + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

// betaCF evaluates the continued fraction for the incomplete beta
// function by the modified Lentz method.
func betaCF(a, b, x float64) float64 {
	const (
		maxIter = 300
		eps     = 1e-14
		tiny    = 1e-300
	)
	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm
		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c
		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}

// Pearson correlation of x and y over the positions where both are
// present (non-NaN). NaN when fewer than two pairs remain or either side
// is constant.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	var xs, ys []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

type Column struct {
	Name   string
	Values []float64
}

// CorrelationMatrix returns the pairwise Pearson correlations of columns,
// indexed in column order.
func CorrelationMatrix(cols []Column) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := Pearson(cols[i].Values, cols[j].Values)
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
