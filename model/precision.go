package model

import (
	"math"
	"math/big"
	"strconv"
)

// Precision is the number of decimal places derived figures are rounded to.
const Precision = 5

// FuelPerMSP is the fuel carried by one MSP of fuel storage.
const FuelPerMSP = 2500.0

// Round rounds x to the given number of decimal places, judged on the exact
// binary value of x with ties to even. Negative places round to tens,
// hundreds, and so on, and are computed exactly on x.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if places < 0 {
		return roundIntegral(x, -places)
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// roundIntegral rounds x to a multiple of 10^k, ties to even.
func roundIntegral(x float64, k int) float64 {
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	q := new(big.Rat).SetFloat64(x)
	q.Quo(q, new(big.Rat).SetInt(p))

	n, r := new(big.Int).QuoRem(q.Num(), q.Denom(), new(big.Int))
	twice := new(big.Int).Abs(r)
	twice.Lsh(twice, 1)
	if c := twice.Cmp(q.Denom()); c > 0 || (c == 0 && n.Bit(0) == 1) {
		if r.Sign() < 0 {
			n.Sub(n, big.NewInt(1))
		} else {
			n.Add(n, big.NewInt(1))
		}
	}
	n.Mul(n, p)
	v, _ := new(big.Float).SetInt(n).Float64()
	if v == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return v
}
