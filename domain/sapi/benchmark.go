package sapi

import (
	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// BenchmarkMultiplier turns a seat's average into its benchmark: 125% of the
// average stands in for the 75th percentile.
const BenchmarkMultiplier = 1.25

func Benchmark(average float64) float64 {
	return average * BenchmarkMultiplier
}

// Benchmarks derives one benchmark per seat, in input order.
func Benchmarks(seats []radiology.SeatAverage) []radiology.SeatBenchmark {
	return lo.Map(seats, func(s radiology.SeatAverage, _ int) radiology.SeatBenchmark {
		return radiology.SeatBenchmark{
			Seat:          s.Seat,
			NormHDAverage: s.NormHDAverage,
			Benchmark:     Benchmark(s.NormHDAverage),
		}
	})
}
