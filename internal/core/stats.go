// Package core holds the fuel ledger's domain types and the pure engines
// that derive view data from the record collection.
package core

import "sort"

// chartWindow caps how many chronological points the trend chart shows.
const chartWindow = 10

// ChartPoint is one labelled cost sample in the trend series.
type ChartPoint struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// ComputeStats derives summary statistics from an unordered record
// collection. With fewer than two records there is no bounded distance
// interval, so distance and efficiency are zero. The first fill-up's volume
// is excluded from the efficiency denominator: nothing bounds the interval
// before it. Distance is the raw odometer delta between the chronological
// first and last records and may be negative when readings were entered out
// of order.
func ComputeStats(records []FuelRecord) VehicleStats {
	var stats VehicleStats
	if len(records) == 0 {
		return stats
	}

	sorted := sortChronological(records)
	for _, r := range sorted {
		stats.TotalCost += r.TotalCost
	}
	stats.LastOdometer = sorted[len(sorted)-1].Odometer

	if len(sorted) < 2 {
		return stats
	}

	stats.TotalDistance = stats.LastOdometer - sorted[0].Odometer

	var totalVolume float64
	for _, r := range sorted[1:] {
		totalVolume += r.Volume
	}
	if totalVolume > 0 {
		stats.AverageEfficiency = stats.TotalDistance / totalVolume
	}
	return stats
}

// ChartSeries maps the last ten chronological records to labelled cost
// points, oldest first.
func ChartSeries(records []FuelRecord) []ChartPoint {
	sorted := sortChronological(records)
	if len(sorted) > chartWindow {
		sorted = sorted[len(sorted)-chartWindow:]
	}

	points := make([]ChartPoint, len(sorted))
	for i, r := range sorted {
		points[i] = ChartPoint{Label: r.Timestamp.ShortLabel(), Cost: r.TotalCost}
	}
	return points
}

// sortChronological returns a copy ordered by timestamp ascending. Equal
// timestamps keep their input order.
func sortChronological(records []FuelRecord) []FuelRecord {
	sorted := make([]FuelRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
