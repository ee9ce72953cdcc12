package utils

import "fmt"

// FlatFarePerRide is the fixed fare per completed campus ride in rand.
// There is no distance or surge pricing.
const FlatFarePerRide = 75.0

// Earnings returns the total earned for a number of completed rides.
func Earnings(completedRides int64) float64 {
	return float64(completedRides) * FlatFarePerRide
}

// FormatRand renders an amount the way the dashboards display it.
func FormatRand(amount float64) string {
	return fmt.Sprintf("R %.2f", amount)
}
