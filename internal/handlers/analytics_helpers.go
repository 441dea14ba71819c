package handlers

import (
	"errors"
	"time"

	"tifincart/internal/models"
)

var analyticsRangeDays = map[string]int{
	"7":   7,
	"30":  30,
	"90":  90,
	"180": 180,
	"365": 365,
}

type analyticsWindow struct {
	From     time.Time
	PrevFrom time.Time
	All      bool
}

// resolveAnalyticsRange maps a range parameter to the current window start
// and the start of the immediately preceding equal-length window.
func resolveAnalyticsRange(rangeParam string, now time.Time) (analyticsWindow, error) {
	if rangeParam == "" || rangeParam == "all" {
		return analyticsWindow{All: true}, nil
	}

	days, ok := analyticsRangeDays[rangeParam]
	if !ok {
		return analyticsWindow{}, errors.New("range must be 7, 30, 90, 180, 365 or all")
	}

	from := now.AddDate(0, 0, -days)
	return analyticsWindow{
		From:     from,
		PrevFrom: from.AddDate(0, 0, -days),
	}, nil
}

// growthPercent compares the current window against the previous one. A zero
// baseline with any current activity reads as +100, never Inf or NaN.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return round2((current - previous) / previous * 100)
}

func summarizeOrders(orders []models.Order) (revenue float64, count int, avgValue float64) {
	for _, order := range orders {
		revenue += order.TotalAmount
	}
	revenue = round2(revenue)
	count = len(orders)
	if count > 0 {
		avgValue = round2(revenue / float64(count))
	}
	return revenue, count, avgValue
}

// bucketOrdersByHour always returns 24 buckets, zero-filled for quiet hours.
func bucketOrdersByHour(orders []models.Order) []int {
	buckets := make([]int, 24)
	for _, order := range orders {
		buckets[order.CreatedAt.Hour()]++
	}
	return buckets
}

func revenueByMealCategory(orders []models.Order) map[string]float64 {
	totals := make(map[string]float64)
	for _, order := range orders {
		category := order.MealCategory
		if category == "" {
			category = "other"
		}
		totals[category] = round2(totals[category] + order.TotalAmount)
	}
	return totals
}
