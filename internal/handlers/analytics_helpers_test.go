package handlers

import (
	"testing"
	"time"

	"tifincart/internal/models"
)

func TestResolveAnalyticsRange(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	window, err := resolveAnalyticsRange("30", now)
	if err != nil {
		t.Fatalf("resolveAnalyticsRange returned error: %v", err)
	}
	if window.All {
		t.Fatal("expected a bounded window for range=30")
	}
	if want := now.AddDate(0, 0, -30); !window.From.Equal(want) {
		t.Fatalf("expected From %v, got %v", want, window.From)
	}
	if want := now.AddDate(0, 0, -60); !window.PrevFrom.Equal(want) {
		t.Fatalf("expected PrevFrom %v, got %v", want, window.PrevFrom)
	}
}

func TestResolveAnalyticsRangeAll(t *testing.T) {
	for _, param := range []string{"", "all"} {
		window, err := resolveAnalyticsRange(param, time.Now())
		if err != nil {
			t.Fatalf("resolveAnalyticsRange(%q) returned error: %v", param, err)
		}
		if !window.All {
			t.Fatalf("expected %q to resolve to the all-time window", param)
		}
	}
}

func TestResolveAnalyticsRangeRejectsUnknown(t *testing.T) {
	if _, err := resolveAnalyticsRange("14", time.Now()); err == nil {
		t.Fatal("expected error for unsupported range")
	}
}

func TestGrowthPercent(t *testing.T) {
	if got := growthPercent(0, 0); got != 0 {
		t.Fatalf("expected 0 when both windows are empty, got %v", got)
	}
	if got := growthPercent(250, 0); got != 100 {
		t.Fatalf("expected 100 on a zero baseline, got %v", got)
	}
	if got := growthPercent(150, 100); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := growthPercent(75, 100); got != -25 {
		t.Fatalf("expected -25, got %v", got)
	}
	if got := growthPercent(100, 300); got != -66.67 {
		t.Fatalf("expected -66.67, got %v", got)
	}
}

func TestSummarizeOrders(t *testing.T) {
	orders := []models.Order{
		{TotalAmount: 292.5},
		{TotalAmount: 107.5},
	}

	revenue, count, avg := summarizeOrders(orders)
	if revenue != 400 {
		t.Fatalf("expected revenue 400, got %v", revenue)
	}
	if count != 2 {
		t.Fatalf("expected 2 orders, got %d", count)
	}
	if avg != 200 {
		t.Fatalf("expected average 200, got %v", avg)
	}

	revenue, count, avg = summarizeOrders(nil)
	if revenue != 0 || count != 0 || avg != 0 {
		t.Fatalf("expected all-zero summary for no orders, got %v/%d/%v", revenue, count, avg)
	}
}

func TestBucketOrdersByHour(t *testing.T) {
	buckets := bucketOrdersByHour(nil)
	if len(buckets) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(buckets))
	}
	for hour, n := range buckets {
		if n != 0 {
			t.Fatalf("expected hour %d to be zero-filled, got %d", hour, n)
		}
	}

	at := func(hour int) models.Order {
		return models.Order{CreatedAt: time.Date(2026, 8, 28, hour, 15, 0, 0, time.UTC)}
	}
	buckets = bucketOrdersByHour([]models.Order{at(9), at(9), at(13), at(23)})
	if buckets[9] != 2 || buckets[13] != 1 || buckets[23] != 1 {
		t.Fatalf("unexpected buckets: %v", buckets)
	}
}

func TestRevenueByMealCategory(t *testing.T) {
	orders := []models.Order{
		{MealCategory: "lunch", TotalAmount: 292.5},
		{MealCategory: "lunch", TotalAmount: 100},
		{MealCategory: "breakfast", TotalAmount: 80},
		{MealCategory: "", TotalAmount: 40},
	}

	totals := revenueByMealCategory(orders)
	if totals["lunch"] != 392.5 {
		t.Fatalf("expected lunch 392.5, got %v", totals["lunch"])
	}
	if totals["breakfast"] != 80 {
		t.Fatalf("expected breakfast 80, got %v", totals["breakfast"])
	}
	if totals["other"] != 40 {
		t.Fatalf("expected uncategorized revenue under other, got %v", totals["other"])
	}
}
