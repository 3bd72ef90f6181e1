// FilePath: internal/hubservice/hubservice.analytics.go
package hubservice

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/breev/aqhub/internal/models"
)

// Liveness windows. The 10 minute active window feeds the summary's device
// count; the 5 minute online window feeds the per-device badge. The two
// thresholds are intentionally different and must stay separate.
const (
	ActiveWindow = 10 * time.Minute
	OnlineWindow = 5 * time.Minute
)

const (
	aggregationWindow = 24 * time.Hour
	chartSeriesLimit  = 20
)

// GetAnalytics assembles the full dashboard report: 24h summary, hourly trend,
// day-over-day insight and the detailed chart series. Everything is recomputed
// from the reading log on every call; there is no cached aggregate state.
func (s *HubService) GetAnalytics(ctx context.Context, filters models.AnalyticsFilters) (*models.AnalyticsReport, error) {
	now := s.now()
	dayAgo := now.Add(-aggregationWindow)
	twoDaysAgo := now.Add(-2 * aggregationWindow)

	activeIDs, err := s.Readings.GetActiveSensorIDs(ctx, now.Add(-ActiveWindow))
	if err != nil {
		return nil, err
	}

	current, err := s.Readings.GetReadingsSince(ctx, dayAgo)
	if err != nil {
		return nil, err
	}

	previous, err := s.Readings.GetReadingsBetween(ctx, twoDaysAgo, dayAgo)
	if err != nil {
		return nil, err
	}

	sensorID := filters.SensorID
	if sensorID == "all" {
		sensorID = ""
	}
	recent, err := s.Readings.GetRecentReadings(ctx, sensorID, chartSeriesLimit)
	if err != nil {
		return nil, err
	}

	summary, currAvg := computeSummary(current, len(activeIDs))

	return &models.AnalyticsReport{
		Summary:    summary,
		AQITrend:   computeTrend(current, s.bucketLoc),
		SensorData: chartSeries(recent),
		Insight:    computeInsight(meanAQI(previous), currAvg),
	}, nil
}

// computeSummary aggregates a 24h reading window. The returned float is the
// unrounded mean, kept for the insight comparison; the summary itself carries
// the display rounding. An empty window yields all zeros.
func computeSummary(readings []models.SensorReading, activeCount int) (models.AnalyticsSummary, float64) {
	if len(readings) == 0 {
		return models.AnalyticsSummary{ActiveDevices: activeCount}, 0
	}

	sum := 0.0
	max := readings[0].AQICalculated
	min := readings[0].AQICalculated
	for _, r := range readings {
		sum += r.AQICalculated
		if r.AQICalculated > max {
			max = r.AQICalculated
		}
		if r.AQICalculated < min {
			min = r.AQICalculated
		}
	}
	avg := sum / float64(len(readings))

	return models.AnalyticsSummary{
		AvgAQI:        int(math.Round(avg)),
		MaxAQI:        max,
		MinAQI:        min,
		ActiveDevices: activeCount,
	}, avg
}

// computeTrend buckets readings by hour in the given timezone and averages AQI
// and CO2 per bucket. Hours without readings are absent from the result; gaps
// are not filled.
func computeTrend(readings []models.SensorReading, loc *time.Location) []models.TrendPoint {
	type bucketAgg struct {
		aqiSum float64
		co2Sum float64
		count  int
	}

	buckets := make(map[time.Time]*bucketAgg)
	for _, r := range readings {
		ts := r.Timestamp.In(loc)
		hour := time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, loc)
		agg, ok := buckets[hour]
		if !ok {
			agg = &bucketAgg{}
			buckets[hour] = agg
		}
		agg.aqiSum += r.AQICalculated
		agg.co2Sum += r.CO2PPM
		agg.count++
	}

	hours := make([]time.Time, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	trend := make([]models.TrendPoint, 0, len(hours))
	for _, hour := range hours {
		agg := buckets[hour]
		trend = append(trend, models.TrendPoint{
			Time: hour.Format("2006-01-02T15") + ":00:00",
			AQI:  int(math.Round(agg.aqiSum / float64(agg.count))),
			CO2:  int(math.Round(agg.co2Sum / float64(agg.count))),
		})
	}
	return trend
}

// computeInsight compares the current 24h mean against the previous one. A
// previous mean of zero means no comparison data; the percent change is
// defined as zero then, so the message reads stable instead of claiming a
// division-by-zero improvement.
func computeInsight(prevAvg, currAvg float64) models.Insight {
	diffPercent := 0.0
	if prevAvg > 0 {
		diffPercent = (currAvg - prevAvg) / prevAvg * 100
	}

	insight := models.Insight{Trend: "good"}
	if diffPercent > 0 {
		insight.Trend = "bad"
	}

	if diffPercent == 0 {
		insight.Message = "Air quality is stable compared to yesterday."
		return insight
	}

	direction := "worsened"
	if diffPercent < 0 {
		direction = "improved"
	}
	insight.Message = fmt.Sprintf("Average AQI has %s by %d%% since yesterday.",
		direction, int(math.Round(math.Abs(diffPercent))))
	return insight
}

func meanAQI(readings []models.SensorReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range readings {
		sum += r.AQICalculated
	}
	return sum / float64(len(readings))
}

// chartSeries converts newest-first readings into the oldest-first chart shape.
func chartSeries(recent []models.SensorReading) []models.ChartPoint {
	points := make([]models.ChartPoint, len(recent))
	for i, r := range recent {
		points[len(recent)-1-i] = models.ChartPoint{
			Time:        r.Timestamp,
			GasPPM:      r.CO2PPM,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
		}
	}
	return points
}
