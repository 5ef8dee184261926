package domain

import (
	"math"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	daysPerYear = 365.25
	hoursPerDay = 24
)

// TotalExperienceYears sums the days covered by each experience and converts
// them to years rounded to one decimal place. An ongoing role ends today.
// Intervals whose end is not after their start contribute nothing.
func TotalExperienceYears(experiences []Experience, today time.Time) float64 {
	if len(experiences) == 0 {
		return 0.0
	}

	todayDate := truncateToDate(today)

	totalDays := 0
	for _, exp := range experiences {
		start, err := time.Parse(DateLayout, exp.StartDate)
		if err != nil {
			continue
		}

		end := todayDate
		if exp.EndDate != nil && *exp.EndDate != "" {
			end, err = time.Parse(DateLayout, *exp.EndDate)
			if err != nil {
				continue
			}
		}

		if end.After(start) {
			totalDays += int(end.Sub(start).Hours() / hoursPerDay)
		}
	}

	return RoundYears(float64(totalDays) / daysPerYear)
}

// RoundYears rounds to the single decimal place stored for experience_years.
func RoundYears(years float64) float64 {
	return math.Round(years*10) / 10
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
