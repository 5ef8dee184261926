package domain_test

import (
	"testing"
	"time"

	"candidate-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func exp(start string, end *string) domain.Experience {
	return domain.Experience{Company: "Acme", Position: "Engineer", StartDate: start, EndDate: end}
}

var fixedToday = time.Date(2024, time.June, 1, 15, 30, 0, 0, time.UTC)

func TestTotalExperienceYears(t *testing.T) {
	tests := []struct {
		name        string
		experiences []domain.Experience
		expected    float64
	}{
		{
			name:        "empty collection",
			experiences: nil,
			expected:    0.0,
		},
		{
			name:        "three full years",
			experiences: []domain.Experience{exp("2020-01-01", strPtr("2023-01-01"))},
			expected:    3.0,
		},
		{
			name:        "end equal to start contributes nothing",
			experiences: []domain.Experience{exp("2021-05-05", strPtr("2021-05-05"))},
			expected:    0.0,
		},
		{
			name:        "inverted interval contributes nothing",
			experiences: []domain.Experience{exp("2023-01-01", strPtr("2020-01-01"))},
			expected:    0.0,
		},
		{
			name: "inverted interval does not cancel a valid one",
			experiences: []domain.Experience{
				exp("2020-01-01", strPtr("2023-01-01")),
				exp("2023-01-01", strPtr("2020-01-01")),
			},
			expected: 3.0,
		},
		{
			name: "intervals are summed",
			experiences: []domain.Experience{
				exp("2018-01-01", strPtr("2019-01-01")),
				exp("2020-01-01", strPtr("2021-07-02")),
			},
			expected: 2.5,
		},
		{
			name:        "ongoing role ends today",
			experiences: []domain.Experience{exp("2022-06-01", nil)},
			expected:    2.0,
		},
		{
			name:        "empty end date is treated as ongoing",
			experiences: []domain.Experience{exp("2023-06-01", strPtr(""))},
			expected:    1.0,
		},
		{
			name:        "start in the future contributes nothing",
			experiences: []domain.Experience{exp("2025-01-01", nil)},
			expected:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.TotalExperienceYears(tt.experiences, fixedToday))
		})
	}
}

func TestTotalExperienceYears_MonotonicInEndDate(t *testing.T) {
	other := exp("2010-03-01", strPtr("2012-03-01"))

	prev := -1.0
	end := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		e := end.AddDate(0, 0, i*17).Format(domain.DateLayout)
		total := domain.TotalExperienceYears([]domain.Experience{other, exp("2016-01-01", &e)}, fixedToday)

		assert.GreaterOrEqual(t, total, 0.0)
		assert.GreaterOrEqual(t, total, prev, "moving an end date later must never lower the total")
		prev = total
	}
}

func TestRoundYears(t *testing.T) {
	assert.Equal(t, 3.0, domain.RoundYears(1096/365.25))
	assert.Equal(t, 4.5, domain.RoundYears(4.46))
	assert.Equal(t, 0.0, domain.RoundYears(0.04))
}
