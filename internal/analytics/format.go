package analytics

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// FormatDuration печатает длительность в секундах: "0s", "45s", "2m 5s", "1h 3m".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// PlanPoint — сектор диаграммы распределения по планам.
type PlanPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HourPoint — столбец почасовой активности.
type HourPoint struct {
	Hour     string `json:"hour"`
	Attempts int    `json:"attempts"`
	Users    int    `json:"users"`
}

// DayPoint — точка дневной активности.
type DayPoint struct {
	Date     string `json:"date"`
	Attempts int    `json:"attempts"`
	Users    int    `json:"users"`
}

// SignupPoint — точка графика регистраций.
type SignupPoint struct {
	Date    string `json:"date"`
	Signups int    `json:"signups"`
}

func planSeries(in []models.PlanCount) []PlanPoint {
	out := make([]PlanPoint, 0, len(in))
	for _, p := range in {
		out = append(out, PlanPoint{Name: capitalize(p.Plan), Value: p.Count})
	}
	return out
}

func hourSeries(in []models.HourActivity) []HourPoint {
	out := make([]HourPoint, 0, len(in))
	for _, h := range in {
		out = append(out, HourPoint{Hour: fmt.Sprintf("%02d:00", h.ID), Attempts: h.Attempts, Users: h.UniqueUsers})
	}
	return out
}

func daySeries(in []models.DayActivity) []DayPoint {
	out := make([]DayPoint, 0, len(in))
	for _, d := range in {
		out = append(out, DayPoint{Date: d.ID, Attempts: d.Attempts, Users: d.UniqueUsers})
	}
	return out
}

func signupSeries(in []models.DayCount) []SignupPoint {
	out := make([]SignupPoint, 0, len(in))
	for _, d := range in {
		out = append(out, SignupPoint{Date: d.ID, Signups: d.Count})
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
