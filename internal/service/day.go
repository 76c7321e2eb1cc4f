package service

import "time"

const dayLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

// Day formats t as the YYYY-MM-DD key used by plans and exercises.
func Day(t time.Time) string {
	return t.Format(dayLayout)
}
