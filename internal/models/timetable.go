package models

// DaysPerWeek is the width of a timetable row, Monday first.
const DaysPerWeek = 7

// TimetableRow groups one calendar week of lessons by period.
type TimetableRow struct {
	Week    string      `json:"week"`
	Monday  string      `json:"monday"`
	Periods []PeriodRow `json:"periods"`
}

// PeriodRow holds the lessons of one period, indexed Monday=0 through Sunday=6.
type PeriodRow struct {
	Period string                `json:"period"`
	Days   [DaysPerWeek][]Lesson `json:"days"`
}
