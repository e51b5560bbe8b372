package itinerary

import "time"

// TimelineRow — плоская строка расписания для экспорта.
type TimelineRow struct {
	Day         int
	Date        time.Time
	Time        string
	Period      Period
	Description string
	Cost        *float64
}

// Timeline разворачивает дни в строки; день без активностей дает одну пустую строку.
func Timeline(days []DayPlan) []TimelineRow {
	rows := make([]TimelineRow, 0, len(days))
	for _, day := range days {
		if len(day.Activities) == 0 {
			rows = append(rows, TimelineRow{Day: day.Day, Date: day.Date})
			continue
		}
		for _, activity := range day.Activities {
			rows = append(rows, TimelineRow{
				Day:         day.Day,
				Date:        day.Date,
				Time:        activity.Time,
				Period:      activity.Period,
				Description: activity.Description,
				Cost:        activity.Cost,
			})
		}
	}
	return rows
}

// PlannedCost суммирует стоимости активностей, найденные в тексте.
func PlannedCost(days []DayPlan) float64 {
	var total float64
	for _, day := range days {
		for _, activity := range day.Activities {
			if activity.Cost != nil {
				total += *activity.Cost
			}
		}
	}
	return total
}
