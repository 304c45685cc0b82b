package sapi

import (
	"strings"

	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// MammoShiftType is the schedule shift type counted by the half-day KPI.
const MammoShiftType = "Mammo"

// KPIs computes the dashboard headline numbers. Average wRVU per half day is 0
// when no half-day Mammo shift is scheduled. Two half days count as one full day.
func KPIs(schedule []radiology.ShiftRecord, encounters []radiology.EncounterRecord) radiology.KPISummary {
	halfMammo := lo.CountBy(schedule, func(s radiology.ShiftRecord) bool {
		return s.ShiftLength == radiology.ShiftHalf && strings.EqualFold(strings.TrimSpace(s.ShiftType), MammoShiftType)
	})
	halves := lo.CountBy(schedule, func(s radiology.ShiftRecord) bool { return s.ShiftLength == radiology.ShiftHalf })
	fulls := lo.CountBy(schedule, func(s radiology.ShiftRecord) bool { return s.ShiftLength == radiology.ShiftFull })

	k := radiology.KPISummary{
		TotalWorkRVU:       lo.SumBy(encounters, func(e radiology.EncounterRecord) float64 { return e.WorkRVU }),
		TotalProcedures:    len(encounters),
		HalfDayMammoShifts: halfMammo,
		FullDayEquivalents: float64(fulls) + float64(halves)/2,
		CorrectedShifts:    lo.SumBy(schedule, func(s radiology.ShiftRecord) float64 { return s.CorrectedShifts }),
	}
	if halfMammo > 0 {
		k.AvgWRVUPerHalfDay = k.TotalWorkRVU / float64(halfMammo)
	}
	return k
}
