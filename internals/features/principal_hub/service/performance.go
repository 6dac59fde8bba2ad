package service

import "edudash_backend/internals/features/principal_hub/dto"

const (
	maxHealthyRatio = 25.0

	excellentMinClasses    = 3
	excellentMaxRatio      = 20.0
	excellentMinAttendance = 85

	secondTierMinClasses    = 2
	secondTierMaxRatio      = 22.0
	secondTierMinAttendance = 80

	goodMinAttendance = 75
)

const (
	noteNoClasses    = "No classes assigned"
	noteHighRatio    = "High student ratio"
	noteReview       = "Performance needs review"
	noteNoAttendance = "Attendance unavailable"
)

// classifyPerformance assigns a band. Rules are evaluated in order and the
// first match wins; the bands overlap, so the order is part of the contract.
func classifyPerformance(classes int, ratio float64, attendance int) (dto.PerformanceBand, string) {
	switch {
	case classes == 0:
		return dto.BandNeedsAttention, noteNoClasses
	case ratio > maxHealthyRatio:
		return dto.BandNeedsAttention, noteHighRatio
	case classes >= excellentMinClasses && ratio <= excellentMaxRatio && attendance >= excellentMinAttendance:
		return dto.BandExcellent, ""
	case classes >= secondTierMinClasses && ratio <= secondTierMaxRatio && attendance >= secondTierMinAttendance:
		return dto.BandExcellent, ""
	case ratio <= maxHealthyRatio && attendance >= goodMinAttendance:
		return dto.BandGood, ""
	default:
		return dto.BandNeedsAttention, noteReview
	}
}

// classifyByLoad bands a teacher whose attendance cannot be measured. Only the
// class and ratio rules apply; the rest defaults to good.
func classifyByLoad(classes int, ratio float64) (dto.PerformanceBand, string) {
	switch {
	case classes == 0:
		return dto.BandNeedsAttention, noteNoClasses
	case ratio > maxHealthyRatio:
		return dto.BandNeedsAttention, noteHighRatio
	default:
		return dto.BandGood, noteNoAttendance
	}
}

func studentClassRatio(students, classes int) float64 {
	if classes <= 0 {
		return 0
	}
	return float64(students) / float64(classes)
}
