package core

// Thresholds for the luxury share reported by AnalyzeSelection.
const (
	analysisLuxuryPrice = 3000000.0
	analysisLuxuryArea  = 2000.0
)

// AnalyzeSelection summarises the size, price density, and luxury share of a selection.
func AnalyzeSelection(units []Unit, project *Project) SelectionAnalysis {
	if len(units) == 0 {
		return SelectionAnalysis{}
	}
	var totalArea, totalPrice float64
	luxury := 0
	for _, u := range units {
		totalArea += u.AreaSqft
		totalPrice += u.Price
		if u.Price > analysisLuxuryPrice || u.AreaSqft > analysisLuxuryArea {
			luxury++
		}
	}
	out := SelectionAnalysis{
		TotalArea:          totalArea,
		AvgPricePerUnit:    totalPrice / float64(len(units)),
		LuxuryUnits:        luxury,
		LuxuryUnitsPercent: float64(luxury) / float64(len(units)) * 100,
	}
	if totalArea > 0 {
		out.AvgPricePerSqft = totalPrice / totalArea
	}
	if project != nil {
		out.SelectionProgress = selectionPercentage(len(units), *project)
	}
	return out
}

// LimitedAvailabilityPercent is the availability share below which a project
// switches to limited availability messaging.
const LimitedAvailabilityPercent = 20.0

// SummarizeAvailability counts the available units of a project against its
// declared inventory size.
func SummarizeAvailability(project Project, units []Unit) AvailabilitySummary {
	available := 0
	for _, u := range units {
		if u.ProjectID == project.ID && u.Available() {
			available++
		}
	}
	out := AvailabilitySummary{Available: available, Total: project.TotalUnits}
	if project.TotalUnits > 0 {
		out.Percent = float64(available) / float64(project.TotalUnits) * 100
		out.Limited = out.Percent < LimitedAvailabilityPercent
	}
	return out
}
