package calc

import (
	"math"

	"github.com/kingrea/urbanwizard/internal/step"
)

// Expense purposes.
const (
	PurposeDevelopmentWorks              = "development_works"
	PurposeTechnicalStudies              = "technical_studies"
	PurposeOther                         = "other"
	PurposeAsbestosRemoval               = "asbestos_removal"
	PurposeDeimpermeabilization          = "deimpermeabilization"
	PurposeDemolition                    = "demolition"
	PurposeSustainableSoilsReinstatement = "sustainable_soils_reinstatement"
	PurposeRemediation                   = "remediation"
)

// Unit costs in euros per square meter.
const (
	DevelopmentWorksCostPerSquareMeter              = 54.0
	AsbestosRemovalCostPerSquareMeter               = 75.0
	DemolitionCostPerSquareMeter                    = 75.0
	DeimpermeabilizationCostPerSquareMeter          = 23.0
	SustainableSoilsReinstatementCostPerSquareMeter = 35.0
	RemediationCostPerSquareMeter                   = 66.0
)

const (
	technicalStudiesShare = 0.06
	otherShare            = 0.09
)

// InstallationExpenses returns development works, technical studies and
// other expenses estimated from the site surface area.
func (Default) InstallationExpenses(siteSurfaceArea float64) []step.Expense {
	works := round(siteSurfaceArea * DevelopmentWorksCostPerSquareMeter)
	return []step.Expense{
		{Purpose: PurposeDevelopmentWorks, Amount: works},
		{Purpose: PurposeTechnicalStudies, Amount: round(works * technicalStudiesShare)},
		{Purpose: PurposeOther, Amount: round(works * otherShare)},
	}
}

// ReinstatementExpenses compares the current site soils with the project
// soils and prices the transformation. All five purposes are always returned.
func (Default) ReinstatementExpenses(siteSoils, projectSoils map[step.SoilType]float64, decontaminatedSurface float64) []step.Expense {
	demolished := positive(siteSoils[step.SoilBuildings] - projectSoils[step.SoilBuildings])
	deimpermeabilized := positive(impermeable(siteSoils) - impermeable(projectSoils))
	reinstated := positive(vegetated(projectSoils) - vegetated(siteSoils))

	return []step.Expense{
		{Purpose: PurposeAsbestosRemoval, Amount: round(demolished * AsbestosRemovalCostPerSquareMeter)},
		{Purpose: PurposeDeimpermeabilization, Amount: round(deimpermeabilized * DeimpermeabilizationCostPerSquareMeter)},
		{Purpose: PurposeDemolition, Amount: round(demolished * DemolitionCostPerSquareMeter)},
		{Purpose: PurposeSustainableSoilsReinstatement, Amount: round(reinstated * SustainableSoilsReinstatementCostPerSquareMeter)},
		{Purpose: PurposeRemediation, Amount: round(positive(decontaminatedSurface) * RemediationCostPerSquareMeter)},
	}
}

func impermeable(soils map[step.SoilType]float64) float64 {
	var total float64
	for soil, area := range soils {
		if soil != step.SoilBuildings && !soil.IsPermeable() {
			total += area
		}
	}
	return total
}

func vegetated(soils map[step.SoilType]float64) float64 {
	var total float64
	for soil, area := range soils {
		switch soil {
		case step.SoilArtificialGrassOrBushesFilled, step.SoilArtificialTreeFilled, step.SoilPrairieGrass, step.SoilForestMixed:
			total += area
		}
	}
	return total
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
