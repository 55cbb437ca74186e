package formstate

import (
	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

// AllAnswers returns the current answer of every answered step.
func AllAnswers(log event.Log) map[step.ID]step.Answers {
	out := map[step.ID]step.Answers{}
	for _, id := range step.All() {
		if !id.IsAnswerable() {
			continue
		}
		if answers, ok := LatestAnswer(log, id); ok {
			out[id] = answers
		}
	}
	return out
}

// FormAnswers merges every current answer into a single flat view. Fields of
// unanswered steps keep their zero value.
type FormAnswers struct {
	step.SpacesCategoriesSelectionAnswers
	step.SpacesCategoriesSurfaceAreaAnswers
	step.GreenSpacesDistributionAnswers
	step.LivingAndActivitySpacesDistributionAnswers
	step.PublicSpacesDistributionAnswers
	step.SoilsDecontaminationSelectionAnswers
	step.SoilsDecontaminationSurfaceAreaAnswers
	step.BuildingsFloorSurfaceAreaAnswers
	step.BuildingsUsesDistributionAnswers
	step.ProjectDeveloperAnswers
	step.ReinstatementContractOwnerAnswers
	step.SiteResaleSelectionAnswers
	step.BuildingsResaleSelectionAnswers
	step.SitePurchaseAmountsAnswers
	step.ReinstatementExpensesAnswers
	step.InstallationExpensesAnswers
	step.ProjectedBuildingsOperatingExpensesAnswers
	step.ExpectedSiteResaleAnswers
	step.BuildingsResaleRevenueAnswers
	step.BuildingsOperationsRevenuesAnswers
	step.FinancialAssistanceRevenuesAnswers
	step.ScheduleProjectionAnswers
	step.NamingAnswers
	step.ProjectPhaseAnswers
}

// MergedAnswers builds the flat view of the current answers.
func MergedAnswers(log event.Log) FormAnswers {
	var out FormAnswers
	for _, answers := range AllAnswers(log) {
		switch v := answers.(type) {
		case step.SpacesCategoriesSelectionAnswers:
			out.SpacesCategoriesSelectionAnswers = v
		case step.SpacesCategoriesSurfaceAreaAnswers:
			out.SpacesCategoriesSurfaceAreaAnswers = v
		case step.GreenSpacesDistributionAnswers:
			out.GreenSpacesDistributionAnswers = v
		case step.LivingAndActivitySpacesDistributionAnswers:
			out.LivingAndActivitySpacesDistributionAnswers = v
		case step.PublicSpacesDistributionAnswers:
			out.PublicSpacesDistributionAnswers = v
		case step.SoilsDecontaminationSelectionAnswers:
			out.SoilsDecontaminationSelectionAnswers = v
		case step.SoilsDecontaminationSurfaceAreaAnswers:
			out.SoilsDecontaminationSurfaceAreaAnswers = v
		case step.BuildingsFloorSurfaceAreaAnswers:
			out.BuildingsFloorSurfaceAreaAnswers = v
		case step.BuildingsUsesDistributionAnswers:
			out.BuildingsUsesDistributionAnswers = v
		case step.ProjectDeveloperAnswers:
			out.ProjectDeveloperAnswers = v
		case step.ReinstatementContractOwnerAnswers:
			out.ReinstatementContractOwnerAnswers = v
		case step.SiteResaleSelectionAnswers:
			out.SiteResaleSelectionAnswers = v
		case step.BuildingsResaleSelectionAnswers:
			out.BuildingsResaleSelectionAnswers = v
		case step.SitePurchaseAmountsAnswers:
			out.SitePurchaseAmountsAnswers = v
		case step.ReinstatementExpensesAnswers:
			out.ReinstatementExpensesAnswers = v
		case step.InstallationExpensesAnswers:
			out.InstallationExpensesAnswers = v
		case step.ProjectedBuildingsOperatingExpensesAnswers:
			out.ProjectedBuildingsOperatingExpensesAnswers = v
		case step.ExpectedSiteResaleAnswers:
			out.ExpectedSiteResaleAnswers = v
		case step.BuildingsResaleRevenueAnswers:
			out.BuildingsResaleRevenueAnswers = v
		case step.BuildingsOperationsRevenuesAnswers:
			out.BuildingsOperationsRevenuesAnswers = v
		case step.FinancialAssistanceRevenuesAnswers:
			out.FinancialAssistanceRevenuesAnswers = v
		case step.ScheduleProjectionAnswers:
			out.ScheduleProjectionAnswers = v
		case step.NamingAnswers:
			out.NamingAnswers = v
		case step.ProjectPhaseAnswers:
			out.ProjectPhaseAnswers = v
		}
	}
	return out
}

// ProjectSoilsDistribution derives the project soils from the space
// answers. It is empty until the category split is answered.
func ProjectSoilsDistribution(log event.Log, c calc.Calculator) map[step.SoilType]float64 {
	split, ok := SpacesCategoriesDistribution(log)
	if !ok {
		return map[step.SoilType]float64{}
	}
	green, _ := Answer[step.GreenSpacesDistributionAnswers](log)
	living, _ := Answer[step.LivingAndActivitySpacesDistributionAnswers](log)
	public, _ := Answer[step.PublicSpacesDistributionAnswers](log)

	var categories []calc.CategorySpaces
	for _, category := range []step.SpaceCategory{
		step.GreenSpaces,
		step.LivingAndActivitySpaces,
		step.PublicSpaces,
		step.UrbanFarm,
		step.RenewableEnergy,
		step.UrbanPondOrLakeCategory,
	} {
		area := split[category]
		if area <= 0 {
			continue
		}
		entry := calc.CategorySpaces{Category: category, SurfaceArea: area}
		switch category {
		case step.GreenSpaces:
			entry.Spaces = rawKeys(green.GreenSpacesDistribution)
		case step.LivingAndActivitySpaces:
			entry.Spaces = rawKeys(living.LivingAndActivitySpacesDistribution)
		case step.PublicSpaces:
			entry.Spaces = rawKeys(public.PublicSpacesDistribution)
		}
		categories = append(categories, entry)
	}
	return c.SoilsDistribution(categories)
}

func rawKeys[K ~string](in map[K]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

// Space is an entry of the aggregated spaces distribution.
type Space string

const (
	BuildingsFootprint                   Space = "BUILDINGS_FOOTPRINT"
	PrivatePavedAlleyOrParkingLot        Space = "PRIVATE_PAVED_ALLEY_OR_PARKING_LOT"
	PrivateGravelAlleyOrParkingLot       Space = "PRIVATE_GRAVEL_ALLEY_OR_PARKING_LOT"
	PrivateGardenAndGrassAlleys          Space = "PRIVATE_GARDEN_AND_GRASS_ALLEYS"
	PublicGreenSpaces                    Space = "PUBLIC_GREEN_SPACES"
	PublicPavedRoadOrSquaresOrSidewalks  Space = "PUBLIC_PAVED_ROAD_OR_SQUARES_OR_SIDEWALKS"
	PublicGravelRoadOrSquaresOrSidewalks Space = "PUBLIC_GRAVEL_ROAD_OR_SQUARES_OR_SIDEWALKS"
	PublicGrassRoadOrSquaresOrSidewalks  Space = "PUBLIC_GRASS_ROAD_OR_SQUARES_OR_SIDEWALKS"
)

// SpacesDistribution aggregates the detailed space answers into the spaces
// used by project reporting. Entries without surface are omitted.
func SpacesDistribution(log event.Log) map[Space]float64 {
	green, _ := Answer[step.GreenSpacesDistributionAnswers](log)
	living, _ := Answer[step.LivingAndActivitySpacesDistributionAnswers](log)
	public, _ := Answer[step.PublicSpacesDistributionAnswers](log)
	g := green.GreenSpacesDistribution
	l := living.LivingAndActivitySpacesDistribution
	p := public.PublicSpacesDistribution

	all := map[Space]float64{
		BuildingsFootprint:                   l[step.Buildings],
		PrivatePavedAlleyOrParkingLot:        l[step.LivingImpermeableSurface],
		PrivateGravelAlleyOrParkingLot:       l[step.LivingPermeableSurface],
		PrivateGardenAndGrassAlleys:          l[step.PrivateGreenSpaces],
		PublicGreenSpaces:                    g[step.UrbanPondOrLake] + g[step.LawnsAndBushes] + g[step.TreeFilledSpace],
		PublicPavedRoadOrSquaresOrSidewalks:  p[step.PublicImpermeableSurface] + g[step.PavedAlley],
		PublicGravelRoadOrSquaresOrSidewalks: p[step.PublicPermeableSurface] + g[step.GravelAlley],
		PublicGrassRoadOrSquaresOrSidewalks:  p[step.PublicGrassCovered],
	}
	out := map[Space]float64{}
	for space, area := range all {
		if area > 0 {
			out[space] = area
		}
	}
	return out
}
