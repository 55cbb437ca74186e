package calc

import "github.com/kingrea/urbanwizard/internal/step"

// CategorySpaces is the surface of one space category and, when known, its
// breakdown into spaces keyed by the raw space identifier.
type CategorySpaces struct {
	Category    step.SpaceCategory
	SurfaceArea float64
	Spaces      map[string]float64
}

var spaceSoils = map[step.SpaceCategory]map[string]step.SoilType{
	step.GreenSpaces: {
		string(step.LawnsAndBushes):  step.SoilArtificialGrassOrBushesFilled,
		string(step.TreeFilledSpace): step.SoilArtificialTreeFilled,
		string(step.PavedAlley):      step.SoilImpermeable,
		string(step.GravelAlley):     step.SoilMineral,
		string(step.UrbanPondOrLake): step.SoilWater,
	},
	step.LivingAndActivitySpaces: {
		string(step.Buildings):                step.SoilBuildings,
		string(step.LivingImpermeableSurface): step.SoilImpermeable,
		string(step.LivingPermeableSurface):   step.SoilMineral,
		string(step.PrivateGreenSpaces):       step.SoilArtificialGrassOrBushesFilled,
	},
	step.PublicSpaces: {
		string(step.PublicImpermeableSurface): step.SoilImpermeable,
		string(step.PublicPermeableSurface):   step.SoilMineral,
		string(step.PublicGrassCovered):       step.SoilArtificialGrassOrBushesFilled,
	},
}

var categorySoil = map[step.SpaceCategory]step.SoilType{
	step.GreenSpaces:             step.SoilArtificialGrassOrBushesFilled,
	step.LivingAndActivitySpaces: step.SoilBuildings,
	step.PublicSpaces:            step.SoilImpermeable,
	step.UrbanFarm:               step.SoilCultivation,
	step.RenewableEnergy:         step.SoilPrairieGrass,
	step.UrbanPondOrLakeCategory: step.SoilWater,
}

// SoilsDistribution converts category and space surfaces into soil surfaces.
// Surface left unassigned by the space breakdown falls back to the soil of
// its category. Soils with no surface are omitted.
func (Default) SoilsDistribution(categories []CategorySpaces) map[step.SoilType]float64 {
	out := map[step.SoilType]float64{}
	for _, category := range categories {
		if category.SurfaceArea <= 0 {
			continue
		}
		assigned := 0.0
		for space, area := range category.Spaces {
			soil, ok := spaceSoils[category.Category][space]
			if !ok || area <= 0 {
				continue
			}
			out[soil] += area
			assigned += area
		}
		if rest := category.SurfaceArea - assigned; rest > 0 {
			if soil, ok := categorySoil[category.Category]; ok {
				out[soil] += rest
			}
		}
	}
	return out
}
