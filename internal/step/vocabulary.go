package step

// SpaceCategory is a top-level split of the project surface.
type SpaceCategory string

const (
	LivingAndActivitySpaces SpaceCategory = "LIVING_AND_ACTIVITY_SPACES"
	PublicSpaces            SpaceCategory = "PUBLIC_SPACES"
	GreenSpaces             SpaceCategory = "GREEN_SPACES"
	UrbanFarm               SpaceCategory = "URBAN_FARM"
	RenewableEnergy         SpaceCategory = "RENEWABLE_ENERGY"
	UrbanPondOrLakeCategory SpaceCategory = "URBAN_POND_OR_LAKE"
)

// Valid reports whether c is a known category.
func (c SpaceCategory) Valid() bool {
	switch c {
	case LivingAndActivitySpaces, PublicSpaces, GreenSpaces, UrbanFarm, RenewableEnergy, UrbanPondOrLakeCategory:
		return true
	}
	return false
}

// GreenSpace details the green spaces category.
type GreenSpace string

const (
	LawnsAndBushes  GreenSpace = "LAWNS_AND_BUSHES"
	TreeFilledSpace GreenSpace = "TREE_FILLED_SPACE"
	PavedAlley      GreenSpace = "PAVED_ALLEY"
	GravelAlley     GreenSpace = "GRAVEL_ALLEY"
	UrbanPondOrLake GreenSpace = "URBAN_POND_OR_LAKE"
)

// LivingAndActivitySpace details the living and activity spaces category.
type LivingAndActivitySpace string

const (
	Buildings                LivingAndActivitySpace = "BUILDINGS"
	LivingImpermeableSurface LivingAndActivitySpace = "IMPERMEABLE_SURFACE"
	LivingPermeableSurface   LivingAndActivitySpace = "PERMEABLE_SURFACE"
	PrivateGreenSpaces       LivingAndActivitySpace = "PRIVATE_GREEN_SPACES"
)

// PublicSpace details the public spaces category.
type PublicSpace string

const (
	PublicImpermeableSurface PublicSpace = "IMPERMEABLE_SURFACE"
	PublicPermeableSurface   PublicSpace = "PERMEABLE_SURFACE"
	PublicGrassCovered       PublicSpace = "GRASS_COVERED_SURFACE"
)

// BuildingsUse is a floor-area usage of the project buildings.
type BuildingsUse string

const (
	ResidentialUse     BuildingsUse = "RESIDENTIAL"
	LocalStore         BuildingsUse = "LOCAL_STORE"
	LocalServices      BuildingsUse = "LOCAL_SERVICES"
	OfficesUse         BuildingsUse = "OFFICES"
	PublicFacilities   BuildingsUse = "PUBLIC_FACILITIES"
	IndustrialPremises BuildingsUse = "ARTISANAL_OR_INDUSTRIAL_OR_SHIPPING_PREMISES"
	OtherCulturalPlace BuildingsUse = "OTHER_CULTURAL_PLACE"
)

// DecontaminationPlan is the answer of the decontamination selection step.
type DecontaminationPlan string

const (
	DecontaminationPartial DecontaminationPlan = "partial"
	DecontaminationNone    DecontaminationPlan = "none"
	DecontaminationUnknown DecontaminationPlan = "unknown"
)

// Valid reports whether the plan is one of the supported variants.
func (p DecontaminationPlan) Valid() bool {
	switch p {
	case DecontaminationPartial, DecontaminationNone, DecontaminationUnknown:
		return true
	}
	return false
}

// Phase is the maturity of the project at creation time.
type Phase string

const (
	PhasePlanning     Phase = "planning"
	PhaseSetup        Phase = "setup"
	PhaseDesign       Phase = "design"
	PhaseConstruction Phase = "construction"
	PhaseCompleted    Phase = "completed"
	PhaseUnknown      Phase = "unknown"
)

// SoilType classifies a parcel of land.
type SoilType string

const (
	SoilBuildings                     SoilType = "BUILDINGS"
	SoilImpermeable                   SoilType = "IMPERMEABLE_SOILS"
	SoilMineral                       SoilType = "MINERAL_SOIL"
	SoilArtificialGrassOrBushesFilled SoilType = "ARTIFICIAL_GRASS_OR_BUSHES_FILLED"
	SoilArtificialTreeFilled          SoilType = "ARTIFICIAL_TREE_FILLED"
	SoilWater                         SoilType = "WATER"
	SoilPrairieGrass                  SoilType = "PRAIRIE_GRASS"
	SoilForestMixed                   SoilType = "FOREST_MIXED"
	SoilCultivation                   SoilType = "CULTIVATION"
)

// IsArtificial reports whether the soil counts as artificialised land.
func (s SoilType) IsArtificial() bool {
	switch s {
	case SoilBuildings, SoilImpermeable, SoilMineral, SoilArtificialGrassOrBushesFilled, SoilArtificialTreeFilled:
		return true
	}
	return false
}

// IsPermeable reports whether water can infiltrate the soil.
func (s SoilType) IsPermeable() bool {
	return s != SoilBuildings && s != SoilImpermeable
}

// Stakeholder is a party involved in the project.
type Stakeholder struct {
	Name          string `json:"name" yaml:"name"`
	StructureType string `json:"structureType" yaml:"structureType"`
}

// Expense is an amount attached to a purpose.
type Expense struct {
	Purpose string  `json:"purpose"`
	Amount  float64 `json:"amount"`
}

// Revenue is an amount attached to a source.
type Revenue struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

// Schedule is an inclusive date range formatted as YYYY-MM-DD.
type Schedule struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
