package step

import "fmt"

// ID identifies one node of the urban project creation wizard.
type ID string

const (
	SpacesCategoriesIntroduction            ID = "URBAN_PROJECT_SPACES_CATEGORIES_INTRODUCTION"
	SpacesCategoriesSelection               ID = "URBAN_PROJECT_SPACES_CATEGORIES_SELECTION"
	SpacesCategoriesSurfaceArea             ID = "URBAN_PROJECT_SPACES_CATEGORIES_SURFACE_AREA"
	SpacesDevelopmentPlanIntroduction       ID = "URBAN_PROJECT_SPACES_DEVELOPMENT_PLAN_INTRODUCTION"
	ResidentialAndActivitySpacesIntro       ID = "URBAN_PROJECT_RESIDENTIAL_AND_ACTIVITY_SPACES_INTRODUCTION"
	ResidentialAndActivitySpacesDistrib     ID = "URBAN_PROJECT_RESIDENTIAL_AND_ACTIVITY_SPACES_DISTRIBUTION"
	PublicSpacesIntroduction                ID = "URBAN_PROJECT_PUBLIC_SPACES_INTRODUCTION"
	PublicSpacesDistribution                ID = "URBAN_PROJECT_PUBLIC_SPACES_DISTRIBUTION"
	GreenSpacesIntroduction                 ID = "URBAN_PROJECT_GREEN_SPACES_INTRODUCTION"
	GreenSpacesSurfaceAreaDistribution      ID = "URBAN_PROJECT_GREEN_SPACES_SURFACE_AREA_DISTRIBUTION"
	SpacesSoilsSummary                      ID = "URBAN_PROJECT_SPACES_SOILS_SUMMARY"
	SoilsCarbonSummary                      ID = "URBAN_PROJECT_SOILS_CARBON_SUMMARY"
	SoilsDecontaminationIntroduction        ID = "URBAN_PROJECT_SOILS_DECONTAMINATION_INTRODUCTION"
	SoilsDecontaminationSelection           ID = "URBAN_PROJECT_SOILS_DECONTAMINATION_SELECTION"
	SoilsDecontaminationSurfaceArea         ID = "URBAN_PROJECT_SOILS_DECONTAMINATION_SURFACE_AREA"
	BuildingsIntroduction                   ID = "URBAN_PROJECT_BUILDINGS_INTRODUCTION"
	BuildingsFloorSurfaceArea               ID = "URBAN_PROJECT_BUILDINGS_FLOOR_SURFACE_AREA"
	BuildingsUseIntroduction                ID = "URBAN_PROJECT_BUILDINGS_USE_INTRODUCTION"
	BuildingsUseSurfaceAreaDistribution     ID = "URBAN_PROJECT_BUILDINGS_USE_SURFACE_AREA_DISTRIBUTION"
	StakeholdersIntroduction                ID = "URBAN_PROJECT_STAKEHOLDERS_INTRODUCTION"
	StakeholdersProjectDeveloper            ID = "URBAN_PROJECT_STAKEHOLDERS_PROJECT_DEVELOPER"
	StakeholdersReinstatementContractOwner  ID = "URBAN_PROJECT_STAKEHOLDERS_REINSTATEMENT_CONTRACT_OWNER"
	SiteResaleIntroduction                  ID = "URBAN_PROJECT_SITE_RESALE_INTRODUCTION"
	SiteResaleSelection                     ID = "URBAN_PROJECT_SITE_RESALE_SELECTION"
	BuildingsResaleSelection                ID = "URBAN_PROJECT_BUILDINGS_RESALE_SELECTION"
	ExpensesIntroduction                    ID = "URBAN_PROJECT_EXPENSES_INTRODUCTION"
	ExpensesSitePurchaseAmounts             ID = "URBAN_PROJECT_EXPENSES_SITE_PURCHASE_AMOUNTS"
	ExpensesReinstatement                   ID = "URBAN_PROJECT_EXPENSES_REINSTATEMENT"
	ExpensesInstallation                    ID = "URBAN_PROJECT_EXPENSES_INSTALLATION"
	ExpensesProjectedBuildingsOperating     ID = "URBAN_PROJECT_EXPENSES_PROJECTED_BUILDINGS_OPERATING_EXPENSES"
	RevenueIntroduction                     ID = "URBAN_PROJECT_REVENUE_INTRODUCTION"
	RevenueExpectedSiteResale               ID = "URBAN_PROJECT_REVENUE_EXPECTED_SITE_RESALE"
	RevenueBuildingsResale                  ID = "URBAN_PROJECT_REVENUE_BUILDINGS_RESALE"
	RevenueBuildingsOperationsYearlyRevenue ID = "URBAN_PROJECT_REVENUE_BUILDINGS_OPERATIONS_YEARLY_REVENUES"
	RevenueFinancialAssistance              ID = "URBAN_PROJECT_REVENUE_FINANCIAL_ASSISTANCE"
	ScheduleIntroduction                    ID = "URBAN_PROJECT_SCHEDULE_INTRODUCTION"
	ScheduleProjection                      ID = "URBAN_PROJECT_SCHEDULE_PROJECTION"
	ProjectPhase                            ID = "URBAN_PROJECT_PROJECT_PHASE"
	Naming                                  ID = "URBAN_PROJECT_NAMING"
	FinalSummary                            ID = "URBAN_PROJECT_FINAL_SUMMARY"
	CreationResult                          ID = "URBAN_PROJECT_CREATION_RESULT"
)

// Entry is the step shown when a session has no navigation history.
const Entry = SpacesCategoriesIntroduction

// all lists every step in questionnaire order.
var all = []ID{
	SpacesCategoriesIntroduction,
	SpacesCategoriesSelection,
	SpacesCategoriesSurfaceArea,
	SpacesDevelopmentPlanIntroduction,
	ResidentialAndActivitySpacesIntro,
	ResidentialAndActivitySpacesDistrib,
	PublicSpacesIntroduction,
	PublicSpacesDistribution,
	GreenSpacesIntroduction,
	GreenSpacesSurfaceAreaDistribution,
	SpacesSoilsSummary,
	SoilsCarbonSummary,
	SoilsDecontaminationIntroduction,
	SoilsDecontaminationSelection,
	SoilsDecontaminationSurfaceArea,
	BuildingsIntroduction,
	BuildingsFloorSurfaceArea,
	BuildingsUseIntroduction,
	BuildingsUseSurfaceAreaDistribution,
	StakeholdersIntroduction,
	StakeholdersProjectDeveloper,
	StakeholdersReinstatementContractOwner,
	SiteResaleIntroduction,
	SiteResaleSelection,
	BuildingsResaleSelection,
	ExpensesIntroduction,
	ExpensesSitePurchaseAmounts,
	ExpensesReinstatement,
	ExpensesInstallation,
	ExpensesProjectedBuildingsOperating,
	RevenueIntroduction,
	RevenueExpectedSiteResale,
	RevenueBuildingsResale,
	RevenueBuildingsOperationsYearlyRevenue,
	RevenueFinancialAssistance,
	ScheduleIntroduction,
	ScheduleProjection,
	ProjectPhase,
	Naming,
	FinalSummary,
	CreationResult,
}

var informational = map[ID]struct{}{
	SpacesCategoriesIntroduction:      {},
	SpacesDevelopmentPlanIntroduction: {},
	GreenSpacesIntroduction:           {},
	ResidentialAndActivitySpacesIntro: {},
	PublicSpacesIntroduction:          {},
	SpacesSoilsSummary:                {},
	SoilsCarbonSummary:                {},
	SoilsDecontaminationIntroduction:  {},
	BuildingsIntroduction:             {},
	BuildingsUseIntroduction:          {},
	StakeholdersIntroduction:          {},
	SiteResaleIntroduction:            {},
	ExpensesIntroduction:              {},
	RevenueIntroduction:               {},
	ScheduleIntroduction:              {},
	FinalSummary:                      {},
	CreationResult:                    {},
}

// All returns every step identifier in questionnaire order.
func All() []ID {
	out := make([]ID, len(all))
	copy(out, all)
	return out
}

// Valid reports whether id belongs to the step enumeration.
func (id ID) Valid() bool {
	for _, candidate := range all {
		if candidate == id {
			return true
		}
	}
	return false
}

// IsInformational reports whether the step only supports navigation.
func (id ID) IsInformational() bool {
	_, ok := informational[id]
	return ok
}

// IsAnswerable reports whether the step records an answer payload.
func (id ID) IsAnswerable() bool {
	return id.Valid() && !id.IsInformational()
}

func (id ID) String() string { return string(id) }

// Parse converts raw input into a known step identifier. The URBAN_PROJECT_
// prefix may be omitted.
func Parse(raw string) (ID, error) {
	id := ID(raw)
	if id.Valid() {
		return id, nil
	}
	prefixed := ID("URBAN_PROJECT_" + raw)
	if prefixed.Valid() {
		return prefixed, nil
	}
	return "", fmt.Errorf("step: unknown id %s", raw)
}
