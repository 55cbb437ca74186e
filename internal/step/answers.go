package step

import (
	"encoding/json"
	"fmt"
)

// Answers is the payload recorded for an answerable step. Every payload type
// is bound to exactly one step identifier.
type Answers interface {
	StepID() ID
}

type SpacesCategoriesSelectionAnswers struct {
	SpacesCategories []SpaceCategory `json:"spacesCategories,omitempty"`
}

type SpacesCategoriesSurfaceAreaAnswers struct {
	SpacesCategoriesDistribution map[SpaceCategory]float64 `json:"spacesCategoriesDistribution,omitempty"`
}

type GreenSpacesDistributionAnswers struct {
	GreenSpacesDistribution map[GreenSpace]float64 `json:"greenSpacesDistribution,omitempty"`
}

type LivingAndActivitySpacesDistributionAnswers struct {
	LivingAndActivitySpacesDistribution map[LivingAndActivitySpace]float64 `json:"livingAndActivitySpacesDistribution,omitempty"`
}

type PublicSpacesDistributionAnswers struct {
	PublicSpacesDistribution map[PublicSpace]float64 `json:"publicSpacesDistribution,omitempty"`
}

type SoilsDecontaminationSelectionAnswers struct {
	DecontaminationPlan DecontaminationPlan `json:"decontaminationPlan,omitempty"`
}

type SoilsDecontaminationSurfaceAreaAnswers struct {
	DecontaminatedSurfaceArea float64 `json:"decontaminatedSurfaceArea"`
}

type BuildingsFloorSurfaceAreaAnswers struct {
	BuildingsFloorSurfaceArea float64 `json:"buildingsFloorSurfaceArea"`
}

type BuildingsUsesDistributionAnswers struct {
	BuildingsUsesDistribution map[BuildingsUse]float64 `json:"buildingsUsesDistribution,omitempty"`
}

type ProjectDeveloperAnswers struct {
	ProjectDeveloper *Stakeholder `json:"projectDeveloper,omitempty"`
}

type ReinstatementContractOwnerAnswers struct {
	ReinstatementContractOwner *Stakeholder `json:"reinstatementContractOwner,omitempty"`
}

type SiteResaleSelectionAnswers struct {
	SiteResalePlannedAfterDevelopment bool         `json:"siteResalePlannedAfterDevelopment"`
	FutureSiteOwner                   *Stakeholder `json:"futureSiteOwner,omitempty"`
}

type BuildingsResaleSelectionAnswers struct {
	BuildingsResalePlannedAfterDevelopment bool         `json:"buildingsResalePlannedAfterDevelopment"`
	FutureOperator                         *Stakeholder `json:"futureOperator,omitempty"`
}

type SitePurchaseAmountsAnswers struct {
	SitePurchaseSellingPrice           float64 `json:"sitePurchaseSellingPrice"`
	SitePurchasePropertyTransferDuties float64 `json:"sitePurchasePropertyTransferDuties"`
}

type ReinstatementExpensesAnswers struct {
	ReinstatementExpenses []Expense `json:"reinstatementExpenses,omitempty"`
}

type InstallationExpensesAnswers struct {
	InstallationExpenses []Expense `json:"installationExpenses,omitempty"`
}

type ProjectedBuildingsOperatingExpensesAnswers struct {
	YearlyProjectedBuildingsOperationsExpenses []Expense `json:"yearlyProjectedBuildingsOperationsExpenses,omitempty"`
}

type ExpectedSiteResaleAnswers struct {
	SiteResaleExpectedSellingPrice           float64 `json:"siteResaleExpectedSellingPrice"`
	SiteResaleExpectedPropertyTransferDuties float64 `json:"siteResaleExpectedPropertyTransferDuties"`
}

type BuildingsResaleRevenueAnswers struct {
	BuildingsResaleSellingPrice           float64 `json:"buildingsResaleSellingPrice"`
	BuildingsResalePropertyTransferDuties float64 `json:"buildingsResalePropertyTransferDuties"`
}

type BuildingsOperationsRevenuesAnswers struct {
	YearlyProjectedRevenues []Revenue `json:"yearlyProjectedRevenues,omitempty"`
}

type FinancialAssistanceRevenuesAnswers struct {
	FinancialAssistanceRevenues []Revenue `json:"financialAssistanceRevenues,omitempty"`
}

type ScheduleProjectionAnswers struct {
	ReinstatementSchedule *Schedule `json:"reinstatementSchedule,omitempty"`
	InstallationSchedule  *Schedule `json:"installationSchedule,omitempty"`
	FirstYearOfOperation  int       `json:"firstYearOfOperation,omitempty"`
}

type NamingAnswers struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProjectPhaseAnswers struct {
	ProjectPhase Phase `json:"projectPhase,omitempty"`
}

func (SpacesCategoriesSelectionAnswers) StepID() ID           { return SpacesCategoriesSelection }
func (SpacesCategoriesSurfaceAreaAnswers) StepID() ID         { return SpacesCategoriesSurfaceArea }
func (GreenSpacesDistributionAnswers) StepID() ID             { return GreenSpacesSurfaceAreaDistribution }
func (LivingAndActivitySpacesDistributionAnswers) StepID() ID { return ResidentialAndActivitySpacesDistrib }
func (PublicSpacesDistributionAnswers) StepID() ID            { return PublicSpacesDistribution }
func (SoilsDecontaminationSelectionAnswers) StepID() ID       { return SoilsDecontaminationSelection }
func (SoilsDecontaminationSurfaceAreaAnswers) StepID() ID     { return SoilsDecontaminationSurfaceArea }
func (BuildingsFloorSurfaceAreaAnswers) StepID() ID           { return BuildingsFloorSurfaceArea }
func (BuildingsUsesDistributionAnswers) StepID() ID           { return BuildingsUseSurfaceAreaDistribution }
func (ProjectDeveloperAnswers) StepID() ID                    { return StakeholdersProjectDeveloper }
func (ReinstatementContractOwnerAnswers) StepID() ID          { return StakeholdersReinstatementContractOwner }
func (SiteResaleSelectionAnswers) StepID() ID                 { return SiteResaleSelection }
func (BuildingsResaleSelectionAnswers) StepID() ID            { return BuildingsResaleSelection }
func (SitePurchaseAmountsAnswers) StepID() ID                 { return ExpensesSitePurchaseAmounts }
func (ReinstatementExpensesAnswers) StepID() ID               { return ExpensesReinstatement }
func (InstallationExpensesAnswers) StepID() ID                { return ExpensesInstallation }
func (ProjectedBuildingsOperatingExpensesAnswers) StepID() ID { return ExpensesProjectedBuildingsOperating }
func (ExpectedSiteResaleAnswers) StepID() ID                  { return RevenueExpectedSiteResale }
func (BuildingsResaleRevenueAnswers) StepID() ID              { return RevenueBuildingsResale }
func (BuildingsOperationsRevenuesAnswers) StepID() ID         { return RevenueBuildingsOperationsYearlyRevenue }
func (FinancialAssistanceRevenuesAnswers) StepID() ID         { return RevenueFinancialAssistance }
func (ScheduleProjectionAnswers) StepID() ID                  { return ScheduleProjection }
func (NamingAnswers) StepID() ID                              { return Naming }
func (ProjectPhaseAnswers) StepID() ID                        { return ProjectPhase }

// NewAnswers returns a pointer to the zero payload bound to id, ready to be
// decoded into.
func NewAnswers(id ID) (Answers, error) {
	switch id {
	case SpacesCategoriesSelection:
		return &SpacesCategoriesSelectionAnswers{}, nil
	case SpacesCategoriesSurfaceArea:
		return &SpacesCategoriesSurfaceAreaAnswers{}, nil
	case GreenSpacesSurfaceAreaDistribution:
		return &GreenSpacesDistributionAnswers{}, nil
	case ResidentialAndActivitySpacesDistrib:
		return &LivingAndActivitySpacesDistributionAnswers{}, nil
	case PublicSpacesDistribution:
		return &PublicSpacesDistributionAnswers{}, nil
	case SoilsDecontaminationSelection:
		return &SoilsDecontaminationSelectionAnswers{}, nil
	case SoilsDecontaminationSurfaceArea:
		return &SoilsDecontaminationSurfaceAreaAnswers{}, nil
	case BuildingsFloorSurfaceArea:
		return &BuildingsFloorSurfaceAreaAnswers{}, nil
	case BuildingsUseSurfaceAreaDistribution:
		return &BuildingsUsesDistributionAnswers{}, nil
	case StakeholdersProjectDeveloper:
		return &ProjectDeveloperAnswers{}, nil
	case StakeholdersReinstatementContractOwner:
		return &ReinstatementContractOwnerAnswers{}, nil
	case SiteResaleSelection:
		return &SiteResaleSelectionAnswers{}, nil
	case BuildingsResaleSelection:
		return &BuildingsResaleSelectionAnswers{}, nil
	case ExpensesSitePurchaseAmounts:
		return &SitePurchaseAmountsAnswers{}, nil
	case ExpensesReinstatement:
		return &ReinstatementExpensesAnswers{}, nil
	case ExpensesInstallation:
		return &InstallationExpensesAnswers{}, nil
	case ExpensesProjectedBuildingsOperating:
		return &ProjectedBuildingsOperatingExpensesAnswers{}, nil
	case RevenueExpectedSiteResale:
		return &ExpectedSiteResaleAnswers{}, nil
	case RevenueBuildingsResale:
		return &BuildingsResaleRevenueAnswers{}, nil
	case RevenueBuildingsOperationsYearlyRevenue:
		return &BuildingsOperationsRevenuesAnswers{}, nil
	case RevenueFinancialAssistance:
		return &FinancialAssistanceRevenuesAnswers{}, nil
	case ScheduleProjection:
		return &ScheduleProjectionAnswers{}, nil
	case Naming:
		return &NamingAnswers{}, nil
	case ProjectPhase:
		return &ProjectPhaseAnswers{}, nil
	}
	return nil, fmt.Errorf("step: %s has no answers", id)
}

// Deref converts a decoded pointer payload back to its value form so that
// decoded and constructed answers compare equal. A nil pointer yields nil.
func Deref(a Answers) Answers {
	switch v := a.(type) {
	case *SpacesCategoriesSelectionAnswers:
		return value(v)
	case *SpacesCategoriesSurfaceAreaAnswers:
		return value(v)
	case *GreenSpacesDistributionAnswers:
		return value(v)
	case *LivingAndActivitySpacesDistributionAnswers:
		return value(v)
	case *PublicSpacesDistributionAnswers:
		return value(v)
	case *SoilsDecontaminationSelectionAnswers:
		return value(v)
	case *SoilsDecontaminationSurfaceAreaAnswers:
		return value(v)
	case *BuildingsFloorSurfaceAreaAnswers:
		return value(v)
	case *BuildingsUsesDistributionAnswers:
		return value(v)
	case *ProjectDeveloperAnswers:
		return value(v)
	case *ReinstatementContractOwnerAnswers:
		return value(v)
	case *SiteResaleSelectionAnswers:
		return value(v)
	case *BuildingsResaleSelectionAnswers:
		return value(v)
	case *SitePurchaseAmountsAnswers:
		return value(v)
	case *ReinstatementExpensesAnswers:
		return value(v)
	case *InstallationExpensesAnswers:
		return value(v)
	case *ProjectedBuildingsOperatingExpensesAnswers:
		return value(v)
	case *ExpectedSiteResaleAnswers:
		return value(v)
	case *BuildingsResaleRevenueAnswers:
		return value(v)
	case *BuildingsOperationsRevenuesAnswers:
		return value(v)
	case *FinancialAssistanceRevenuesAnswers:
		return value(v)
	case *ScheduleProjectionAnswers:
		return value(v)
	case *NamingAnswers:
		return value(v)
	case *ProjectPhaseAnswers:
		return value(v)
	}
	return a
}

func value[T Answers](v *T) Answers {
	if v == nil {
		return nil
	}
	return *v
}

// Decode parses a JSON payload for id into its value form.
func Decode(id ID, raw []byte) (Answers, error) {
	target, err := NewAnswers(id)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("step: decode %s: %w", id, err)
		}
	}
	return Deref(target), nil
}
