package formstate

import (
	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

// DevelopmentPlanType is the only development plan the wizard produces.
const DevelopmentPlanType = "URBAN_PROJECT"

// ProjectData is the flattened projection consumed by project reporting.
// Pointer fields are nil when the matching step is unanswered.
type ProjectData struct {
	Name                                     string                    `json:"name,omitempty"`
	Description                              string                    `json:"description,omitempty"`
	ReinstatementContractOwner               *step.Stakeholder         `json:"reinstatementContractOwner,omitempty"`
	ReinstatementCosts                       []step.Expense            `json:"reinstatementCosts,omitempty"`
	SitePurchaseSellingPrice                 *float64                  `json:"sitePurchaseSellingPrice,omitempty"`
	SitePurchasePropertyTransferDuties       *float64                  `json:"sitePurchasePropertyTransferDuties,omitempty"`
	SiteResaleExpectedSellingPrice           *float64                  `json:"siteResaleExpectedSellingPrice,omitempty"`
	SiteResaleExpectedPropertyTransferDuties *float64                  `json:"siteResaleExpectedPropertyTransferDuties,omitempty"`
	BuildingsResaleSellingPrice              *float64                  `json:"buildingsResaleSellingPrice,omitempty"`
	BuildingsResalePropertyTransferDuties    *float64                  `json:"buildingsResalePropertyTransferDuties,omitempty"`
	FinancialAssistanceRevenues              []step.Revenue            `json:"financialAssistanceRevenues,omitempty"`
	YearlyProjectedCosts                     []step.Expense            `json:"yearlyProjectedCosts"`
	YearlyProjectedRevenues                  []step.Revenue            `json:"yearlyProjectedRevenues"`
	SoilsDistribution                        map[step.SoilType]float64 `json:"soilsDistribution"`
	ReinstatementSchedule                    *step.Schedule            `json:"reinstatementSchedule,omitempty"`
	OperationsFirstYear                      *int                      `json:"operationsFirstYear,omitempty"`
	FutureOperator                           *step.Stakeholder         `json:"futureOperator,omitempty"`
	FutureSiteOwner                          *step.Stakeholder         `json:"futureSiteOwner,omitempty"`
	DevelopmentPlan                          DevelopmentPlan           `json:"developmentPlan"`
	ProjectPhase                             step.Phase                `json:"projectPhase,omitempty"`
	DecontaminatedSoilSurface                *float64                  `json:"decontaminatedSoilSurface,omitempty"`
}

// DevelopmentPlan describes what gets built.
type DevelopmentPlan struct {
	Type                 string            `json:"type"`
	Developer            *step.Stakeholder `json:"developer,omitempty"`
	Costs                []step.Expense    `json:"costs,omitempty"`
	InstallationSchedule *step.Schedule    `json:"installationSchedule,omitempty"`
	Features             PlanFeatures      `json:"features"`
}

// PlanFeatures holds the surface breakdowns of a development plan.
type PlanFeatures struct {
	SpacesDistribution             map[Space]float64             `json:"spacesDistribution"`
	BuildingsFloorAreaDistribution map[step.BuildingsUse]float64 `json:"buildingsFloorAreaDistribution"`
}

// BuildProjectData projects the log into ProjectData.
func BuildProjectData(log event.Log, c calc.Calculator) ProjectData {
	data := ProjectData{
		YearlyProjectedCosts:    []step.Expense{},
		YearlyProjectedRevenues: []step.Revenue{},
		SoilsDistribution:       ProjectSoilsDistribution(log, c),
		DevelopmentPlan: DevelopmentPlan{
			Type: DevelopmentPlanType,
			Features: PlanFeatures{
				SpacesDistribution:             SpacesDistribution(log),
				BuildingsFloorAreaDistribution: map[step.BuildingsUse]float64{},
			},
		},
	}

	if naming, ok := Answer[step.NamingAnswers](log); ok {
		data.Name = naming.Name
		data.Description = naming.Description
	}
	if owner, ok := Answer[step.ReinstatementContractOwnerAnswers](log); ok {
		data.ReinstatementContractOwner = owner.ReinstatementContractOwner
	}
	if reinstatement, ok := Answer[step.ReinstatementExpensesAnswers](log); ok {
		data.ReinstatementCosts = reinstatement.ReinstatementExpenses
	}
	if purchase, ok := Answer[step.SitePurchaseAmountsAnswers](log); ok {
		data.SitePurchaseSellingPrice = ptr(purchase.SitePurchaseSellingPrice)
		data.SitePurchasePropertyTransferDuties = ptr(purchase.SitePurchasePropertyTransferDuties)
	}
	if resale, ok := Answer[step.ExpectedSiteResaleAnswers](log); ok {
		data.SiteResaleExpectedSellingPrice = ptr(resale.SiteResaleExpectedSellingPrice)
		data.SiteResaleExpectedPropertyTransferDuties = ptr(resale.SiteResaleExpectedPropertyTransferDuties)
	}
	if resale, ok := Answer[step.BuildingsResaleRevenueAnswers](log); ok {
		data.BuildingsResaleSellingPrice = ptr(resale.BuildingsResaleSellingPrice)
		data.BuildingsResalePropertyTransferDuties = ptr(resale.BuildingsResalePropertyTransferDuties)
	}
	if assistance, ok := Answer[step.FinancialAssistanceRevenuesAnswers](log); ok {
		data.FinancialAssistanceRevenues = assistance.FinancialAssistanceRevenues
	}
	if costs, ok := Answer[step.ProjectedBuildingsOperatingExpensesAnswers](log); ok && costs.YearlyProjectedBuildingsOperationsExpenses != nil {
		data.YearlyProjectedCosts = costs.YearlyProjectedBuildingsOperationsExpenses
	}
	if revenues, ok := Answer[step.BuildingsOperationsRevenuesAnswers](log); ok && revenues.YearlyProjectedRevenues != nil {
		data.YearlyProjectedRevenues = revenues.YearlyProjectedRevenues
	}
	if schedules, ok := Answer[step.ScheduleProjectionAnswers](log); ok {
		data.ReinstatementSchedule = schedules.ReinstatementSchedule
		data.DevelopmentPlan.InstallationSchedule = schedules.InstallationSchedule
		if schedules.FirstYearOfOperation != 0 {
			data.OperationsFirstYear = ptr(schedules.FirstYearOfOperation)
		}
	}
	if resale, ok := Answer[step.BuildingsResaleSelectionAnswers](log); ok {
		data.FutureOperator = resale.FutureOperator
	}
	if resale, ok := Answer[step.SiteResaleSelectionAnswers](log); ok {
		data.FutureSiteOwner = resale.FutureSiteOwner
	}
	data.DevelopmentPlan.Developer = ProjectDeveloper(log)
	if installation, ok := Answer[step.InstallationExpensesAnswers](log); ok {
		data.DevelopmentPlan.Costs = installation.InstallationExpenses
	}
	if uses, ok := Answer[step.BuildingsUsesDistributionAnswers](log); ok && uses.BuildingsUsesDistribution != nil {
		data.DevelopmentPlan.Features.BuildingsFloorAreaDistribution = uses.BuildingsUsesDistribution
	}
	if phase, ok := Answer[step.ProjectPhaseAnswers](log); ok {
		data.ProjectPhase = phase.ProjectPhase
	}
	if surface, ok := DecontaminatedSurface(log); ok {
		data.DecontaminatedSoilSurface = ptr(surface)
	}
	return data
}

func ptr[T any](v T) *T { return &v }
