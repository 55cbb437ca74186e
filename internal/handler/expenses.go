package handler

import (
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

func expensesHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id: step.ExpensesIntroduction,
			previous: func(_ Env, log event.Log) step.ID {
				if formstate.HasBuildings(log) {
					return step.BuildingsResaleSelection
				}
				return step.SiteResaleSelection
			},
			next: to(step.ExpensesSitePurchaseAmounts),
		},
		answerHandler{
			id:       step.ExpensesSitePurchaseAmounts,
			previous: to(step.ExpensesIntroduction),
			next: func(env Env, _ event.Log) step.ID {
				if env.Site.IsFriche() {
					return step.ExpensesReinstatement
				}
				return step.ExpensesInstallation
			},
		},
		answerHandler{
			id:       step.ExpensesReinstatement,
			previous: to(step.ExpensesSitePurchaseAmounts),
			next:     to(step.ExpensesInstallation),
			defaults: func(env Env, log event.Log) (step.Answers, bool) {
				decontaminated, _ := formstate.DecontaminatedSurface(log)
				expenses := env.calc().ReinstatementExpenses(
					env.Site.SoilsDistribution,
					formstate.ProjectSoilsDistribution(log, env.calc()),
					decontaminated,
				)
				return step.ReinstatementExpensesAnswers{ReinstatementExpenses: expenses}, true
			},
		},
		answerHandler{
			id: step.ExpensesInstallation,
			previous: func(env Env, _ event.Log) step.ID {
				if env.Site.IsFriche() {
					return step.ExpensesReinstatement
				}
				return step.ExpensesSitePurchaseAmounts
			},
			next: func(_ Env, log event.Log) step.ID {
				if operatesBuildings(log) {
					return step.ExpensesProjectedBuildingsOperating
				}
				return step.RevenueIntroduction
			},
			defaults: func(env Env, _ event.Log) (step.Answers, bool) {
				if env.Site.SurfaceArea <= 0 {
					return nil, false
				}
				return step.InstallationExpensesAnswers{
					InstallationExpenses: env.calc().InstallationExpenses(env.Site.SurfaceArea),
				}, true
			},
		},
		answerHandler{
			id:       step.ExpensesProjectedBuildingsOperating,
			previous: to(step.ExpensesInstallation),
			next:     to(step.RevenueIntroduction),
		},
	}
}

// operatesBuildings reports whether the developer keeps and runs the buildings.
func operatesBuildings(log event.Log) bool {
	return formstate.HasBuildings(log) && !formstate.BuildingsResalePlanned(log)
}

// buildingsRevenueStep is the revenue step describing what the buildings bring.
func buildingsRevenueStep(log event.Log) step.ID {
	if formstate.BuildingsResalePlanned(log) {
		return step.RevenueBuildingsResale
	}
	return step.RevenueBuildingsOperationsYearlyRevenue
}

func revenueHandlers() []Navigator {
	afterSiteResale := func(_ Env, log event.Log) step.ID {
		if formstate.HasBuildings(log) {
			return buildingsRevenueStep(log)
		}
		return step.RevenueFinancialAssistance
	}
	beforeBuildingsRevenue := func(_ Env, log event.Log) step.ID {
		if formstate.SiteResalePlanned(log) {
			return step.RevenueExpectedSiteResale
		}
		return step.RevenueIntroduction
	}

	return []Navigator{
		infoHandler{
			id: step.RevenueIntroduction,
			previous: func(_ Env, log event.Log) step.ID {
				if operatesBuildings(log) {
					return step.ExpensesProjectedBuildingsOperating
				}
				return step.ExpensesInstallation
			},
			next: func(env Env, log event.Log) step.ID {
				if formstate.SiteResalePlanned(log) {
					return step.RevenueExpectedSiteResale
				}
				return afterSiteResale(env, log)
			},
		},
		answerHandler{
			id:       step.RevenueExpectedSiteResale,
			previous: to(step.RevenueIntroduction),
			next:     afterSiteResale,
		},
		answerHandler{
			id:       step.RevenueBuildingsResale,
			previous: beforeBuildingsRevenue,
			next:     to(step.RevenueFinancialAssistance),
		},
		answerHandler{
			id:       step.RevenueBuildingsOperationsYearlyRevenue,
			previous: beforeBuildingsRevenue,
			next:     to(step.RevenueFinancialAssistance),
		},
		answerHandler{
			id: step.RevenueFinancialAssistance,
			previous: func(env Env, log event.Log) step.ID {
				if formstate.HasBuildings(log) {
					return buildingsRevenueStep(log)
				}
				return beforeBuildingsRevenue(env, log)
			},
			next: to(step.ScheduleIntroduction),
		},
	}
}
