package handler

import (
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

func buildingsHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id:       step.BuildingsIntroduction,
			previous: beforeBuildings,
			next:     to(step.BuildingsFloorSurfaceArea),
		},
		answerHandler{
			id:       step.BuildingsFloorSurfaceArea,
			previous: to(step.BuildingsIntroduction),
			next:     to(step.BuildingsUseIntroduction),
		},
		infoHandler{
			id:       step.BuildingsUseIntroduction,
			previous: to(step.BuildingsFloorSurfaceArea),
			next:     to(step.BuildingsUseSurfaceAreaDistribution),
		},
		answerHandler{
			id:       step.BuildingsUseSurfaceAreaDistribution,
			previous: to(step.BuildingsUseIntroduction),
			next:     to(step.StakeholdersIntroduction),
		},
	}
}

func stakeholdersHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id: step.StakeholdersIntroduction,
			previous: func(env Env, log event.Log) step.ID {
				if formstate.HasBuildings(log) {
					return step.BuildingsUseSurfaceAreaDistribution
				}
				return beforeBuildings(env, log)
			},
			next: to(step.StakeholdersProjectDeveloper),
		},
		answerHandler{
			id:       step.StakeholdersProjectDeveloper,
			previous: to(step.StakeholdersIntroduction),
			next: func(env Env, _ event.Log) step.ID {
				if env.Site.IsFriche() {
					return step.StakeholdersReinstatementContractOwner
				}
				return step.SiteResaleIntroduction
			},
		},
		answerHandler{
			id:       step.StakeholdersReinstatementContractOwner,
			previous: to(step.StakeholdersProjectDeveloper),
			next:     to(step.SiteResaleIntroduction),
		},
	}
}

func resaleHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id: step.SiteResaleIntroduction,
			previous: func(env Env, _ event.Log) step.ID {
				if env.Site.IsFriche() {
					return step.StakeholdersReinstatementContractOwner
				}
				return step.StakeholdersProjectDeveloper
			},
			next: to(step.SiteResaleSelection),
		},
		answerHandler{
			id:       step.SiteResaleSelection,
			previous: to(step.SiteResaleIntroduction),
			next: func(_ Env, log event.Log) step.ID {
				if formstate.HasBuildings(log) {
					return step.BuildingsResaleSelection
				}
				return step.ExpensesIntroduction
			},
			prepare: func(env Env, _ event.Log, answers step.Answers) step.Answers {
				selection := answers.(step.SiteResaleSelectionAnswers)
				selection.FutureSiteOwner = nil
				if selection.SiteResalePlannedAfterDevelopment {
					selection.FutureSiteOwner = env.calc().FutureSiteOwner(true, env.Site.Owner)
				}
				return selection
			},
		},
		answerHandler{
			id:       step.BuildingsResaleSelection,
			previous: to(step.SiteResaleSelection),
			next:     to(step.ExpensesIntroduction),
			prepare: func(env Env, log event.Log, answers step.Answers) step.Answers {
				selection := answers.(step.BuildingsResaleSelectionAnswers)
				selection.FutureOperator = nil
				if selection.BuildingsResalePlannedAfterDevelopment {
					selection.FutureOperator = env.calc().FutureOperator(true, formstate.ProjectDeveloper(log))
				}
				return selection
			},
		},
	}
}
