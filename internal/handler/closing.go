package handler

import (
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

func closingHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id:       step.ScheduleIntroduction,
			previous: to(step.RevenueFinancialAssistance),
			next:     to(step.ScheduleProjection),
		},
		answerHandler{
			id:       step.ScheduleProjection,
			previous: to(step.ScheduleIntroduction),
			next:     to(step.ProjectPhase),
			defaults: func(env Env, _ event.Log) (step.Answers, bool) {
				return env.calc().Schedule(env.clock().Now(), env.Site.IsFriche()), true
			},
		},
		answerHandler{
			id:       step.ProjectPhase,
			previous: to(step.ScheduleProjection),
			next:     to(step.Naming),
		},
		answerHandler{
			id:       step.Naming,
			previous: to(step.ProjectPhase),
			next:     to(step.FinalSummary),
			defaults: func(env Env, _ event.Log) (step.Answers, bool) {
				return step.NamingAnswers{Name: env.calc().ProjectName(env.Site.Name)}, true
			},
		},
		infoHandler{
			id:       step.FinalSummary,
			previous: to(step.Naming),
			next:     to(step.CreationResult),
		},
		infoHandler{
			id:       step.CreationResult,
			previous: to(step.FinalSummary),
			next:     to(step.CreationResult),
		},
	}
}
