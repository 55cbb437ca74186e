package handler

import (
	"fmt"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

// unknownDecontaminationShare is the part of the contaminated surface assumed
// to be treated when the plan is unknown.
const unknownDecontaminationShare = 0.25

var decontaminationDependents = []step.ID{step.ExpensesReinstatement}

func soilsHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id:       step.SoilsCarbonSummary,
			previous: to(step.SpacesSoilsSummary),
			next: func(env Env, log event.Log) step.ID {
				if env.Site.HasContaminatedSoils {
					return step.SoilsDecontaminationIntroduction
				}
				return afterDecontamination(env, log)
			},
		},
		infoHandler{
			id:       step.SoilsDecontaminationIntroduction,
			previous: to(step.SoilsCarbonSummary),
			next:     to(step.SoilsDecontaminationSelection),
		},
		answerHandler{
			id:       step.SoilsDecontaminationSelection,
			previous: to(step.SoilsDecontaminationIntroduction),
			next: func(env Env, log event.Log) step.ID {
				if skipsDecontaminationSurface(log) {
					return afterDecontamination(env, log)
				}
				return step.SoilsDecontaminationSurfaceArea
			},
			validate: func(answers step.Answers) error {
				plan := answers.(step.SoilsDecontaminationSelectionAnswers).DecontaminationPlan
				if plan != "" && !plan.Valid() {
					return fmt.Errorf("unsupported decontamination plan %q", plan)
				}
				return nil
			},
			onUpdate: func(t *tx, _, current step.Answers) {
				t.invalidate(decontaminationDependents...)
				plan := current.(step.SoilsDecontaminationSelectionAnswers).DecontaminationPlan
				if plan == step.DecontaminationPartial && formstate.HasLastAnswerFromSystem(t.log, step.SoilsDecontaminationSurfaceArea) {
					t.deleteAnswer(step.SoilsDecontaminationSurfaceArea)
				}
			},
			afterRecord: func(t *tx, current step.Answers) {
				var surface float64
				switch current.(step.SoilsDecontaminationSelectionAnswers).DecontaminationPlan {
				case step.DecontaminationNone:
					surface = 0
				case step.DecontaminationUnknown:
					surface = t.env.Site.ContaminatedSoilSurface * unknownDecontaminationShare
				default:
					return
				}
				t.ensureSystemAnswer(step.SoilsDecontaminationSurfaceAreaAnswers{DecontaminatedSurfaceArea: surface})
			},
		},
		answerHandler{
			id:       step.SoilsDecontaminationSurfaceArea,
			previous: to(step.SoilsDecontaminationSelection),
			next:     afterDecontamination,
			onUpdate: func(t *tx, _, _ step.Answers) {
				t.invalidate(decontaminationDependents...)
			},
		},
	}
}

// skipsDecontaminationSurface reports whether the decontaminated surface is
// derived from the plan instead of asked.
func skipsDecontaminationSurface(log event.Log) bool {
	switch formstate.DecontaminationPlan(log) {
	case step.DecontaminationNone, step.DecontaminationUnknown:
		return true
	}
	return false
}

// afterDecontamination is the step following the soils section.
func afterDecontamination(_ Env, log event.Log) step.ID {
	if formstate.HasBuildings(log) {
		return step.BuildingsIntroduction
	}
	return step.StakeholdersIntroduction
}

// beforeBuildings is the last step of the soils section.
func beforeBuildings(env Env, log event.Log) step.ID {
	if !env.Site.HasContaminatedSoils {
		return step.SoilsCarbonSummary
	}
	if skipsDecontaminationSurface(log) {
		return step.SoilsDecontaminationSelection
	}
	return step.SoilsDecontaminationSurfaceArea
}
