package handler

import (
	"fmt"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/step"
)

// Steps holding system answers derived from the space category split.
var spacesSplitDependents = []step.ID{step.ExpensesInstallation, step.ExpensesReinstatement}

// Steps holding system answers derived from the detailed spaces.
var spacesDependents = []step.ID{step.ExpensesReinstatement}

func spacesHandlers() []Navigator {
	return []Navigator{
		infoHandler{
			id:       step.SpacesCategoriesIntroduction,
			previous: to(step.SpacesCategoriesIntroduction),
			next:     to(step.SpacesCategoriesSelection),
		},
		answerHandler{
			id:       step.SpacesCategoriesSelection,
			previous: to(step.SpacesCategoriesIntroduction),
			next: func(_ Env, log event.Log) step.ID {
				if formstate.SingleCategoryShortcut(log) {
					return step.SpacesDevelopmentPlanIntroduction
				}
				return step.SpacesCategoriesSurfaceArea
			},
			onUpdate: func(t *tx, _, current step.Answers) {
				selection := current.(step.SpacesCategoriesSelectionAnswers)
				if len(selection.SpacesCategories) != 1 && formstate.HasLastAnswerFromSystem(t.log, step.SpacesCategoriesSurfaceArea) {
					t.deleteAnswer(step.SpacesCategoriesSurfaceArea)
					t.invalidate(spacesSplitDependents...)
				}
			},
			validate:    validateSpaceCategories,
			afterRecord: applySingleCategoryShortcut,
		},
		answerHandler{
			id:       step.SpacesCategoriesSurfaceArea,
			previous: to(step.SpacesCategoriesSelection),
			next:     to(step.SpacesDevelopmentPlanIntroduction),
			onUpdate: func(t *tx, _, _ step.Answers) {
				t.invalidate(spacesSplitDependents...)
			},
		},
		infoHandler{
			id: step.SpacesDevelopmentPlanIntroduction,
			previous: func(_ Env, log event.Log) step.ID {
				if formstate.SingleCategoryShortcut(log) {
					return step.SpacesCategoriesSelection
				}
				return step.SpacesCategoriesSurfaceArea
			},
			next: func(_ Env, log event.Log) step.ID {
				switch {
				case formstate.HasSpaceCategory(log, step.LivingAndActivitySpaces):
					return step.ResidentialAndActivitySpacesIntro
				case formstate.HasSpaceCategory(log, step.PublicSpaces):
					return step.PublicSpacesIntroduction
				case formstate.HasSpaceCategory(log, step.GreenSpaces):
					return step.GreenSpacesIntroduction
				}
				return step.SpacesSoilsSummary
			},
		},
		infoHandler{
			id:       step.ResidentialAndActivitySpacesIntro,
			previous: to(step.SpacesDevelopmentPlanIntroduction),
			next:     to(step.ResidentialAndActivitySpacesDistrib),
		},
		answerHandler{
			id:       step.ResidentialAndActivitySpacesDistrib,
			previous: to(step.ResidentialAndActivitySpacesIntro),
			next: func(_ Env, log event.Log) step.ID {
				switch {
				case formstate.HasSpaceCategory(log, step.PublicSpaces):
					return step.PublicSpacesIntroduction
				case formstate.HasSpaceCategory(log, step.GreenSpaces):
					return step.GreenSpacesIntroduction
				}
				return step.SpacesSoilsSummary
			},
			onUpdate: invalidateSpacesDependents,
		},
		infoHandler{
			id: step.PublicSpacesIntroduction,
			previous: func(_ Env, log event.Log) step.ID {
				if formstate.HasSpaceCategory(log, step.LivingAndActivitySpaces) {
					return step.ResidentialAndActivitySpacesDistrib
				}
				return step.SpacesDevelopmentPlanIntroduction
			},
			next: to(step.PublicSpacesDistribution),
		},
		answerHandler{
			id:       step.PublicSpacesDistribution,
			previous: to(step.PublicSpacesIntroduction),
			next: func(_ Env, log event.Log) step.ID {
				if formstate.HasSpaceCategory(log, step.GreenSpaces) {
					return step.GreenSpacesIntroduction
				}
				return step.SpacesSoilsSummary
			},
			onUpdate: invalidateSpacesDependents,
		},
		infoHandler{
			id: step.GreenSpacesIntroduction,
			previous: func(_ Env, log event.Log) step.ID {
				switch {
				case formstate.HasSpaceCategory(log, step.PublicSpaces):
					return step.PublicSpacesDistribution
				case formstate.HasSpaceCategory(log, step.LivingAndActivitySpaces):
					return step.ResidentialAndActivitySpacesDistrib
				}
				return step.SpacesDevelopmentPlanIntroduction
			},
			next: to(step.GreenSpacesSurfaceAreaDistribution),
		},
		answerHandler{
			id:       step.GreenSpacesSurfaceAreaDistribution,
			previous: to(step.GreenSpacesIntroduction),
			next:     to(step.SpacesSoilsSummary),
			onUpdate: invalidateSpacesDependents,
		},
		infoHandler{
			id:       step.SpacesSoilsSummary,
			previous: lastSpacesStep,
			next:     to(step.SoilsCarbonSummary),
		},
	}
}

// applySingleCategoryShortcut assigns the whole site surface to the only
// selected category.
func applySingleCategoryShortcut(t *tx, current step.Answers) {
	selection := current.(step.SpacesCategoriesSelectionAnswers)
	if len(selection.SpacesCategories) != 1 || t.env.Site.SurfaceArea <= 0 {
		return
	}
	previous, hadSplit := formstate.LatestAnswer(t.log, step.SpacesCategoriesSurfaceArea)
	split := step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{
			selection.SpacesCategories[0]: t.env.Site.SurfaceArea,
		},
	}
	// An equal user split is taken over by the system so the surface area
	// step is skipped.
	if !formstate.HasLastAnswerFromSystem(t.log, step.SpacesCategoriesSurfaceArea) {
		t.answer(split, event.SourceSystem)
	} else if !t.ensureSystemAnswer(split) {
		return
	}
	if hadSplit && !sameAnswers(previous, split) {
		t.invalidate(spacesSplitDependents...)
	}
}

func validateSpaceCategories(answers step.Answers) error {
	for _, category := range answers.(step.SpacesCategoriesSelectionAnswers).SpacesCategories {
		if !category.Valid() {
			return fmt.Errorf("unknown space category %q", category)
		}
	}
	return nil
}

func invalidateSpacesDependents(t *tx, _, _ step.Answers) {
	t.invalidate(spacesDependents...)
}

// lastSpacesStep returns the last detailed spaces step the user went through.
func lastSpacesStep(_ Env, log event.Log) step.ID {
	switch {
	case formstate.HasSpaceCategory(log, step.GreenSpaces):
		return step.GreenSpacesSurfaceAreaDistribution
	case formstate.HasSpaceCategory(log, step.PublicSpaces):
		return step.PublicSpacesDistribution
	case formstate.HasSpaceCategory(log, step.LivingAndActivitySpaces):
		return step.ResidentialAndActivitySpacesDistrib
	}
	return step.SpacesDevelopmentPlanIntroduction
}
