package formstate

import (
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

// HasBuildings reports whether the project plans a buildings footprint.
func HasBuildings(log event.Log) bool {
	answers, ok := Answer[step.LivingAndActivitySpacesDistributionAnswers](log)
	return ok && answers.LivingAndActivitySpacesDistribution[step.Buildings] > 0
}

// SiteResalePlanned reports whether the site is sold once developed.
func SiteResalePlanned(log event.Log) bool {
	answers, ok := Answer[step.SiteResaleSelectionAnswers](log)
	return ok && answers.SiteResalePlannedAfterDevelopment
}

// BuildingsResalePlanned reports whether the buildings are sold once built.
func BuildingsResalePlanned(log event.Log) bool {
	answers, ok := Answer[step.BuildingsResaleSelectionAnswers](log)
	return ok && answers.BuildingsResalePlannedAfterDevelopment
}

// SpacesCategoriesDistribution returns the surface split per category. The
// second result is false until the split is answered.
func SpacesCategoriesDistribution(log event.Log) (map[step.SpaceCategory]float64, bool) {
	answers, ok := Answer[step.SpacesCategoriesSurfaceAreaAnswers](log)
	return answers.SpacesCategoriesDistribution, ok
}

// HasSpaceCategory reports whether the surface split allots area to category.
func HasSpaceCategory(log event.Log, category step.SpaceCategory) bool {
	split, _ := SpacesCategoriesDistribution(log)
	return split[category] > 0
}

// SelectedSpaceCategories returns the categories chosen by the user.
func SelectedSpaceCategories(log event.Log) []step.SpaceCategory {
	answers, ok := Answer[step.SpacesCategoriesSelectionAnswers](log)
	if !ok {
		return nil
	}
	return answers.SpacesCategories
}

// SingleCategoryShortcut reports whether the surface split was derived from a
// single selected category, which skips the surface area step.
func SingleCategoryShortcut(log event.Log) bool {
	return len(SelectedSpaceCategories(log)) == 1 &&
		HasLastAnswerFromSystem(log, step.SpacesCategoriesSurfaceArea)
}

// DecontaminationPlan returns the recorded plan, or "" when unanswered.
func DecontaminationPlan(log event.Log) step.DecontaminationPlan {
	answers, _ := Answer[step.SoilsDecontaminationSelectionAnswers](log)
	return answers.DecontaminationPlan
}

// DecontaminatedSurface returns the recorded decontaminated surface.
func DecontaminatedSurface(log event.Log) (float64, bool) {
	answers, ok := Answer[step.SoilsDecontaminationSurfaceAreaAnswers](log)
	return answers.DecontaminatedSurfaceArea, ok
}

// ProjectDeveloper returns the recorded project developer.
func ProjectDeveloper(log event.Log) *step.Stakeholder {
	answers, _ := Answer[step.ProjectDeveloperAnswers](log)
	return answers.ProjectDeveloper
}
