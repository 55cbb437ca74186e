package formstate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/step"
)

var t0 = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func at(seconds int) time.Time { return t0.Add(time.Duration(seconds) * time.Second) }

func naming(name string) step.NamingAnswers { return step.NamingAnswers{Name: name} }

func TestCurrentStepDefaultsToEntry(t *testing.T) {
	require.Equal(t, step.Entry, CurrentStep(event.Log{}))

	log := event.NewLog(
		event.StepNavigated(step.SpacesCategoriesSelection, at(1)),
		event.StepNavigated(step.SpacesCategoriesSurfaceArea, at(2)),
	)
	require.Equal(t, step.SpacesCategoriesSurfaceArea, CurrentStep(log))
}

func TestLatestAnswerIgnoresOtherSteps(t *testing.T) {
	log := event.NewLog(
		event.AnswerSet(naming("A"), event.SourceUser, at(1)),
		event.AnswerDeleted(step.ProjectPhase, event.SourceSystem, at(2)),
	)
	answers, ok := Answer[step.NamingAnswers](log)
	require.True(t, ok)
	assert.Equal(t, "A", answers.Name)
}

func TestDeletionOnlyHidesEarlierAnswers(t *testing.T) {
	deleted := event.NewLog(
		event.AnswerSet(naming("A"), event.SourceUser, at(1)),
		event.AnswerDeleted(step.Naming, event.SourceSystem, at(2)),
	)
	_, ok := LatestAnswer(deleted, step.Naming)
	require.False(t, ok, "answer set before the deletion must be hidden")

	revived := deleted.Append(event.AnswerSet(naming("B"), event.SourceUser, at(3)))
	answers, ok := Answer[step.NamingAnswers](revived)
	require.True(t, ok, "answer set after the deletion must be visible")
	assert.Equal(t, "B", answers.Name)
}

func TestSameTimestampFallsBackToLogPosition(t *testing.T) {
	log := event.NewLog(
		event.AnswerSet(naming("first"), event.SourceUser, at(1)),
		event.AnswerSet(naming("second"), event.SourceUser, at(1)),
	)
	answers, ok := Answer[step.NamingAnswers](log)
	require.True(t, ok)
	assert.Equal(t, "second", answers.Name)

	deletedAtSameInstant := log.Append(event.AnswerDeleted(step.Naming, event.SourceSystem, at(1)))
	_, ok = LatestAnswer(deletedAtSameInstant, step.Naming)
	assert.False(t, ok)
}

func TestHasLastAnswerFromSystem(t *testing.T) {
	log := event.NewLog(event.AnswerSet(naming("Projet urbain"), event.SourceSystem, at(1)))
	assert.True(t, HasLastAnswerFromSystem(log, step.Naming))

	log = log.Append(event.AnswerSet(naming("Mon projet"), event.SourceUser, at(2)))
	assert.False(t, HasLastAnswerFromSystem(log, step.Naming))

	log = log.Append(event.AnswerDeleted(step.Naming, event.SourceSystem, at(3)))
	assert.False(t, HasLastAnswerFromSystem(log, step.Naming))
}

func TestIsStale(t *testing.T) {
	log := event.NewLog(event.AnswerSet(naming("A"), event.SourceSystem, at(1)))
	assert.False(t, IsStale(log, step.Naming))

	log = log.Append(event.InvalidStep(step.Naming, at(2)))
	assert.True(t, IsStale(log, step.Naming))

	_, ok := LatestAnswer(log, step.Naming)
	assert.True(t, ok, "a stale answer is still resolved")

	log = log.Append(event.AnswerSet(naming("B"), event.SourceUser, at(3)))
	assert.False(t, IsStale(log, step.Naming))
}

func TestLatestEventOfKind(t *testing.T) {
	log := event.NewLog(
		event.StepNavigated(step.Naming, at(1)),
		event.AnswerSet(naming("A"), event.SourceUser, at(2)),
	)
	evt, ok := LatestEventOfKind(log, event.KindAnswerSet)
	require.True(t, ok)
	assert.Equal(t, step.Naming, evt.StepID)

	_, ok = LatestEventOfKind(log, event.KindInvalidStep)
	assert.False(t, ok)
}

func TestSingleCategoryShortcutRequiresSystemSplit(t *testing.T) {
	log := event.NewLog(
		event.AnswerSet(step.SpacesCategoriesSelectionAnswers{
			SpacesCategories: []step.SpaceCategory{step.GreenSpaces},
		}, event.SourceUser, at(1)),
	)
	assert.False(t, SingleCategoryShortcut(log))
	_, ok := SpacesCategoriesDistribution(log)
	assert.False(t, ok)

	log = log.Append(event.AnswerSet(step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{step.GreenSpaces: 100},
	}, event.SourceSystem, at(2)))
	assert.True(t, SingleCategoryShortcut(log))
	assert.True(t, HasSpaceCategory(log, step.GreenSpaces))
	assert.False(t, HasSpaceCategory(log, step.PublicSpaces))

	split, ok := SpacesCategoriesDistribution(log)
	require.True(t, ok)
	assert.Equal(t, map[step.SpaceCategory]float64{step.GreenSpaces: 100}, split)
}

func spacesLog() event.Log {
	return event.NewLog(
		event.AnswerSet(step.SpacesCategoriesSurfaceAreaAnswers{
			SpacesCategoriesDistribution: map[step.SpaceCategory]float64{
				step.LivingAndActivitySpaces: 6000,
				step.PublicSpaces:            2000,
				step.GreenSpaces:             2000,
			},
		}, event.SourceUser, at(1)),
		event.AnswerSet(step.LivingAndActivitySpacesDistributionAnswers{
			LivingAndActivitySpacesDistribution: map[step.LivingAndActivitySpace]float64{
				step.Buildings:                4000,
				step.LivingImpermeableSurface: 2000,
			},
		}, event.SourceUser, at(2)),
		event.AnswerSet(step.PublicSpacesDistributionAnswers{
			PublicSpacesDistribution: map[step.PublicSpace]float64{
				step.PublicImpermeableSurface: 1500,
				step.PublicGrassCovered:       500,
			},
		}, event.SourceUser, at(3)),
		event.AnswerSet(step.GreenSpacesDistributionAnswers{
			GreenSpacesDistribution: map[step.GreenSpace]float64{
				step.LawnsAndBushes:  1200,
				step.PavedAlley:      300,
				step.GravelAlley:     0,
				step.UrbanPondOrLake: 500,
			},
		}, event.SourceUser, at(4)),
	)
}

func TestSpacesDistribution(t *testing.T) {
	got := SpacesDistribution(spacesLog())
	want := map[Space]float64{
		BuildingsFootprint:                  4000,
		PrivatePavedAlleyOrParkingLot:       2000,
		PublicGreenSpaces:                   1700,
		PublicPavedRoadOrSquaresOrSidewalks: 1800,
		PublicGrassRoadOrSquaresOrSidewalks: 500,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spaces distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectSoilsDistribution(t *testing.T) {
	got := ProjectSoilsDistribution(spacesLog(), calc.Default{})
	want := map[step.SoilType]float64{
		step.SoilBuildings:                     4000,
		step.SoilImpermeable:                   2000 + 1500 + 300,
		step.SoilArtificialGrassOrBushesFilled: 500 + 1200,
		step.SoilWater:                         500,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("soils distribution mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ProjectSoilsDistribution(event.Log{}, calc.Default{}))
}

func TestProjectSoilsDistributionIncludesPondCategory(t *testing.T) {
	log := event.NewLog(
		event.AnswerSet(step.SpacesCategoriesSurfaceAreaAnswers{
			SpacesCategoriesDistribution: map[step.SpaceCategory]float64{
				step.PublicSpaces:            1000,
				step.UrbanPondOrLakeCategory: 400,
			},
		}, event.SourceUser, at(1)),
	)
	got := ProjectSoilsDistribution(log, calc.Default{})
	want := map[step.SoilType]float64{
		step.SoilImpermeable: 1000,
		step.SoilWater:       400,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("soils distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestMergedAnswersAndProjectData(t *testing.T) {
	log := spacesLog().Append(
		event.AnswerSet(step.NamingAnswers{Name: "Quartier gare", Description: "ZAC"}, event.SourceUser, at(5)),
		event.AnswerSet(step.SoilsDecontaminationSurfaceAreaAnswers{DecontaminatedSurfaceArea: 0}, event.SourceSystem, at(6)),
		event.AnswerSet(step.ScheduleProjectionAnswers{
			InstallationSchedule: &step.Schedule{StartDate: "2026-01-01", EndDate: "2026-12-31"},
			FirstYearOfOperation: 2027,
		}, event.SourceSystem, at(7)),
	)

	merged := MergedAnswers(log)
	assert.Equal(t, "Quartier gare", merged.Name)
	assert.Equal(t, 4000.0, merged.LivingAndActivitySpacesDistribution[step.Buildings])
	assert.Len(t, AllAnswers(log), 7)

	data := BuildProjectData(log, calc.Default{})
	assert.Equal(t, "Quartier gare", data.Name)
	assert.Equal(t, DevelopmentPlanType, data.DevelopmentPlan.Type)
	require.NotNil(t, data.DecontaminatedSoilSurface)
	assert.Zero(t, *data.DecontaminatedSoilSurface)
	require.NotNil(t, data.OperationsFirstYear)
	assert.Equal(t, 2027, *data.OperationsFirstYear)
	assert.Nil(t, data.SitePurchaseSellingPrice)
	assert.NotNil(t, data.YearlyProjectedCosts)
	assert.Equal(t, 4000.0, data.DevelopmentPlan.Features.SpacesDistribution[BuildingsFootprint])
}
