package handler

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/urbanwizard/internal/calc"
	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/site"
	"github.com/kingrea/urbanwizard/internal/step"
)

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fricheSite() site.Data {
	return site.Data{
		Name:                    "Friche des Tanneries",
		SurfaceArea:             10000,
		Nature:                  site.NatureFriche,
		HasContaminatedSoils:    true,
		ContaminatedSoilSurface: 2000,
		Owner:                   &step.Stakeholder{Name: "Commune de Blajan", StructureType: "municipality"},
		SoilsDistribution: map[step.SoilType]float64{
			step.SoilBuildings:    3000,
			step.SoilImpermeable:  5000,
			step.SoilPrairieGrass: 2000,
		},
	}
}

func greenfieldSite() site.Data {
	return site.Data{
		Name:        "Prairie du Moulin",
		SurfaceArea: 5000,
		Nature:      "AGRICULTURAL",
		SoilsDistribution: map[step.SoilType]float64{
			step.SoilPrairieGrass: 5000,
		},
	}
}

func newEnv(s site.Data) Env {
	return Env{
		Site:         s,
		Calc:         calc.Default{},
		Clock:        &event.FixedClock{At: testStart, Step: time.Second},
		Invalidation: InvalidationDelete,
	}
}

// harness applies handler output to a log the way the dispatcher does.
type harness struct {
	t   *testing.T
	env Env
	reg *Registry
	log event.Log
}

func newHarness(t *testing.T, s site.Data) *harness {
	t.Helper()
	return &harness{t: t, env: newEnv(s), reg: Default()}
}

func (h *harness) answerHandler(id step.ID) AnswerHandler {
	h.t.Helper()
	ah, err := h.reg.AnswerHandler(id)
	require.NoError(h.t, err)
	return ah
}

func (h *harness) apply(events []event.Event) []event.Event {
	h.log = h.log.Append(events...)
	return events
}

func (h *harness) complete(answers step.Answers) []event.Event {
	h.t.Helper()
	events, err := h.answerHandler(answers.StepID()).Complete(h.env, h.log, answers)
	require.NoError(h.t, err)
	return h.apply(events)
}

func (h *harness) load(id step.ID) []event.Event {
	h.t.Helper()
	return h.apply(h.answerHandler(id).Load(h.env, h.log))
}

func (h *harness) previous(from step.ID) step.ID {
	h.t.Helper()
	nav, err := h.reg.Lookup(from)
	require.NoError(h.t, err)
	events := nav.Previous(h.env, h.log)
	require.Len(h.t, events, 1)
	return events[0].StepID
}

func ofKind(events []event.Event, kind event.Kind) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestDefaultRegistryCoversEveryStep(t *testing.T) {
	reg := Default()
	require.Len(t, reg.IDs(), len(step.All()))

	for _, id := range step.All() {
		nav, err := reg.Lookup(id)
		require.NoError(t, err)
		require.Equal(t, id, nav.Step())

		_, err = reg.AnswerHandler(id)
		if id.IsAnswerable() {
			require.NoErrorf(t, err, "%s should record answers", id)
		} else {
			require.ErrorIsf(t, err, ErrNotAnswerable, "%s should be informational", id)
		}
	}
}

func TestRegistryRejectsIncompleteTables(t *testing.T) {
	handlers := Handlers()

	_, err := NewRegistry(handlers[1:]...)
	require.ErrorContains(t, err, "no handler registered for")

	_, err = NewRegistry(append(Handlers(), handlers[0])...)
	require.ErrorContains(t, err, "already registered")

	swapped := Handlers()
	for i, h := range swapped {
		if h.Step() == step.Naming {
			swapped[i] = infoHandler{id: step.Naming, previous: to(step.ProjectPhase), next: to(step.FinalSummary)}
		}
	}
	_, err = NewRegistry(swapped...)
	require.ErrorContains(t, err, "cannot record answers")

	require.Panics(t, func() { MustNewRegistry() })
}

func TestLookupUnknownStep(t *testing.T) {
	_, err := Default().Lookup(step.ID("URBAN_PROJECT_NOPE"))
	require.ErrorIs(t, err, ErrUnknownStep)
}

func TestEntryStepPreviousStaysInPlace(t *testing.T) {
	h := newHarness(t, fricheSite())
	require.Equal(t, step.Entry, h.previous(step.Entry))
}

func TestSelectingSeveralCategoriesAsksForSurfaces(t *testing.T) {
	h := newHarness(t, fricheSite())

	events := h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.LivingAndActivitySpaces, step.PublicSpaces, step.GreenSpaces},
	})

	require.Len(t, ofKind(events, event.KindAnswerSet), 1)
	require.Len(t, ofKind(events, event.KindStepNavigated), 1)
	require.Len(t, events, 2)
	assert.Equal(t, event.SourceUser, events[0].Source)
	assert.Equal(t, step.SpacesCategoriesSurfaceArea, formstate.CurrentStep(h.log))
}

func TestSingleCategoryShortcut(t *testing.T) {
	h := newHarness(t, fricheSite())

	events := h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.GreenSpaces},
	})

	sets := ofKind(events, event.KindAnswerSet)
	require.Len(t, sets, 2)
	assert.Equal(t, event.SourceUser, sets[0].Source)
	assert.Equal(t, event.SourceSystem, sets[1].Source)
	assert.Equal(t, step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{step.GreenSpaces: 10000},
	}, sets[1].Payload)
	assert.Equal(t, step.SpacesDevelopmentPlanIntroduction, formstate.CurrentStep(h.log))
	assert.Equal(t, step.SpacesCategoriesSelection, h.previous(step.SpacesDevelopmentPlanIntroduction))

	// Widening the selection drops the synthesized split.
	events = h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.GreenSpaces, step.PublicSpaces},
	})
	require.Len(t, ofKind(events, event.KindAnswerDeleted), 1)
	_, ok := formstate.LatestAnswer(h.log, step.SpacesCategoriesSurfaceArea)
	assert.False(t, ok)
	assert.Equal(t, step.SpacesCategoriesSurfaceArea, formstate.CurrentStep(h.log))
}

func TestSingleCategoryTakesOverEqualUserSplit(t *testing.T) {
	h := newHarness(t, fricheSite())
	h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.GreenSpaces, step.PublicSpaces},
	})
	h.complete(step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{step.GreenSpaces: 10000},
	})

	events := h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.GreenSpaces},
	})

	sets := ofKind(events, event.KindAnswerSet)
	require.Len(t, sets, 2)
	assert.Equal(t, step.SpacesCategoriesSurfaceArea, sets[1].StepID)
	assert.Equal(t, event.SourceSystem, sets[1].Source)
	assert.Empty(t, ofKind(events, event.KindAnswerDeleted))
	assert.True(t, formstate.SingleCategoryShortcut(h.log))
	assert.Equal(t, step.SpacesDevelopmentPlanIntroduction, formstate.CurrentStep(h.log))
}

func TestSelectionRejectsUnknownCategory(t *testing.T) {
	h := newHarness(t, fricheSite())
	events, err := h.answerHandler(step.SpacesCategoriesSelection).Complete(h.env, h.log,
		step.SpacesCategoriesSelectionAnswers{SpacesCategories: []step.SpaceCategory{step.GreenSpaces, "PARKING"}})

	require.ErrorIs(t, err, ErrInvalidAnswer)
	require.Empty(t, events)
}

func TestSingleCategoryWithoutSiteSurface(t *testing.T) {
	s := fricheSite()
	s.SurfaceArea = 0
	h := newHarness(t, s)

	events := h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.UrbanFarm},
	})

	require.Len(t, ofKind(events, event.KindAnswerSet), 1)
	assert.Equal(t, step.SpacesCategoriesSurfaceArea, formstate.CurrentStep(h.log))
}

func TestDecontaminationPlanDerivesSurface(t *testing.T) {
	tests := []struct {
		name        string
		plan        step.DecontaminationPlan
		wantSurface float64
		synthesized bool
		next        step.ID
	}{
		{name: "none", plan: step.DecontaminationNone, wantSurface: 0, synthesized: true, next: step.StakeholdersIntroduction},
		{name: "unknown", plan: step.DecontaminationUnknown, wantSurface: 500, synthesized: true, next: step.StakeholdersIntroduction},
		{name: "partial", plan: step.DecontaminationPartial, next: step.SoilsDecontaminationSurfaceArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, fricheSite())
			events := h.complete(step.SoilsDecontaminationSelectionAnswers{DecontaminationPlan: tt.plan})

			surface, ok := formstate.DecontaminatedSurface(h.log)
			require.Equal(t, tt.synthesized, ok)
			assert.Equal(t, tt.next, formstate.CurrentStep(h.log))
			if !tt.synthesized {
				require.Len(t, ofKind(events, event.KindAnswerSet), 1)
				return
			}
			assert.InDelta(t, tt.wantSurface, surface, 1e-9)
			assert.True(t, formstate.HasLastAnswerFromSystem(h.log, step.SoilsDecontaminationSurfaceArea))
			assert.Equal(t, step.SoilsDecontaminationSelection, h.previous(tt.next))
		})
	}
}

func TestInvalidDecontaminationPlanRecordsNothing(t *testing.T) {
	h := newHarness(t, fricheSite())
	events, err := h.answerHandler(step.SoilsDecontaminationSelection).Complete(h.env, h.log,
		step.SoilsDecontaminationSelectionAnswers{DecontaminationPlan: "everything"})

	require.ErrorIs(t, err, ErrInvalidAnswer)
	require.Empty(t, events)
}

func TestMissingDecontaminationPlanAsksForSurface(t *testing.T) {
	h := newHarness(t, fricheSite())
	h.complete(step.SoilsDecontaminationSelectionAnswers{})

	assert.Equal(t, step.SoilsDecontaminationSurfaceArea, formstate.CurrentStep(h.log))
	_, ok := formstate.DecontaminatedSurface(h.log)
	assert.False(t, ok)
}

func TestCompleteRejectsForeignAnswers(t *testing.T) {
	h := newHarness(t, fricheSite())
	naming := h.answerHandler(step.Naming)

	_, err := naming.Complete(h.env, h.log, step.ProjectPhaseAnswers{ProjectPhase: step.PhaseDesign})
	require.ErrorIs(t, err, ErrAnswerMismatch)

	_, err = naming.Complete(h.env, h.log, nil)
	require.ErrorIs(t, err, ErrInvalidAnswer)

	var missing *step.NamingAnswers
	events, err := naming.Complete(h.env, h.log, missing)
	require.ErrorIs(t, err, ErrInvalidAnswer)
	require.Empty(t, events)
}

func TestCompleteStoresValuePayloads(t *testing.T) {
	h := newHarness(t, fricheSite())
	events := h.complete(&step.NamingAnswers{Name: "Éco-quartier"})

	require.Equal(t, step.NamingAnswers{Name: "Éco-quartier"}, events[0].Payload)
}

func TestIdenticalCompletionOnlyNavigates(t *testing.T) {
	h := newHarness(t, fricheSite())
	h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.GreenSpaces, step.PublicSpaces},
	})

	events := h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.PublicSpaces, step.GreenSpaces},
	})

	require.Len(t, events, 1)
	assert.Equal(t, event.KindStepNavigated, events[0].Kind)
	assert.Equal(t, step.SpacesCategoriesSurfaceArea, events[0].StepID)
}

func TestLoadIsIdempotent(t *testing.T) {
	h := newHarness(t, fricheSite())

	events := h.load(step.Naming)
	require.Len(t, events, 1)
	assert.Equal(t, event.SourceSystem, events[0].Source)
	assert.Equal(t, step.NamingAnswers{Name: "Projet urbain - Friche des Tanneries"}, events[0].Payload)

	require.Empty(t, h.load(step.Naming))

	h.complete(step.NamingAnswers{Name: "Les Tanneries"})
	require.Empty(t, h.load(step.Naming))
	got, _ := formstate.Answer[step.NamingAnswers](h.log)
	assert.Equal(t, "Les Tanneries", got.Name)
}

func TestLoadWithoutDefaults(t *testing.T) {
	h := newHarness(t, fricheSite())
	require.Empty(t, h.load(step.ProjectPhase))

	s := fricheSite()
	s.SurfaceArea = 0
	empty := newHarness(t, s)
	require.Empty(t, empty.load(step.ExpensesInstallation))
}

func TestScheduleDefaults(t *testing.T) {
	friche := newHarness(t, fricheSite())
	friche.load(step.ScheduleProjection)
	got, ok := formstate.Answer[step.ScheduleProjectionAnswers](friche.log)
	require.True(t, ok)
	require.NotNil(t, got.ReinstatementSchedule)
	assert.Equal(t, 2029, got.FirstYearOfOperation)

	greenfield := newHarness(t, greenfieldSite())
	greenfield.load(step.ScheduleProjection)
	got, ok = formstate.Answer[step.ScheduleProjectionAnswers](greenfield.log)
	require.True(t, ok)
	assert.Nil(t, got.ReinstatementSchedule)
	require.NotNil(t, got.InstallationSchedule)
}

// splitSite records a two category split and loads the expense defaults
// derived from it.
func splitSite(t *testing.T, mode Invalidation) *harness {
	t.Helper()
	h := newHarness(t, fricheSite())
	h.env.Invalidation = mode
	h.complete(step.SpacesCategoriesSelectionAnswers{
		SpacesCategories: []step.SpaceCategory{step.LivingAndActivitySpaces, step.GreenSpaces},
	})
	h.complete(step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{
			step.LivingAndActivitySpaces: 6000,
			step.GreenSpaces:             4000,
		},
	})
	require.Len(t, h.load(step.ExpensesInstallation), 1)
	require.Len(t, h.load(step.ExpensesReinstatement), 1)
	return h
}

func resplit(h *harness) []event.Event {
	h.t.Helper()
	return h.complete(step.SpacesCategoriesSurfaceAreaAnswers{
		SpacesCategoriesDistribution: map[step.SpaceCategory]float64{
			step.LivingAndActivitySpaces: 5000,
			step.GreenSpaces:             5000,
		},
	})
}

func TestSurfaceChangeDeletesSystemExpenses(t *testing.T) {
	h := splitSite(t, InvalidationDelete)

	events := resplit(h)
	deleted := ofKind(events, event.KindAnswerDeleted)
	require.Len(t, deleted, 2)
	assert.Equal(t, step.ExpensesInstallation, deleted[0].StepID)
	assert.Equal(t, step.ExpensesReinstatement, deleted[1].StepID)

	_, ok := formstate.LatestAnswer(h.log, step.ExpensesInstallation)
	require.False(t, ok)

	reloaded := h.load(step.ExpensesInstallation)
	require.Len(t, reloaded, 1)
	assert.Equal(t, step.InstallationExpensesAnswers{
		InstallationExpenses: calc.Default{}.InstallationExpenses(10000),
	}, reloaded[0].Payload)
}

func TestSurfaceChangeKeepsUserExpenses(t *testing.T) {
	h := splitSite(t, InvalidationDelete)
	h.complete(step.InstallationExpensesAnswers{
		InstallationExpenses: []step.Expense{{Purpose: "development_works", Amount: 120000}},
	})

	events := resplit(h)
	deleted := ofKind(events, event.KindAnswerDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, step.ExpensesReinstatement, deleted[0].StepID)
	assert.False(t, formstate.HasLastAnswerFromSystem(h.log, step.ExpensesInstallation))
}

func TestSurfaceChangeMarksSystemExpensesStale(t *testing.T) {
	h := splitSite(t, InvalidationMarkStale)

	events := resplit(h)
	require.Len(t, ofKind(events, event.KindInvalidStep), 2)
	require.Empty(t, ofKind(events, event.KindAnswerDeleted))
	require.True(t, formstate.IsStale(h.log, step.ExpensesInstallation))

	stale, ok := formstate.LatestAnswer(h.log, step.ExpensesInstallation)
	require.True(t, ok)

	// A stale answer is reloaded, and resubmitting it records it again.
	require.Len(t, h.load(step.ExpensesInstallation), 1)
	require.False(t, formstate.IsStale(h.log, step.ExpensesInstallation))

	require.Empty(t, ofKind(resplit(h), event.KindInvalidStep))

	h.apply([]event.Event{event.InvalidStep(step.ExpensesInstallation, testStart.Add(time.Hour))})
	events = h.complete(stale)
	require.Len(t, ofKind(events, event.KindAnswerSet), 1)
	require.False(t, formstate.IsStale(h.log, step.ExpensesInstallation))
}

func TestTimestampsNeverGoBackwards(t *testing.T) {
	h := newHarness(t, fricheSite())
	late := testStart.Add(2 * time.Hour)
	h.apply([]event.Event{event.StepNavigated(step.Naming, late)})

	events := h.complete(step.NamingAnswers{Name: "Les Tanneries"})
	for _, e := range events {
		assert.False(t, e.Timestamp.Before(late), "%s at %s", e.Kind, e.Timestamp)
	}
	assert.Equal(t, step.FinalSummary, formstate.CurrentStep(h.log))
}

func TestResaleSelectionsFillStakeholders(t *testing.T) {
	h := newHarness(t, fricheSite())

	h.complete(step.SiteResaleSelectionAnswers{
		SiteResalePlannedAfterDevelopment: false,
		FutureSiteOwner:                   &step.Stakeholder{Name: "Quelqu'un", StructureType: "company"},
	})
	kept, _ := formstate.Answer[step.SiteResaleSelectionAnswers](h.log)
	assert.Nil(t, kept.FutureSiteOwner)

	h.complete(step.SiteResaleSelectionAnswers{SiteResalePlannedAfterDevelopment: true})
	sold, _ := formstate.Answer[step.SiteResaleSelectionAnswers](h.log)
	require.NotNil(t, sold.FutureSiteOwner)
	assert.Equal(t, "Futur propriétaire inconnu", sold.FutureSiteOwner.Name)

	developer := &step.Stakeholder{Name: "Aménageur SA", StructureType: "company"}
	h.complete(step.ProjectDeveloperAnswers{ProjectDeveloper: developer})
	h.complete(step.BuildingsResaleSelectionAnswers{BuildingsResalePlannedAfterDevelopment: false})
	operated, _ := formstate.Answer[step.BuildingsResaleSelectionAnswers](h.log)
	assert.Nil(t, operated.FutureOperator)

	h.complete(step.BuildingsResaleSelectionAnswers{BuildingsResalePlannedAfterDevelopment: true})
	resold, _ := formstate.Answer[step.BuildingsResaleSelectionAnswers](h.log)
	require.NotNil(t, resold.FutureOperator)
	assert.Equal(t, "Futur exploitant inconnu", resold.FutureOperator.Name)

	data := formstate.BuildProjectData(h.log, h.env.Calc)
	assert.Empty(t, cmp.Diff(sold.FutureSiteOwner, data.FutureSiteOwner))
	assert.Empty(t, cmp.Diff(resold.FutureOperator, data.FutureOperator))
}
