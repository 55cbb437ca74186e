// Package calc holds the pure computations the wizard uses to synthesize
// default answers: expenses, soils distribution, stakeholders, names and
// schedules. Nothing in this package reads the event log.
package calc

import (
	"time"

	"github.com/kingrea/urbanwizard/internal/step"
)

// Calculator is the set of computations step handlers depend on.
type Calculator interface {
	InstallationExpenses(siteSurfaceArea float64) []step.Expense
	ReinstatementExpenses(siteSoils, projectSoils map[step.SoilType]float64, decontaminatedSurface float64) []step.Expense
	SoilsDistribution(categories []CategorySpaces) map[step.SoilType]float64
	FutureSiteOwner(resalePlanned bool, currentOwner *step.Stakeholder) *step.Stakeholder
	FutureOperator(resalePlanned bool, developer *step.Stakeholder) *step.Stakeholder
	ProjectName(siteName string) string
	Schedule(now time.Time, brownfield bool) step.ScheduleProjectionAnswers
}

// Default is the reference Calculator.
type Default struct{}

var _ Calculator = Default{}
