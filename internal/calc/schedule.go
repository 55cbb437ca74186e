package calc

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/urbanwizard/internal/step"
)

const defaultProjectName = "Projet urbain"

// ProjectName proposes a name for the project.
func (Default) ProjectName(siteName string) string {
	siteName = strings.TrimSpace(siteName)
	if siteName == "" {
		return defaultProjectName
	}
	return fmt.Sprintf("%s - %s", defaultProjectName, siteName)
}

// Schedule proposes works schedules starting the year after now. Brownfield
// sites get a reinstatement year before installation.
func (Default) Schedule(now time.Time, brownfield bool) step.ScheduleProjectionAnswers {
	year := now.Year() + 1
	var out step.ScheduleProjectionAnswers
	if brownfield {
		out.ReinstatementSchedule = yearSchedule(year)
		year++
	}
	out.InstallationSchedule = yearSchedule(year)
	out.FirstYearOfOperation = year + 1
	return out
}

func yearSchedule(year int) *step.Schedule {
	return &step.Schedule{
		StartDate: fmt.Sprintf("%04d-01-01", year),
		EndDate:   fmt.Sprintf("%04d-12-31", year),
	}
}
