package calc

import "github.com/kingrea/urbanwizard/internal/step"

const (
	unknownStructure      = "unknown"
	unknownFutureOwner    = "Futur propriétaire inconnu"
	unknownFutureOperator = "Futur exploitant inconnu"
)

// FutureSiteOwner returns who owns the site once the project is delivered.
func (Default) FutureSiteOwner(resalePlanned bool, currentOwner *step.Stakeholder) *step.Stakeholder {
	if resalePlanned {
		return &step.Stakeholder{Name: unknownFutureOwner, StructureType: unknownStructure}
	}
	return cloneStakeholder(currentOwner)
}

// FutureOperator returns who operates the buildings once they are delivered.
func (Default) FutureOperator(resalePlanned bool, developer *step.Stakeholder) *step.Stakeholder {
	if resalePlanned {
		return &step.Stakeholder{Name: unknownFutureOperator, StructureType: unknownStructure}
	}
	return cloneStakeholder(developer)
}

func cloneStakeholder(s *step.Stakeholder) *step.Stakeholder {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}
