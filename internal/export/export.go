// Package export renders the project built by a wizard session as a Markdown
// document with YAML frontmatter. The frontmatter carries a checksum of the
// event log so an export can be told apart from a stale one.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kingrea/urbanwizard/internal/event"
	"github.com/kingrea/urbanwizard/internal/formstate"
	"github.com/kingrea/urbanwizard/internal/handler"
	"github.com/kingrea/urbanwizard/internal/step"
)

// Metadata is the provenance stored in the export frontmatter.
type Metadata struct {
	Session   string
	Name      string
	Site      string
	Phase     string
	Step      string
	Events    int
	CreatedAt time.Time
	Checksum  string
}

// Session is the part of a wizard session an export reads.
type Session interface {
	ID() string
	Log() event.Log
	CurrentStep() step.ID
	ProjectData() formstate.ProjectData
	Env() handler.Env
}

// State captures how an export on disk relates to the session log.
type State string

const (
	StateMissing State = "missing"
	StateCurrent State = "current"
	StateStale   State = "stale"
	StateInvalid State = "invalid"
)

// CheckResult is returned by Check.
type CheckResult struct {
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}

// Checksum hashes the JSON encoding of log.
func Checksum(log event.Log) (string, error) {
	data, err := json.Marshal(log)
	if err != nil {
		return "", fmt.Errorf("export: encode log: %w", err)
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Build renders the export document of s.
func Build(s Session, now time.Time) ([]byte, Metadata, error) {
	log := s.Log()
	checksum, err := Checksum(log)
	if err != nil {
		return nil, Metadata{}, err
	}
	data := s.ProjectData()
	siteData := s.Env().Site
	meta := Metadata{
		Session:   s.ID(),
		Name:      data.Name,
		Site:      siteData.Name,
		Phase:     string(data.ProjectPhase),
		Step:      string(s.CurrentStep()),
		Events:    log.Len(),
		CreatedAt: now.UTC(),
		Checksum:  checksum,
	}
	r := renderer{p: message.NewPrinter(language.English)}
	body := r.body(data, siteData.Name, siteData.SurfaceArea)
	doc, err := WriteFrontMatter(meta, body)
	if err != nil {
		return nil, Metadata{}, err
	}
	return doc, meta, nil
}

// Write stores doc at path through a temporary file in the same directory.
func Write(path string, doc []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// Check reports whether the export at path matches log.
func Check(path string, log event.Log) CheckResult {
	result := CheckResult{Path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.State = StateMissing
			return result
		}
		result.State = StateInvalid
		result.Err = err
		return result
	}
	meta, _, err := ParseFrontMatter(content)
	if err != nil {
		result.State = StateInvalid
		result.Err = err
		return result
	}
	result.Metadata = &meta
	checksum, err := Checksum(log)
	if err != nil {
		result.State = StateInvalid
		result.Err = err
		return result
	}
	if meta.Checksum != checksum {
		result.State = StateStale
		return result
	}
	result.State = StateCurrent
	return result
}

// renderer writes the Markdown body. Amounts go through p for digit grouping.
type renderer struct {
	p *message.Printer
}

func (r renderer) body(data formstate.ProjectData, siteName string, siteSurface float64) []byte {
	var b strings.Builder

	name := data.Name
	if name == "" {
		name = "Projet urbain"
	}
	fmt.Fprintf(&b, "# %s\n", name)
	if data.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", data.Description)
	}

	b.WriteString("\n## Site\n\n")
	if siteName != "" {
		fmt.Fprintf(&b, "- Site: %s (%s m²)\n", siteName, r.amount(siteSurface))
	}
	if data.ProjectPhase != "" {
		fmt.Fprintf(&b, "- Phase: %s\n", data.ProjectPhase)
	}
	if data.DecontaminatedSoilSurface != nil {
		fmt.Fprintf(&b, "- Decontaminated soil surface: %s m²\n", r.amount(*data.DecontaminatedSoilSurface))
	}

	writeTable(r, &b, "Spaces", "Space", data.DevelopmentPlan.Features.SpacesDistribution)
	writeTable(r, &b, "Buildings floor area", "Use", data.DevelopmentPlan.Features.BuildingsFloorAreaDistribution)
	writeTable(r, &b, "Soils", "Soil", data.SoilsDistribution)

	stakeholders := []struct {
		role string
		who  *step.Stakeholder
	}{
		{"Developer", data.DevelopmentPlan.Developer},
		{"Reinstatement contract owner", data.ReinstatementContractOwner},
		{"Future site owner", data.FutureSiteOwner},
		{"Future operator", data.FutureOperator},
	}
	var lines []string
	for _, s := range stakeholders {
		if s.who != nil && s.who.Name != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", s.role, s.who.Name, s.who.StructureType))
		}
	}
	writeSection(&b, "Stakeholders", lines)

	lines = nil
	if s := data.ReinstatementSchedule; s != nil {
		lines = append(lines, fmt.Sprintf("- Reinstatement: %s to %s", s.StartDate, s.EndDate))
	}
	if s := data.DevelopmentPlan.InstallationSchedule; s != nil {
		lines = append(lines, fmt.Sprintf("- Installation: %s to %s", s.StartDate, s.EndDate))
	}
	if data.OperationsFirstYear != nil {
		lines = append(lines, fmt.Sprintf("- First year of operations: %d", *data.OperationsFirstYear))
	}
	writeSection(&b, "Schedule", lines)

	lines = nil
	lines = r.appendAmount(lines, "Site purchase", data.SitePurchaseSellingPrice)
	lines = r.appendAmount(lines, "Site purchase transfer duties", data.SitePurchasePropertyTransferDuties)
	lines = r.appendExpenses(lines, "Reinstatement", data.ReinstatementCosts)
	lines = r.appendExpenses(lines, "Installation", data.DevelopmentPlan.Costs)
	lines = r.appendExpenses(lines, "Yearly operations", data.YearlyProjectedCosts)
	writeSection(&b, "Expenses", lines)

	lines = nil
	lines = r.appendAmount(lines, "Site resale", data.SiteResaleExpectedSellingPrice)
	lines = r.appendAmount(lines, "Site resale transfer duties", data.SiteResaleExpectedPropertyTransferDuties)
	lines = r.appendAmount(lines, "Buildings resale", data.BuildingsResaleSellingPrice)
	lines = r.appendAmount(lines, "Buildings resale transfer duties", data.BuildingsResalePropertyTransferDuties)
	lines = r.appendRevenues(lines, "Financial assistance", data.FinancialAssistanceRevenues)
	lines = r.appendRevenues(lines, "Yearly operations", data.YearlyProjectedRevenues)
	writeSection(&b, "Revenues", lines)

	return []byte(b.String())
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func writeTable[K ~string](r renderer, b *strings.Builder, title, column string, values map[K]float64) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n| %s | Surface (m²) |\n| --- | ---: |\n", title, column)
	var total float64
	for _, key := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(b, "| %s | %s |\n", key, r.amount(values[key]))
		total += values[key]
	}
	fmt.Fprintf(b, "| **Total** | **%s** |\n", r.amount(total))
}

func (r renderer) appendAmount(lines []string, label string, value *float64) []string {
	if value == nil {
		return lines
	}
	return append(lines, fmt.Sprintf("- %s: %s €", label, r.amount(*value)))
}

func (r renderer) appendExpenses(lines []string, label string, expenses []step.Expense) []string {
	if len(expenses) == 0 {
		return lines
	}
	var total float64
	var details []string
	for _, e := range expenses {
		total += e.Amount
		details = append(details, fmt.Sprintf("  - %s: %s €", e.Purpose, r.amount(e.Amount)))
	}
	lines = append(lines, fmt.Sprintf("- %s: %s €", label, r.amount(total)))
	return append(lines, details...)
}

func (r renderer) appendRevenues(lines []string, label string, revenues []step.Revenue) []string {
	if len(revenues) == 0 {
		return lines
	}
	var total float64
	var details []string
	for _, rev := range revenues {
		total += rev.Amount
		details = append(details, fmt.Sprintf("  - %s: %s €", rev.Source, r.amount(rev.Amount)))
	}
	lines = append(lines, fmt.Sprintf("- %s: %s €", label, r.amount(total)))
	return append(lines, details...)
}

func (r renderer) amount(v float64) string {
	return r.p.Sprintf("%.0f", v)
}
