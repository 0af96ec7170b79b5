package briefing

// WizardStep is one node in the linear step sequence. Steps are totally
// ordered; the current step is derived from the route alone so browser
// back/forward navigation stays consistent.
type WizardStep struct {
	Step  int    `json:"step"`
	Route string `json:"route"`
	Title string `json:"title"`
}

const (
	StepBasicInfo = 1
	StepAudience  = 2
	StepFilters   = 3
	StepReview    = 4
)

// Steps is the wizard's ordered step table.
var Steps = []WizardStep{
	{Step: StepBasicInfo, Route: "/briefing/basic", Title: "Informações Básicas"},
	{Step: StepAudience, Route: "/briefing/audience", Title: "Definição de Público"},
	{Step: StepFilters, Route: "/briefing/filters", Title: "Filtros Avançados"},
	{Step: StepReview, Route: "/briefing/review", Title: "Revisão e Geração"},
}

// CurrentStep maps a route to its step ordinal. Unknown routes default to the
// first step.
func CurrentStep(route string) int {
	for _, s := range Steps {
		if s.Route == route {
			return s.Step
		}
	}
	return StepBasicInfo
}

// StepByOrdinal returns the step with the given ordinal, or false when the
// ordinal is outside the table.
func StepByOrdinal(n int) (WizardStep, bool) {
	for _, s := range Steps {
		if s.Step == n {
			return s, true
		}
	}
	return WizardStep{}, false
}

// StepLink is a navigation entry with its gating state. Disabled links are a
// UI no-op, not an error; the guard is advisory and deep links to later steps
// must still be handled by the step itself as a data-availability condition.
type StepLink struct {
	WizardStep
	Enabled bool `json:"enabled"`
}

// StepLinks computes the navigation entries for the given state. The audience
// and insights entries stay disabled until a query has been generated in the
// session.
func StepLinks(data CampaignData) []StepLink {
	hasQuery := data.String(KeyGeneratedQuery) != ""
	links := make([]StepLink, 0, len(Steps))
	for _, s := range Steps {
		links = append(links, StepLink{WizardStep: s, Enabled: true})
	}
	links = append(links,
		StepLink{WizardStep: WizardStep{Step: len(Steps) + 1, Route: "/audience", Title: "Audiência"}, Enabled: hasQuery},
		StepLink{WizardStep: WizardStep{Step: len(Steps) + 2, Route: "/insights", Title: "Insights"}, Enabled: hasQuery},
	)
	return links
}
