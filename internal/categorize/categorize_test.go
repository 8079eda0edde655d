package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/codescan/internal/analyze"
	"github.com/mkarlsen/codescan/internal/report"
)

func classResult(classes map[string]*analyze.ClassInfo) *analyze.Result {
	return &analyze.Result{
		Language:  "python",
		Functions: []string{},
		Classes:   classes,
		Routes:    []analyze.Route{},
	}
}

func TestApply_Maturity(t *testing.T) {
	base := "BaseAgent"
	rep := report.New()
	rep.Set("agents.py", classResult(map[string]*analyze.ClassInfo{
		"Bare": {Methods: []string{}, BaseClasses: []*string{}},
		"Documented": {
			Methods:     []string{"run"},
			Docstring:   "Does one thing.",
			BaseClasses: []*string{},
		},
		"Full": {
			Methods:     []string{"run", "stop", "status"},
			Docstring:   "Managed lifecycle.",
			BaseClasses: []*string{&base},
		},
	}))

	Apply(rep)

	res, ok := rep.Get("agents.py")
	require.True(t, ok)
	assert.Equal(t, MaturityPrototype, res.Classes["Bare"].Maturity)
	assert.Equal(t, MaturityDeveloping, res.Classes["Documented"].Maturity)
	assert.Equal(t, MaturityMature, res.Classes["Full"].Maturity)
}

func TestApply_AgentTypeFromNameAndBases(t *testing.T) {
	base := "scrapers.BaseScraper"
	rep := report.New()
	rep.Set("m.py", classResult(map[string]*analyze.ClassInfo{
		"NewsBot":    {Methods: []string{}, BaseClasses: []*string{}},
		"Harvester":  {Methods: []string{}, BaseClasses: []*string{&base}},
		"TaskWorker": {Methods: []string{}, BaseClasses: []*string{}},
		"Plain":      {Methods: []string{}, BaseClasses: []*string{nil}},
	}))

	Apply(rep)

	res, ok := rep.Get("m.py")
	require.True(t, ok)
	assert.Equal(t, "bot", res.Classes["NewsBot"].AgentType)
	assert.Equal(t, "scraper", res.Classes["Harvester"].AgentType, "base class names count")
	assert.Equal(t, "worker", res.Classes["TaskWorker"].AgentType)
	assert.Equal(t, "generic", res.Classes["Plain"].AgentType)
}

func TestApply_ClasslessFilesUntouched(t *testing.T) {
	rep := report.New()
	rep.Set("util.py", &analyze.Result{
		Language:  "python",
		Functions: []string{"helper"},
		Classes:   map[string]*analyze.ClassInfo{},
	})

	Apply(rep)

	res, ok := rep.Get("util.py")
	require.True(t, ok)
	assert.Equal(t, []string{"helper"}, res.Functions)
}
