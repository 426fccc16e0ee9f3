package main

import (
	"bytes"
	"testing"

	"footprint/pkg/domain"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestWriteOutcomes(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	report := &domain.Report{
		Identifier: "octocat",
		FoundCount: 1,
		Profiles:   []string{"https://github.com/octocat"},
		Outcomes: []domain.ProbeOutcome{
			{Target: domain.Target{ID: "github.com"}, URL: "https://github.com/octocat", Status: domain.ProbeStatusExists},
			{Target: domain.Target{ID: "gitlab.com"}, URL: "https://gitlab.com/octocat", Status: domain.ProbeStatusNotFound},
			{Target: domain.Target{ID: "medium.com"}, Status: domain.ProbeStatusTimeout, ErrorDetail: "overall deadline exceeded"},
		},
	}

	var short bytes.Buffer
	writeOutcomes(&short, report, false)
	require.Equal(t, "Searching username octocat\n"+
		"[+] github.com: https://github.com/octocat\n"+
		"Profiles found: 1\n", short.String())

	var full bytes.Buffer
	writeOutcomes(&full, report, true)
	require.Contains(t, full.String(), "[-] gitlab.com: Not found!\n")
	require.Contains(t, full.String(), "[!] medium.com: TIMEOUT: overall deadline exceeded\n")
}
