package main

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/portfolio/pkg/analysis"
	"github.com/artem13815/portfolio/pkg/portfolio"
	"github.com/artem13815/portfolio/pkg/resume"
)

func sampleRecord() portfolio.Record {
	return portfolio.Record{
		ID:         uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Profile:    resume.Profile{FullName: "Jane Doe", Email: "jane@example.com"},
		Assessment: analysis.Assessment{Score: 64},
	}
}

func TestPrintRecordYAMLUsesAPIKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, sampleRecord(), "yaml"))
	assert.Contains(t, buf.String(), "fullName: Jane Doe")
	assert.Contains(t, buf.String(), "score: 64")
}

func TestPrintRecordJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, sampleRecord(), "json"))
	assert.Contains(t, buf.String(), `"fullName": "Jane Doe"`)
}

func TestPrintRecordUnknownFormat(t *testing.T) {
	assert.Error(t, printRecord(&bytes.Buffer{}, sampleRecord(), "xml"))
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "identity", "ingest"})
}
