package main

import (
	"os"
	"path/filepath"
	"testing"

	"heyjarvis_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtureDefaultsToBundledLeads(t *testing.T) {
	req, err := loadFixture("")
	require.NoError(t, err)

	assert.Equal(t, domain.LeadSourceLinkedIn, req.Source)
	require.Len(t, req.Leads, 5)
	assert.Equal(t, "Sarah Chen", req.Leads[0].Name)
	require.NotNil(t, req.Leads[0].Company)
	assert.Equal(t, "Northwind Analytics", *req.Leads[0].Company)
	assert.Nil(t, req.Leads[3].Email)
	assert.Nil(t, req.Leads[4].Company)
}

func TestParseFixtureDefaultsSourceToCSV(t *testing.T) {
	req, err := parseFixture([]byte("leads:\n  - name: Ada\n    rawData:\n      seats: 12\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.LeadSourceCSV, req.Source)
	require.Len(t, req.Leads, 1)
	assert.Equal(t, 12, req.Leads[0].RawData["seats"])
	assert.Nil(t, req.Leads[0].Title)
}

func TestLoadFixtureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: hubspot\nleads:\n  - name: Grace\n"), 0o600))

	req, err := loadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadSourceHubSpot, req.Source)
	assert.Equal(t, "Grace", req.Leads[0].Name)
}

func TestParseFixtureRejectsMalformedYAML(t *testing.T) {
	_, err := parseFixture([]byte("leads: [unterminated"))
	assert.Error(t, err)
}
