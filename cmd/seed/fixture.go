package main

import (
	_ "embed"
	"fmt"
	"os"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/leads/transport"

	"gopkg.in/yaml.v3"
)

//go:embed leads.yaml
var defaultFixture []byte

type fixture struct {
	Source string        `yaml:"source"`
	Leads  []fixtureLead `yaml:"leads"`
}

type fixtureLead struct {
	Name           string         `yaml:"name"`
	Company        string         `yaml:"company"`
	Title          string         `yaml:"title"`
	Email          string         `yaml:"email"`
	ProfileURL     string         `yaml:"profileUrl"`
	RecentActivity string         `yaml:"recentActivity"`
	RawData        map[string]any `yaml:"rawData"`
}

// loadFixture reads the fixture at path, or the bundled one when path is empty.
func loadFixture(path string) (transport.ImportLeadsRequest, error) {
	data := defaultFixture
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return transport.ImportLeadsRequest{}, err
		}
		data = raw
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (transport.ImportLeadsRequest, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return transport.ImportLeadsRequest{}, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Source == "" {
		f.Source = string(domain.LeadSourceCSV)
	}

	req := transport.ImportLeadsRequest{
		Source: domain.LeadSource(f.Source),
		Leads:  make([]transport.ImportLeadInput, 0, len(f.Leads)),
	}
	for _, l := range f.Leads {
		req.Leads = append(req.Leads, transport.ImportLeadInput{
			Name:           l.Name,
			Company:        optional(l.Company),
			Title:          optional(l.Title),
			Email:          optional(l.Email),
			ProfileURL:     optional(l.ProfileURL),
			RecentActivity: optional(l.RecentActivity),
			RawData:        l.RawData,
		})
	}
	return req, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
