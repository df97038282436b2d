package scoring

import "testing"

func TestFallbackScore(t *testing.T) {
	tests := []struct {
		name string
		lead LeadFacts
		want int
	}{
		{name: "no facts", lead: LeadFacts{Name: "Anon"}, want: 50},
		{name: "all bonuses clamp to 100", lead: LeadFacts{Company: "Acme Inc", Title: "CEO", RecentActivity: "posted"}, want: 100},
		{name: "company without suffix", lead: LeadFacts{Company: "Acme"}, want: 60},
		{name: "corp suffix case insensitive", lead: LeadFacts{Company: "MEGACORP"}, want: 70},
		{name: "ltd suffix", lead: LeadFacts{Company: "Widgets Ltd"}, want: 70},
		{name: "founder", lead: LeadFacts{Title: "Co-Founder"}, want: 70},
		{name: "president", lead: LeadFacts{Title: "President"}, want: 70},
		{name: "vp", lead: LeadFacts{Title: "VP Sales"}, want: 65},
		{name: "director", lead: LeadFacts{Title: "Director of Ops"}, want: 65},
		{name: "head", lead: LeadFacts{Title: "Head of Growth"}, want: 65},
		{name: "manager", lead: LeadFacts{Title: "Account Manager"}, want: 60},
		{name: "lead", lead: LeadFacts{Title: "Tech Lead"}, want: 60},
		{name: "first tier wins", lead: LeadFacts{Title: "Founder and Head of Product"}, want: 70},
		{name: "unmatched title", lead: LeadFacts{Title: "Engineer"}, want: 50},
		{name: "activity only", lead: LeadFacts{RecentActivity: "commented"}, want: 65},
		{name: "director at corp with activity", lead: LeadFacts{Company: "Big Corp", Title: "Director", RecentActivity: "x"}, want: 100},
		{name: "manager at plain company with activity", lead: LeadFacts{Company: "Shop", Title: "Manager", RecentActivity: "x"}, want: 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackScore(tt.lead); got != tt.want {
				t.Fatalf("FallbackScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFallbackScoreIsDeterministic(t *testing.T) {
	lead := LeadFacts{Company: "Acme Inc", Title: "VP", RecentActivity: "posted"}
	first := FallbackScore(lead)
	for range 10 {
		if got := FallbackScore(lead); got != first {
			t.Fatalf("expected stable score %d, got %d", first, got)
		}
	}
}

func TestClassifyPartitionsScores(t *testing.T) {
	d := Classify([]int{100, 80, 79, 50, 49, 1})
	if d.High != 2 || d.Medium != 2 || d.Low != 2 {
		t.Fatalf("unexpected distribution %+v", d)
	}
}
