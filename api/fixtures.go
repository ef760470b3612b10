package api

import (
	"github.com/dreamerjackson/salesintel/record"
	"github.com/dreamerjackson/salesintel/store"
)

// Static dashboard payloads. Only the store counts are live.

func overviewFixture(c store.Counts) map[string]interface{} {
	return map[string]interface{}{
		"total_companies":    1247 + c.Companies,
		"active_deals":       89,
		"pipeline_value":     4250000,
		"win_rate":           32.5,
		"intelligence_items": c.Intelligence,
		"deals_tracked":      c.Deals,
		"alerts": []map[string]interface{}{
			{"type": "funding", "message": "Acme Corp raised a $25M Series B", "priority": "high"},
			{"type": "hiring", "message": "Globex is hiring 12 sales engineers", "priority": "medium"},
		},
	}
}

func dealsFixture() []record.Record {
	return []record.Record{
		{
			"id":          "deal-001",
			"company":     "Acme Corp",
			"stage":       "negotiation",
			"value":       250000,
			"probability": 75,
			"close_date":  "2024-04-15",
		},
		{
			"id":          "deal-002",
			"company":     "Globex",
			"stage":       "proposal",
			"value":       180000,
			"probability": 50,
			"close_date":  "2024-05-01",
		},
		{
			"id":          "deal-003",
			"company":     "Initech",
			"stage":       "discovery",
			"value":       95000,
			"probability": 20,
			"close_date":  "2024-06-30",
		},
	}
}

func companyFixture(id string) map[string]interface{} {
	return map[string]interface{}{
		"company_id": id,
		"news": []map[string]interface{}{
			{"title": "Quarterly revenue up 18%", "source": "Business Wire", "sentiment": "positive"},
			{"title": "New VP of Sales appointed", "source": "LinkedIn", "sentiment": "neutral"},
		},
		"technologies":   []string{"Salesforce", "HubSpot", "Snowflake"},
		"employee_count": 850,
		"growth_signals": []string{"hiring", "funding", "expansion"},
		"buying_intent":  "high",
	}
}
