package company

import "github.com/dreamerjackson/salesintel/template"

var CrunchbaseTask = &template.Template{
	Name:     "crunchbase_company",
	Category: "company",
	Source: template.CrawlerSource{
		URLPattern: "https://www.crunchbase.com/organization/{company_slug}",
		Selectors: map[string]string{
			"name":        "h1.profile-name",
			"description": ".description",
			"industry":    ".industry-tags a",
			"location":    ".location-identifier",
			"founded":     ".founded-date",
		},
	},
}

var LinkedInTask = &template.Template{
	Name:     "linkedin_company",
	Category: "company",
	Source: template.CrawlerSource{
		URLPattern: "https://www.linkedin.com/company/{company_slug}",
		Selectors: map[string]string{
			"name":      "h1",
			"tagline":   ".org-top-card-summary__tagline",
			"industry":  ".org-top-card-summary-info-list__info-item",
			"followers": ".org-top-card-summary-info-list__info-item:nth-child(2)",
		},
	},
}
