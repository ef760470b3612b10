package tasklib

import (
	"github.com/dreamerjackson/salesintel/tasklib/company"
	"github.com/dreamerjackson/salesintel/tasklib/news"
	"github.com/dreamerjackson/salesintel/template"
)

// DefaultFeedTemplate seeds the intelligence feed when it is empty.
var DefaultFeedTemplate = news.GoogleNewsTask.Name

func Templates() []*template.Template {
	return []*template.Template{
		news.GoogleNewsTask,
		news.TechCrunchTask,
		company.CrunchbaseTask,
		company.LinkedInTask,
	}
}

// Seed registers the built-in templates, then the extra ones in order so
// that a config entry can replace a built-in of the same name.
func Seed(r *template.Registry, extra ...*template.Template) {
	for _, t := range Templates() {
		r.Put(t.Name, t)
	}
	for _, t := range extra {
		r.Put(t.Name, t)
	}
}
