// Package techicon maps free-form technology names to Devicon logos.
package techicon

import (
	"strings"
	"unicode"
)

const (
	baseURL = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons"
	// Fallback is served when a technology has no known icon.
	Fallback = "/tech.svg"
	// MaxDisplayed is how many icons a card shows.
	MaxDisplayed = 3
)

// mappings keys are already normalized (lowercase, no ".js" suffix, no spaces).
var mappings = map[string]string{
	"react":             "react",
	"reactjs":           "react",
	"next":              "nextjs",
	"nextjs":            "nextjs",
	"vue":               "vuejs",
	"vuejs":             "vuejs",
	"express":           "express",
	"expressjs":         "express",
	"node":              "nodejs",
	"nodejs":            "nodejs",
	"mongodb":           "mongodb",
	"mongo":             "mongodb",
	"mongoose":          "mongoose",
	"mysql":             "mysql",
	"postgresql":        "postgresql",
	"postgres":          "postgresql",
	"sqlite":            "sqlite",
	"firebase":          "firebase",
	"docker":            "docker",
	"kubernetes":        "kubernetes",
	"aws":               "amazonwebservices",
	"amazonwebservices": "amazonwebservices",
	"azure":             "azure",
	"gcp":               "googlecloud",
	"googlecloud":       "googlecloud",
	"digitalocean":      "digitalocean",
	"heroku":            "heroku",
	"photoshop":         "photoshop",
	"adobephotoshop":    "photoshop",
	"html5":             "html5",
	"html":              "html5",
	"css3":              "css3",
	"css":               "css3",
	"sass":              "sass",
	"scss":              "sass",
	"less":              "less",
	"tailwindcss":       "tailwindcss",
	"tailwind":          "tailwindcss",
	"bootstrap":         "bootstrap",
	"jquery":            "jquery",
	"typescript":        "typescript",
	"ts":                "typescript",
	"javascript":        "javascript",
	"js":                "javascript",
	"angular":           "angularjs",
	"angularjs":         "angularjs",
	"svelte":            "svelte",
	"redux":             "redux",
	"graphql":           "graphql",
	"apollo":            "apollographql",
	"git":               "git",
	"github":            "github",
	"gitlab":            "gitlab",
	"bitbucket":         "bitbucket",
	"figma":             "figma",
	"prisma":            "prisma",
	"redis":             "redis",
	"jest":              "jest",
	"go":                "go",
	"golang":            "go",
	"python":            "python",
	"django":            "django",
	"flask":             "flask",
	"java":              "java",
	"spring":            "spring",
	"kotlin":            "kotlin",
	"swift":             "swift",
	"rust":              "rust",
	"ruby":              "ruby",
	"rails":             "rails",
	"php":               "php",
	"laravel":           "laravel",
	"csharp":            "csharp",
	"c#":                "csharp",
	"dotnet":            "dot-net",
	".net":              "dot-net",
	"c++":               "cplusplus",
	"cplusplus":         "cplusplus",
	"linux":             "linux",
	"nginx":             "nginx",
	"vercel":            "vercel",
}

// Logo is a technology name paired with its icon URL.
type Logo struct {
	Tech string `json:"tech"`
	URL  string `json:"url"`
}

// Normalize returns the Devicon slug for tech, or "" when unknown.
func Normalize(tech string) string {
	key := strings.TrimSuffix(strings.ToLower(tech), ".js")
	key = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, key)
	return mappings[key]
}

// URL builds the Devicon URL for tech, falling back to the generic icon.
func URL(tech string) string {
	slug := Normalize(tech)
	if slug == "" {
		return Fallback
	}
	return baseURL + "/" + slug + "/" + slug + "-original.svg"
}

// Logos resolves at most MaxDisplayed icons, in input order.
func Logos(techs []string) []Logo {
	n := min(len(techs), MaxDisplayed)
	out := make([]Logo, 0, n)
	for _, t := range techs[:n] {
		out = append(out, Logo{Tech: t, URL: URL(t)})
	}
	return out
}
