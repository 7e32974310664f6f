// Package prompts holds the language-model prompt templates.
// Templates are data: the defaults are embedded, and a YAML file can
// override any of them without a rebuild.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_prompts.yaml
var defaultPromptsYAML []byte

// Set is the full collection of templates the service renders.
type Set struct {
	Decompose      string `yaml:"decompose"`
	Generate       string `yaml:"generate"`
	Rate           string `yaml:"rate"`
	ExampleArticle string `yaml:"example_article"`
}

// Defaults returns the embedded template set.
func Defaults() (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(defaultPromptsYAML, &s); err != nil {
		return nil, fmt.Errorf("parse default prompts: %w", err)
	}
	s.trim()
	return &s, nil
}

// Load returns the defaults overlaid with any keys present in the YAML file
// at path. An empty path means defaults only.
func Load(path string) (*Set, error) {
	s, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file %q: %w", path, err)
	}
	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse prompts file %q: %w", path, err)
	}
	override.trim()

	if override.Decompose != "" {
		s.Decompose = override.Decompose
	}
	if override.Generate != "" {
		s.Generate = override.Generate
	}
	if override.Rate != "" {
		s.Rate = override.Rate
	}
	if override.ExampleArticle != "" {
		s.ExampleArticle = override.ExampleArticle
	}
	return s, nil
}

func (s *Set) trim() {
	s.Decompose = strings.TrimSpace(s.Decompose)
	s.Generate = strings.TrimSpace(s.Generate)
	s.Rate = strings.TrimSpace(s.Rate)
	s.ExampleArticle = strings.TrimSpace(s.ExampleArticle)
}

// RenderDecompose fills the proposition decomposition template.
func (s *Set) RenderDecompose(content string) string {
	return render(s.Decompose, map[string]string{"content": content})
}

// RenderGenerate fills the article generation template.
func (s *Set) RenderGenerate(companyInfo, prompt string) string {
	return render(s.Generate, map[string]string{
		"article_template": s.ExampleArticle,
		"company_info":     companyInfo,
		"prompt":           prompt,
	})
}

// RenderRate fills the article rating template.
func (s *Set) RenderRate(article string) string {
	return render(s.Rate, map[string]string{"article": article})
}

// render substitutes {name} placeholders in a single pass, so braces inside
// the substituted values are never expanded again.
func render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
