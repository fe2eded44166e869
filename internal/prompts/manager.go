package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"mockinterview/api/internal/utils"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Prompt modes, one per template file.
const (
	ModeQuestion = "question"
	ModeFeedback = "feedback"
	ModeSummary  = "summary"
)

// DefaultVariant is used when the requested variant has no template.
const DefaultVariant = "default"

type PromptManager struct {
	prompts map[string]map[string]*template.Template // mode -> variant -> compiled prompt
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
}

// Data is the set of values a prompt template may reference.
type Data struct {
	Topic    string
	History  string
	Question string
	Answer   string
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]map[string]*template.Template),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt renders the prompt for mode, using the default variant when variant is unknown.
func (pm *PromptManager) BuildPrompt(mode, variant string, data Data) (string, error) {
	modePrompts, exists := pm.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	tmpl, exists := modePrompts[utils.NormalizeLevel(variant)]
	if !exists {
		tmpl, exists = modePrompts[DefaultVariant]
		if !exists {
			return "", fmt.Errorf("no default variant for mode '%s'", mode)
		}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", mode, err)
	}
	return strings.TrimSpace(out.String()), nil
}

// GetTemplates lists the loaded modes in sorted order.
func (pm *PromptManager) GetTemplates() []string {
	modes := make([]string, 0, len(pm.prompts))
	for mode := range pm.prompts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[name] = make(map[string]*template.Template)

		for variant, variantPrompt := range promptTemplate.Variants {
			var full strings.Builder
			if promptTemplate.BasePrompt != "" {
				full.WriteString(promptTemplate.BasePrompt)
				full.WriteString("\n")
			}
			full.WriteString(variantPrompt)

			tmpl, err := template.New(name + "/" + variant).Parse(full.String())
			if err != nil {
				return fmt.Errorf("failed to compile %s/%s: %w", name, variant, err)
			}
			pm.prompts[name][variant] = tmpl
		}
	}

	return nil
}
