package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where init writes the configuration.
const DefaultPath = ".docdeck.yml"

// docsDirCandidates are checked in order when guessing the docs directory.
var docsDirCandidates = []string{"docs", "doc", "documentation", "content"}

// detectDocsDir returns the first conventional docs directory that exists.
func detectDocsDir() string {
	for _, d := range docsDirCandidates {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			return d
		}
	}
	return "."
}

// inkColors are offered by the wizard's pen colour prompt.
var inkColors = []struct {
	Name string
	Hex  string
}{
	{"red", "#e53935"},
	{"blue", "#1e88e5"},
	{"green", "#43a047"},
	{"black", "#212121"},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docdeck! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()
	if wd, err := os.Getwd(); err == nil {
		cfg.ProjectName = filepath.Base(wd)
	}

	// 1. Project name.
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: cfg.ProjectName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.ProjectName = name

	// 2. Docs directory.
	docsPrompt := promptui.Prompt{
		Label:   "Markdown docs directory",
		Default: detectDocsDir(),
		Validate: func(s string) error {
			info, err := os.Stat(s)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("%s is not a directory", s)
			}
			return nil
		},
	}
	if cfg.DocsDir, err = docsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	// 5. Pen colour.
	names := make([]string, len(inkColors))
	for i, c := range inkColors {
		names[i] = fmt.Sprintf("%-6s %s", c.Name, c.Hex)
	}
	colorPrompt := promptui.Select{
		Label: "Pen colour",
		Items: names,
	}
	colorIdx, _, err := colorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pen colour: %w", err)
	}
	cfg.Ink.Color = inkColors[colorIdx].Hex

	// 6. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for docdeck serve",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
