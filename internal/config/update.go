package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AddRepo appends repo to git.repos in the config file at configPath.
// YAML files are edited in place so comments and layout survive; TOML
// files are decoded, updated and rewritten, which drops comments and
// writes out every key with its current value. It reports whether the file
// changed: a path already listed (after expansion) is left alone.
func AddRepo(configPath, repo string) (bool, error) {
	if FormatFor(configPath) == FormatYAML {
		return addRepoYAML(configPath, repo)
	}
	return addRepoTOML(configPath, repo)
}

func addRepoTOML(configPath, repo string) (bool, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config file: %w", err)
	}
	if containsRepo(cfg.Git.Repos, repo) {
		return false, nil
	}
	cfg.Git.Repos = append(cfg.Git.Repos, repo)

	if err := Save(configPath, cfg); err != nil {
		return false, err
	}
	return true, nil
}

func addRepoYAML(configPath, repo string) (bool, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse as yaml.Node to preserve structure
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return false, fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind == 0 {
		// Empty file.
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mappingNode()}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return false, fmt.Errorf("invalid YAML document structure")
	}

	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return false, fmt.Errorf("expected mapping at document root")
	}

	gitNode := findMapValue(docNode, "git")
	if gitNode == nil {
		gitNode = mappingNode()
		docNode.Content = append(docNode.Content, scalarNode("git"), gitNode)
	}
	if gitNode.Kind != yaml.MappingNode {
		return false, fmt.Errorf("'git' must be a mapping")
	}

	reposNode := findMapValue(gitNode, "repos")
	if reposNode == nil {
		reposNode = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		gitNode.Content = append(gitNode.Content, scalarNode("repos"), reposNode)
	}
	if reposNode.Kind != yaml.SequenceNode {
		return false, fmt.Errorf("'git.repos' must be a list")
	}

	existing := make([]string, 0, len(reposNode.Content))
	for _, item := range reposNode.Content {
		if item.Kind == yaml.ScalarNode {
			existing = append(existing, item.Value)
		}
	}
	if containsRepo(existing, repo) {
		return false, nil
	}
	// A flow-style empty list ("repos: []") would keep rendering inline.
	reposNode.Style = 0
	reposNode.Content = append(reposNode.Content, scalarNode(repo))

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return false, fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// containsRepo compares the way Normalize dedupes, so "repo" and "./repo"
// are the same entry.
func containsRepo(repos []string, repo string) bool {
	want := filepath.Clean(ExpandPath(repo))
	for _, r := range repos {
		if filepath.Clean(ExpandPath(r)) == want {
			return true
		}
	}
	return false
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
