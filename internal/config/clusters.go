package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

// clusterFile is the on-disk layout of a cluster table.
type clusterFile struct {
	Clusters []domain.ClusterDef `json:"clusters" yaml:"clusters"`
}

// LoadClusters reads a cluster table from a YAML or JSON file. Format is
// chosen by extension; anything other than .json is parsed as YAML.
func LoadClusters(path string) ([]domain.ClusterDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clusters: %w", err)
	}
	return ParseClusters(data, filepath.Ext(path))
}

// ParseClusters decodes a cluster table and validates it.
func ParseClusters(data []byte, ext string) ([]domain.ClusterDef, error) {
	var f clusterFile
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse clusters json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse clusters yaml: %w", err)
		}
	}
	if err := domain.ValidateClusters(f.Clusters); err != nil {
		return nil, err
	}
	return f.Clusters, nil
}
