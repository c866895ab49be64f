package domain

import "fmt"

// maxClusterCount keeps the two-digit name suffix unique within a cluster.
const maxClusterCount = 99

// ClusterDef places a group of pipelines around a center point.
type ClusterDef struct {
	Name   string  `json:"name" yaml:"name"`
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
	Radius float64 `json:"radius" yaml:"radius"` // degrees
	Count  int     `json:"count" yaml:"count"`
}

// DefaultClusters returns the reference table of eight operational areas
// (100 pipelines). Coordinates are estimates for demo purposes.
func DefaultClusters() []ClusterDef {
	return []ClusterDef{
		{Name: "Ghawar", Lat: 25.5, Lon: 49.5, Radius: 1.5, Count: 30},
		{Name: "Abqaiq", Lat: 25.93, Lon: 49.67, Radius: 0.8, Count: 15},
		{Name: "Ras Tanura", Lat: 26.65, Lon: 50.17, Radius: 0.6, Count: 10},
		{Name: "Safaniya", Lat: 27.85, Lon: 48.75, Radius: 1.0, Count: 10},
		{Name: "Shaybah", Lat: 22.5, Lon: 53.9, Radius: 1.2, Count: 8},
		{Name: "Khurais", Lat: 25.0, Lon: 48.0, Radius: 1.0, Count: 10},
		{Name: "Yanbu", Lat: 24.08, Lon: 38.05, Radius: 0.7, Count: 8},
		{Name: "Dhahran", Lat: 26.27, Lon: 50.15, Radius: 0.5, Count: 9},
	}
}

// ValidateClusters rejects tables that cannot produce a well-formed fleet.
func ValidateClusters(clusters []ClusterDef) error {
	if len(clusters) == 0 {
		return fmt.Errorf("%w: cluster table is empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(clusters))
	for i, c := range clusters {
		if c.Name == "" {
			return fmt.Errorf("%w: cluster %d has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate cluster name %q", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Radius <= 0 {
			return fmt.Errorf("%w: cluster %q radius must be positive, got %g", ErrInvalidConfig, c.Name, c.Radius)
		}
		if c.Count <= 0 || c.Count > maxClusterCount {
			return fmt.Errorf("%w: cluster %q count must be in 1..%d, got %d", ErrInvalidConfig, c.Name, maxClusterCount, c.Count)
		}
	}
	// A name equal to another cluster's short name would claim both in
	// regional aggregation.
	for _, c := range clusters {
		short := regionShortName(c.Name)
		if short == c.Name {
			continue
		}
		if _, clash := seen[short]; clash {
			return fmt.Errorf("%w: cluster %q shadows the short name of %q", ErrInvalidConfig, short, c.Name)
		}
	}
	return nil
}

// TotalCount is the number of pipelines a table generates.
func TotalCount(clusters []ClusterDef) int {
	n := 0
	for _, c := range clusters {
		n += c.Count
	}
	return n
}

// RegionNames lists cluster names in table order.
func RegionNames(clusters []ClusterDef) []string {
	names := make([]string, len(clusters))
	for i, c := range clusters {
		names[i] = c.Name
	}
	return names
}
