package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

func TestParseClusters(t *testing.T) {
	want := []domain.ClusterDef{
		{Name: "Alpha", Lat: 25, Lon: 49, Radius: 0.5, Count: 4},
		{Name: "Beta", Lat: 26.5, Lon: 50.25, Radius: 1, Count: 2},
	}

	tests := []struct {
		name string
		ext  string
		data string
	}{
		{
			name: "yaml",
			ext:  ".yaml",
			data: `clusters:
  - {name: Alpha, lat: 25, lon: 49, radius: 0.5, count: 4}
  - {name: Beta, lat: 26.5, lon: 50.25, radius: 1, count: 2}
`,
		},
		{
			name: "json",
			ext:  ".JSON",
			data: `{"clusters":[
  {"name":"Alpha","lat":25,"lon":49,"radius":0.5,"count":4},
  {"name":"Beta","lat":26.5,"lon":50.25,"radius":1,"count":2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClusters([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("clusters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseClusters_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		data    string
		wantErr error
	}{
		{"malformed yaml", ".yml", "clusters: [", nil},
		{"malformed json", ".json", "{", nil},
		{"empty table", ".yaml", "clusters: []", domain.ErrInvalidConfig},
		{"zero radius", ".yaml", "clusters: [{name: A, lat: 1, lon: 1, radius: 0, count: 2}]", domain.ErrInvalidConfig},
		{"duplicate names", ".yaml", "clusters: [{name: A, lat: 1, lon: 1, radius: 1, count: 2}, {name: A, lat: 2, lon: 2, radius: 1, count: 2}]", domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClusters([]byte(tt.data), tt.ext)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadClusters_ReadError(t *testing.T) {
	_, err := LoadClusters(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadClusters_DefaultTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.json")
	data := `{"clusters":[{"name":"Ghawar","lat":25.5,"lon":49.5,"radius":1.5,"count":30}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	got, err := LoadClusters(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClusters()[:1], got)
}
