package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSuiteFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.json")
	content := `{"name": "smoke", "prefix": "/geohack.php", "paths": ["/geohack.php?pagename=A"]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	suite, err := LoadSuiteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", suite.Name)
	assert.Equal(t, "/geohack.php", suite.Prefix)
	require.Len(t, suite.Cases(), 1)
}

func TestLoadSuiteFileDefaultsNameToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nightly.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  - /geohack.php?pagename=A\n"), 0600))

	suite, err := LoadSuiteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly.yaml", suite.Name)
}

func TestLoadSuiteFileRejectsEmptySuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty\n"), 0600))

	_, err := LoadSuiteFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no paths")
}

func TestParseJSONOrYAML(t *testing.T) {
	var target struct {
		Name  string   `json:"name"`
		Paths []string `json:"paths"`
	}

	require.NoError(t, ParseJSONOrYAML([]byte(`{"name":"a","paths":["/x"]}`), &target))
	assert.Equal(t, "a", target.Name)

	require.NoError(t, ParseJSONOrYAML([]byte("name: b\npaths:\n  - /y\n"), &target))
	assert.Equal(t, "b", target.Name)
	assert.Equal(t, []string{"/y"}, target.Paths)

	assert.Error(t, ParseJSONOrYAML([]byte("{not valid either way"), &target))
}
