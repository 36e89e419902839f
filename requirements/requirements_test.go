package requirements

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "reqs.csv", `id,name,description,priority,status,acceptance_criteria
REQ-001,Login,Implement user login,high,new,validates password;locks after 3 failures
REQ-002,Logout,Implement logout,low,done,
REQ-003,,Session refresh,medium,active,
`)

	loader := NewLoader()
	reqs, err := loader.LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "REQ-001", reqs[0].ID)
	assert.Equal(t, "Login", reqs[0].Name)
	assert.Equal(t, "Implement user login", reqs[0].Description)
	assert.Equal(t, []string{"validates password", "locks after 3 failures"}, reqs[0].AcceptanceCriteria)
	assert.True(t, reqs[0].Actionable())

	assert.False(t, reqs[1].Actionable())
	assert.True(t, reqs[2].Actionable())
	assert.Empty(t, reqs[2].Name)
}

func TestLoadCSV_TitleFallback(t *testing.T) {
	path := writeFile(t, "reqs.csv", `id,title,description,status
R1,The Title,Do the thing,pending
`)

	reqs, err := NewLoader().LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "The Title", reqs[0].Name)
}

func TestLoadCSV_SkipsRowsWithoutIDOrDescription(t *testing.T) {
	path := writeFile(t, "reqs.csv", `id,description,status
R1,,new
,missing id,new
R2,valid,new
`)

	reqs, err := NewLoader().LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "R2", reqs[0].ID)
}

func TestLoadCSV_MissingRequiredColumns(t *testing.T) {
	path := writeFile(t, "reqs.csv", "name,status\nfoo,new\n")

	_, err := NewLoader().LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "reqs.yaml", `
- id: R1
  name: Login
  description: Implement login
  status: new
  acceptance_criteria:
    - validates password
- id: R2
  description: ""
`)

	reqs, err := NewLoader().LoadYAML(path)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "R1", reqs[0].ID)
	assert.Equal(t, []string{"validates password"}, reqs[0].AcceptanceCriteria)
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("reqs.txt")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	reqs := []Requirement{
		{ID: "R1", Status: "new"},
		{ID: "R2", Status: "done"},
		{ID: "R3", Status: "active"},
		{ID: "R4", Status: "Pending"},
	}

	out := Filter(reqs, []string{"R3"})

	require.Len(t, out, 2)
	assert.Equal(t, "R1", out[0].ID)
	assert.Equal(t, "R4", out[1].ID)
}

func TestLoadImplementedIDs(t *testing.T) {
	path := writeFile(t, "done.csv", "id\nR1\nR2\n\n")

	ids, err := NewLoader().LoadImplementedIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, ids)
}
