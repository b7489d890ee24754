package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adaDoc = `
    person:
      name: Ada Lovelace
      coordinates: {x: 12, y: -3}
      height: 165
      birthday: "1815-12-10"
      passport_id: GB-1815`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valid.yaml")
	content := `
name: valid
description: "add then read back"
cascade_delete: true
steps:
  - action: add
    as: 7
    bind: ada` + adaDoc + `
  - action: get
    as: 8
    target: ada
assertions:
  - type: row_count
    table: person
    count: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.True(t, s.CascadeDelete)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, ActionAdd, s.Steps[0].Action)
	assert.Equal(t, int32(7), s.Steps[0].As)
	require.NotNil(t, s.Steps[0].Person)
	assert.Equal(t, "GB-1815", s.Steps[0].Person.PassportID)
	assert.Equal(t, int64(12), s.Steps[0].Person.Coordinates.X)
	assert.Equal(t, "ada", s.Steps[1].Target)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, int64(1), s.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownFieldRejected(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
steps:
  - action: get
    as: 1
    id: 1
assertion:
  - type: row_count
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\nsteps:\n  - {action: get, as: 1, id: 1}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\nsteps:\n  - {action: get, as: 1, id: 1}\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			body:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown action",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: purge, as: 1, id: 1}\n",
			wantErr: `unknown action "purge"`,
		},
		{
			name:    "add without person",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: add, as: 1}\n",
			wantErr: "add requires person",
		},
		{
			name:    "unbound target",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: remove, as: 1, target: ghost}\n",
			wantErr: `target "ghost" is not bound`,
		},
		{
			name:    "no target",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: get, as: 1}\n",
			wantErr: "get requires target or id",
		},
		{
			name:    "allowed on remove",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: remove, as: 1, id: 3, expect: {allowed: true}}\n",
			wantErr: "allowed only applies to check_access",
		},
		{
			name:    "assertion on unbound target",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: get, as: 1, id: 1}\nassertions:\n  - {type: person_absent, target: ada}\n",
			wantErr: `target "ada" is not bound`,
		},
		{
			name:    "row_count without table",
			body:    "name: n\ndescription: d\nsteps:\n  - {action: get, as: 1, id: 1}\nassertions:\n  - {type: row_count, count: 1}\n",
			wantErr: "row_count requires table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_RebindRejected(t *testing.T) {
	body := `
name: rebind
description: "same name twice"
steps:
  - action: add
    as: 7
    bind: ada` + adaDoc + `
  - action: add
    as: 7
    bind: ada` + adaDoc + `
`
	_, err := ParseScenario([]byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `name "ada" is already bound`)
}

func TestLoadScenario_Fixtures(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
