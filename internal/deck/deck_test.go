package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKVTML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE kvtml PUBLIC "kvtml2.dtd" "http://edu.kde.org/kvtml/kvtml2.dtd">
<kvtml version="2.0">
  <information>
    <title>French verbs</title>
  </information>
  <entries>
    <entry id="0">
      <translation id="0"><text>to be</text></translation>
      <translation id="1"><text>être</text></translation>
    </entry>
    <entry id="1">
      <translation id="0"><text>to have</text></translation>
    </entry>
    <entry id="2">
      <translation id="1"><text>aller</text></translation>
      <translation id="0"><text>to go</text></translation>
    </entry>
  </entries>
</kvtml>`

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseKVTML(t *testing.T) {
	d, err := ParseKVTML([]byte(sampleKVTML))
	require.NoError(t, err)
	assert.Equal(t, "French verbs", d.Title)
	assert.Equal(t, []Card{
		{ID: "0", Front: "to be", Back: "être"},
		{ID: "2", Front: "to go", Back: "aller"},
	}, d.Cards)
}

func TestParseKVTMLEmpty(t *testing.T) {
	_, err := ParseKVTML([]byte(`<kvtml><entries></entries></kvtml>`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ParseKVTML([]byte(`not xml`))
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	p := write(t, "verbs.json", `[
		{"id": 7, "front": "to be", "back": "être"},
		{"id": "b", "front": " to have ", "back": "avoir"},
		{"front": "to go", "back": "aller"},
		{"id": "x", "front": "", "back": "rien"}
	]`)
	d, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "verbs", d.Title)
	assert.Equal(t, p, d.Path)
	assert.Equal(t, []Card{
		{ID: "7", Front: "to be", Back: "être"},
		{ID: "b", Front: "to have", Back: "avoir"},
		{ID: "2", Front: "to go", Back: "aller"},
	}, d.Cards)
}

func TestLoadYAMLAndKVTML(t *testing.T) {
	d, err := Load(write(t, "d.yaml", "- {id: a, front: one, back: un}\n"))
	require.NoError(t, err)
	assert.Equal(t, []Card{{ID: "a", Front: "one", Back: "un"}}, d.Cards)

	d, err = Load(write(t, "french.kvtml", sampleKVTML))
	require.NoError(t, err)
	assert.Equal(t, "French verbs", d.Title)
	assert.Len(t, d.Cards, 2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "empty.json", `[]`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Load(write(t, "bad.json", `{"id": 1}`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
