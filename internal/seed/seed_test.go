package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `
user_id: "user-1"
entries:
  - type: verse
    title: "Psalm 23:1"
    content: "The LORD is my shepherd"
    bible_verses:
      - "Psalm 23:1"
  - type: pathway
    title: "Basics"
    points:
      - title: "Step one"
        primary_verse: "John 3:16"
        additional_verses:
          - "1 John 4:9"
links:
  - source: "Basics"
    target: "Psalm 23:1"
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeFixture(t, sampleFixture))
	require.NoError(t, err)

	assert.Equal(t, "user-1", f.UserID)
	require.Len(t, f.Entries, 2)
	assert.Equal(t, "verse", f.Entries[0].Type)
	assert.Equal(t, []string{"Psalm 23:1"}, f.Entries[0].BibleVerses)

	require.Len(t, f.Entries[1].Points, 1)
	assert.Equal(t, "John 3:16", f.Entries[1].Points[0].PrimaryVerse)

	require.Len(t, f.Links, 1)
	assert.Equal(t, "Basics", f.Links[0].Source)
}

func TestLoadRejectsMissingUserID(t *testing.T) {
	_, err := Load(writeFixture(t, "entries: []\n"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeFixture(t, "user_id: [unterminated"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
