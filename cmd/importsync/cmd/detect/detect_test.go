package detect_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planstack/importsync/cmd/importsync/cmd/detect"
	"github.com/planstack/importsync/internal/cmd/application"
)

const existingYAML = `resources:
  - id: r1
    name: Sarah Chen
    assignments:
      - task_id: t1
        allocation_percent: 60
        range:
          start: 2025-03-10
          end: 2025-03-20
tasks:
  - id: t1
    name: Implementation
    phase_id: p1
    range:
      start: 2025-03-10
      end: 2025-03-20
`

const incomingYAML = `resources:
  - id: i1
    name: sarah chen
    assignments:
      - task_id: u1
        allocation_percent: 50
        range:
          start: 2025-03-15
          end: 2025-03-25
tasks:
  - id: u1
    name: Load Testing
    phase_id: q1
    range:
      start: 2025-03-15
      end: 2025-03-25
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runDetect(t *testing.T, app *application.Mock, args ...string) (string, error) {
	t.Helper()
	cmd := detect.NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDetectCommandText(t *testing.T) {
	existing := writeFile(t, "existing.yaml", existingYAML)
	incoming := writeFile(t, "incoming.yaml", incomingYAML)

	out, err := runDetect(t, &application.Mock{},
		"--existing", existing, "--incoming", incoming)
	require.NoError(t, err)

	assert.Contains(t, out, "1 conflicts (1 errors, 0 warnings)")
	assert.Contains(t, out, "resource:r1:i1")
	assert.Contains(t, out, "110%")
}

func TestDetectCommandJSON(t *testing.T) {
	existing := writeFile(t, "existing.yaml", existingYAML)
	incoming := writeFile(t, "incoming.yaml", incomingYAML)

	app := &application.Mock{
		OutputFormatFunc: func() string { return "json" },
	}
	out, err := runDetect(t, app, "--existing", existing, "--incoming", incoming)
	require.NoError(t, err)

	var report struct {
		Summary struct {
			Total  int `json:"total"`
			Errors int `json:"errors"`
		} `json:"summary"`
		Conflicts []struct {
			ID       string `json:"id"`
			Severity string `json:"severity"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Errors)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "resource:r1:i1", report.Conflicts[0].ID)
	assert.Equal(t, "error", report.Conflicts[0].Severity)
}

func TestDetectCommandStrict(t *testing.T) {
	existing := writeFile(t, "existing.yaml", existingYAML)
	incoming := writeFile(t, "incoming.yaml", incomingYAML)

	_, err := runDetect(t, &application.Mock{},
		"--existing", existing, "--incoming", incoming, "--strict")
	require.Error(t, err)
}

func TestDetectCommandMissingFile(t *testing.T) {
	incoming := writeFile(t, "incoming.yaml", incomingYAML)

	_, err := runDetect(t, &application.Mock{},
		"--existing", filepath.Join(t.TempDir(), "missing.yaml"), "--incoming", incoming)
	require.Error(t, err)
}

func TestDetectCommandNoConflicts(t *testing.T) {
	existing := writeFile(t, "existing.yaml", existingYAML)
	incoming := writeFile(t, "incoming.yaml", `tasks:
  - id: u9
    name: Documentation
    phase_id: q1
    range:
      start: 2025-04-01
      end: 2025-04-05
`)

	out, err := runDetect(t, &application.Mock{},
		"--existing", existing, "--incoming", incoming)
	require.NoError(t, err)
	assert.Contains(t, out, "No conflicts detected")
}
