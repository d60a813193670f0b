// ABOUTME: Tests for container summary formatting helpers
// ABOUTME: Covers daemon name normalization and the Container wire shape

package runtime

import (
	"encoding/json"
	"testing"

	"github.com/docker/docker/api/types/container"
)

func TestSummaryName(t *testing.T) {
	tests := []struct {
		name    string
		summary container.Summary
		want    string
	}{
		{
			name:    "strips leading slash",
			summary: container.Summary{ID: "abc123", Names: []string{"/web"}},
			want:    "web",
		},
		{
			name:    "first name wins",
			summary: container.Summary{ID: "abc123", Names: []string{"/web", "/alias"}},
			want:    "web",
		},
		{
			name:    "falls back to id when unnamed",
			summary: container.Summary{ID: "abc123"},
			want:    "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryName(tt.summary); got != tt.want {
				t.Errorf("summaryName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerJSONShape(t *testing.T) {
	c := Container{
		ID:    "abc123",
		Name:  "web",
		State: "running",
		Specs: Specs{Memory: 512 * 1024 * 1024, CPUShares: 1024, Image: "nginx:latest"},
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "name", "state", "specs"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("serialized container missing %q field", key)
		}
	}

	specs, ok := fields["specs"].(map[string]any)
	if !ok {
		t.Fatalf("specs field is %T, want object", fields["specs"])
	}
	for _, key := range []string{"ram", "cpu", "image"} {
		if _, ok := specs[key]; !ok {
			t.Errorf("serialized specs missing %q field", key)
		}
	}
}

func TestSelectByName(t *testing.T) {
	summaries := []container.Summary{
		{ID: "c1", Names: []string{"/web"}},
		{ID: "c2", Names: []string{"/web2"}},
		{ID: "c3", Names: []string{"/myweb"}},
		{ID: "c4", Names: []string{"/db"}},
	}

	t.Run("exact names only", func(t *testing.T) {
		// The daemon's name filter matches substrings; web2 and myweb
		// come back for "web" and must be dropped here.
		selected := selectByName(summaries, []string{"web"})
		if len(selected) != 1 || summaryName(selected[0]) != "web" {
			t.Fatalf("selectByName() = %v, want exactly [web]", selected)
		}
	})

	t.Run("multiple names", func(t *testing.T) {
		selected := selectByName(summaries, []string{"web", "db"})
		if len(selected) != 2 {
			t.Fatalf("selectByName() returned %d summaries, want 2", len(selected))
		}
		if summaryName(selected[0]) != "web" || summaryName(selected[1]) != "db" {
			t.Errorf("selectByName() = [%s %s], want [web db]", summaryName(selected[0]), summaryName(selected[1]))
		}
	})

	t.Run("empty keeps everything", func(t *testing.T) {
		if selected := selectByName(summaries, nil); len(selected) != len(summaries) {
			t.Errorf("selectByName() returned %d summaries, want %d", len(selected), len(summaries))
		}
	})

	t.Run("no match", func(t *testing.T) {
		if selected := selectByName(summaries, []string{"ghost"}); len(selected) != 0 {
			t.Errorf("selectByName() = %v, want empty", selected)
		}
	})
}
