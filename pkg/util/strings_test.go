package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasTraversal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"/static/app.js", false},
		{"/index.html", false},
		{"/static/../secret", true},
		{"..", true},
		{`static\..\secret`, true},
		{"/static/..hidden", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HasTraversal(tt.input))
		})
	}
}

func TestSafeJoin(t *testing.T) {
	t.Parallel()

	root := filepath.Join("srv", "public")

	got, ok := SafeJoin(root, "/static/app.js")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "static", "app.js"), got)

	got, ok = SafeJoin(root, "/")
	assert.True(t, ok)
	assert.Equal(t, root, got)

	_, ok = SafeJoin(root, "/static/../../etc/passwd")
	assert.False(t, ok)
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	never := func(string) bool { return false }
	always := func(string) bool { return true }

	assert.Equal(t, filepath.Join("config", "db.json"), ResolvePath("config", "db.json", never))
	assert.Equal(t, "db.json", ResolvePath("config", "db.json", always))
	assert.Equal(t, "/abs/db.json", ResolvePath("config", "/abs/db.json", never))
	assert.Equal(t, "", ResolvePath("config", "", never))
}

func TestISOTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 11, 20, 10, 0, 0, 123456000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2025-11-20T09:00:00.123456+00:00", ISOTimestamp(ts))
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}\+00:00$`), NowISO())
}

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", TruncateBody("short", 10))
	assert.Equal(t, "abc...(truncated)", TruncateBody("abcdef", 3))

	long := strings.Repeat("x", MaxLogBodySize+1)
	assert.Equal(t, strings.Repeat("x", MaxLogBodySize)+"...(truncated)", TruncateBody(long, 0))
}
