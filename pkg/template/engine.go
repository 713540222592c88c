package template

import (
	"fmt"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/localmock/localmock/pkg/util"
)

// Random value bounds, inclusive.
const (
	MaxRandomInt = 1000000
	MinPrice     = 20
	MaxPrice     = 80
)

// DataSource supplies records to data tags. config.Store implements it.
type DataSource interface {
	Database() []map[string]any
	DatabaseCount() int
	FilterDatabase(field string, value any) []map[string]any
	FindInDatabase(field string, value any) (map[string]any, bool)
	FilterByGenre(genre string) []map[string]any
}

// Engine renders response templates. It is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex // guards rng
	rng *mathrand.Rand
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes random values reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = mathrand.New(mathrand.NewPCG(seed, seed))
	}
}

// WithClock sets the time source for {{timestamp}}.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a template engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render returns a copy of node with every template string rendered. Map
// keys are never rendered. Values that are not maps, slices or strings are
// returned unchanged. src may be nil when no data tags are expected; data
// tags then render as empty results.
func (e *Engine) Render(node any, params map[string][]string, src DataSource) any {
	if src == nil {
		src = emptySource{}
	}
	return e.render(node, params, src)
}

func (e *Engine) render(node any, params map[string][]string, src DataSource) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = e.render(inner, params, src)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = e.render(inner, params, src)
		}
		return out
	case string:
		return e.renderString(v, params, src)
	default:
		return node
	}
}

func (e *Engine) renderString(s string, params map[string][]string, src DataSource) any {
	if tag, ok := parseDataTag(strings.TrimSpace(s)); ok {
		return tag.resolve(params, src)
	}
	if !strings.Contains(s, "{{") {
		return s
	}

	s = queryTagRe.ReplaceAllStringFunc(s, func(m string) string {
		name := queryTagRe.FindStringSubmatch(m)[1]
		return escapeJSON(firstParam(params, name))
	})
	s = replaceOnce(s, "{{timestamp}}", func() string { return util.ISOTimestamp(e.now()) })
	s = replaceOnce(s, "{{random_int}}", func() string { return strconv.Itoa(e.intN(MaxRandomInt + 1)) })
	s = replaceOnce(s, "{{random_price}}", func() string {
		return fmt.Sprintf("$%d", MinPrice+e.intN(MaxPrice-MinPrice+1))
	})
	s = replaceOnce(s, "{{uuid}}", e.newUUID)
	return s
}

// replaceOnce replaces every occurrence of tag with a single generated value.
func replaceOnce(s, tag string, gen func() string) string {
	if !strings.Contains(s, tag) {
		return s
	}
	return strings.ReplaceAll(s, tag, gen())
}

var jsonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeJSON(s string) string {
	return jsonEscaper.Replace(s)
}

type emptySource struct{}

func (emptySource) Database() []map[string]any { return []map[string]any{} }
func (emptySource) DatabaseCount() int { return 0 }
func (emptySource) FilterDatabase(string, any) []map[string]any { return []map[string]any{} }
func (emptySource) FindInDatabase(string, any) (map[string]any, bool) { return nil, false }
func (emptySource) FilterByGenre(string) []map[string]any { return []map[string]any{} }
