package plan

import (
	"fmt"
	"strings"
	"time"
)

// maxTemplates caps how many resolved keyword templates a generated
// plan may expand, keeping comprehensive plans from overwhelming the
// engines.
const maxTemplates = 8

// planTypes fixes the category order used by comprehensive plans.
var planTypes = []string{"technology", "research", "news", "comparison", "tutorial"}

var templates = map[string][]string{
	"technology": {
		"{topic} latest news",
		"{topic} technology trends",
		"{topic} release notes",
		"{topic} tutorial guide",
		"{topic} best practices",
	},
	"research": {
		"{topic} research",
		"{topic} papers",
		"{topic} analysis report",
		"{topic} case study",
		"{topic} data analysis",
	},
	"news": {
		"{topic} news",
		"{topic} latest",
		"{topic} latest news",
		"{topic} updates",
		"{topic} announcement",
	},
	"comparison": {
		"{topic} comparison",
		"{topic} vs",
		"{topic} alternatives",
		"{topic} how to choose",
		"{topic} review",
	},
	"tutorial": {
		"{topic} getting started",
		"{topic} introduction",
		"{topic} tutorial",
		"{topic} how to",
		"{topic} guide",
	},
}

// Types lists the recognized plan types, including "comprehensive".
func Types() []string {
	return append([]string{"comprehensive"}, planTypes...)
}

// Task is one unit of planned work. Immutable once created.
type Task struct {
	Keyword        string `json:"keyword"`
	Engine         string `json:"engine"`
	NumResults     int    `json:"num_results"`
	ExtractContent bool   `json:"extract_content"`
	RecentOnly     bool   `json:"recent_only"`
	Months         int    `json:"months"`
}

// Key identifies the task inside an execution report.
func (t Task) Key() string {
	return fmt.Sprintf("%s (%s)", t.Keyword, t.Engine)
}

// Plan is an ordered set of search tasks for a topic. A plan is a pure
// value consumed by the execution engine; re-executing it is permitted.
type Plan struct {
	Topic     string    `json:"topic"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
}

// Options tune task expansion. The zero value is not useful on its own;
// start from DefaultOptions.
type Options struct {
	Engines        []string
	NumResults     int
	ExtractContent bool
	RecentOnly     bool
	Months         int
}

func DefaultOptions() Options {
	return Options{
		NumResults: 5,
		RecentOnly: true,
		Months:     3,
	}
}

// Create builds a plan from a topic and a plan type. "comprehensive"
// concatenates the first two templates of every category; any other
// recognized type uses its own five templates; an unrecognized type
// falls back to the technology set. At most eight templates are
// expanded, one task per (template, engine) pair.
func Create(topic, planType string, opts Options) Plan {
	if len(opts.Engines) == 0 {
		opts.Engines = []string{"google", "bing"}
	}

	var resolved []string
	if planType == "comprehensive" {
		for _, pt := range planTypes {
			resolved = append(resolved, templates[pt][:2]...)
		}
	} else if ts, ok := templates[planType]; ok {
		resolved = ts
	} else {
		resolved = templates["technology"]
	}

	if len(resolved) > maxTemplates {
		resolved = resolved[:maxTemplates]
	}

	var tasks []Task
	for _, template := range resolved {
		keyword := strings.ReplaceAll(template, "{topic}", topic)
		tasks = append(tasks, expand(keyword, opts)...)
	}

	return Plan{
		Topic:     topic,
		Tasks:     tasks,
		CreatedAt: time.Now(),
	}
}

// CreateCustom builds a plan from caller-supplied keywords, used
// verbatim and uncapped.
func CreateCustom(topic string, keywords []string, opts Options) Plan {
	if len(opts.Engines) == 0 {
		opts.Engines = []string{"google"}
	}

	var tasks []Task
	for _, keyword := range keywords {
		tasks = append(tasks, expand(keyword, opts)...)
	}

	return Plan{
		Topic:     topic,
		Tasks:     tasks,
		CreatedAt: time.Now(),
	}
}

func expand(keyword string, opts Options) []Task {
	tasks := make([]Task, 0, len(opts.Engines))
	for _, engine := range opts.Engines {
		tasks = append(tasks, Task{
			Keyword:        keyword,
			Engine:         engine,
			NumResults:     opts.NumResults,
			ExtractContent: opts.ExtractContent,
			RecentOnly:     opts.RecentOnly,
			Months:         opts.Months,
		})
	}
	return tasks
}
