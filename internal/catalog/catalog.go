package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shametoflame/ministry/internal/markdown"
	"github.com/shametoflame/ministry/internal/model"
)

// Catalog serves reading plans authored as markdown files under
// content/plans. Each file carries plan metadata in YAML frontmatter and
// one "## Day N" section per day of devotional text.
type Catalog struct {
	parser      *markdown.Parser
	contentPath string
}

func New(contentPath string) *Catalog {
	return &Catalog{
		parser:      markdown.NewParser(),
		contentPath: contentPath,
	}
}

type planMeta struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Duration    int    `yaml:"duration"`
	Category    string `yaml:"category"`
	Aligned     bool   `yaml:"aligned"`
	Featured    bool   `yaml:"featured"`
	Readings    []struct {
		Day       int    `yaml:"day"`
		Title     string `yaml:"title"`
		Scripture []struct {
			Book       string `yaml:"book"`
			Chapter    int    `yaml:"chapter"`
			Verse      int    `yaml:"verse"`
			StartVerse int    `yaml:"startVerse"`
			EndVerse   int    `yaml:"endVerse"`
		} `yaml:"scripture"`
	} `yaml:"readings"`
}

func (c *Catalog) Plans() ([]*model.Plan, error) {
	pattern := filepath.Join(c.contentPath, "plans", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var plans []*model.Plan
	for _, file := range files {
		plan, err := c.load(file)
		if err != nil {
			continue
		}
		plans = append(plans, plan)
	}

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Featured != plans[j].Featured {
			return plans[i].Featured
		}
		return plans[i].Title < plans[j].Title
	})

	return plans, nil
}

func (c *Catalog) PlanByID(planID string) (*model.Plan, error) {
	path := filepath.Join(c.contentPath, "plans", planID+".md")
	return c.load(path)
}

func (c *Catalog) FeaturedPlans() ([]*model.Plan, error) {
	all, err := c.Plans()
	if err != nil {
		return nil, err
	}

	var plans []*model.Plan
	for _, plan := range all {
		if plan.Featured {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (c *Catalog) PlansByCategory(category string) ([]*model.Plan, error) {
	all, err := c.Plans()
	if err != nil {
		return nil, err
	}

	var plans []*model.Plan
	for _, plan := range all {
		if strings.EqualFold(plan.Category, category) {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (c *Catalog) Categories() ([]Category, error) {
	all, err := c.Plans()
	if err != nil {
		return nil, err
	}

	titler := cases.Title(language.English)
	seen := map[string]bool{}
	var categories []Category
	for _, plan := range all {
		if plan.Category == "" || seen[plan.Category] {
			continue
		}
		seen[plan.Category] = true
		categories = append(categories, Category{
			Slug: plan.Category,
			Name: titler.String(strings.ReplaceAll(plan.Category, "-", " ")),
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Slug < categories[j].Slug
	})
	return categories, nil
}

// DevotionalHTML renders one day's devotional to HTML.
func (c *Catalog) DevotionalHTML(planID string, day int) (string, error) {
	plan, err := c.PlanByID(planID)
	if err != nil {
		return "", err
	}
	reading := plan.Reading(day)
	if reading == nil {
		return "", fmt.Errorf("plan %s has no day %d", planID, day)
	}

	html, err := c.parser.Parse([]byte(reading.Devotional))
	if err != nil {
		return "", err
	}
	return string(html), nil
}

var dayHeading = regexp.MustCompile(`(?m)^## Day (\d+)\s*$`)

func (c *Catalog) load(path string) (*model.Plan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %s", filepath.Base(path))
	}

	var meta planMeta
	err = c.parser.Frontmatter(content, &meta)
	if err != nil {
		return nil, err
	}
	if meta.ID == "" {
		meta.ID = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	plan := &model.Plan{
		PlanID:      meta.ID,
		Title:       meta.Title,
		Description: meta.Description,
		Duration:    meta.Duration,
		Category:    meta.Category,
		Aligned:     meta.Aligned,
		Featured:    meta.Featured,
	}

	for _, r := range meta.Readings {
		reading := model.DailyReading{
			Day:   r.Day,
			Title: r.Title,
		}
		for _, s := range r.Scripture {
			reading.Scripture = append(reading.Scripture, model.ScriptureReference{
				Book:       s.Book,
				Chapter:    s.Chapter,
				Verse:      s.Verse,
				StartVerse: s.StartVerse,
				EndVerse:   s.EndVerse,
			})
		}
		plan.Readings = append(plan.Readings, reading)
	}

	for day, devotional := range daySections(string(content)) {
		if reading := plan.Reading(day); reading != nil {
			reading.Devotional = devotional
		}
	}

	if plan.Duration == 0 {
		plan.Duration = len(plan.Readings)
	}

	sort.Slice(plan.Readings, func(i, j int) bool {
		return plan.Readings[i].Day < plan.Readings[j].Day
	})

	return plan, nil
}

// daySections splits the document body into per-day devotional text keyed by
// day number. Text before the first heading is ignored.
func daySections(content string) map[int]string {
	matches := dayHeading.FindAllStringSubmatchIndex(content, -1)
	sections := make(map[int]string, len(matches))
	for i, m := range matches {
		day, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[day] = strings.TrimSpace(content[m[1]:end])
	}
	return sections
}
