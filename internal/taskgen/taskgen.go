package taskgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

const seedPlaceholder = "{seed}"

// GeneratorConfig is the configuration of the task generator.
type GeneratorConfig struct {
	Templates []model.Template
	// Attachments are the attachment generators by name, defaults to the built-in ones.
	Attachments map[string]AttachmentGenerator
	Logger      log.Logger
}

func (c *GeneratorConfig) defaults() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("at least one template is required: %w", model.ErrConfiguration)
	}
	for _, t := range c.Templates {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", model.ErrConfiguration, err)
		}
	}

	if c.Attachments == nil {
		c.Attachments = DefaultAttachmentGenerators()
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "taskgen.Generator"})

	return nil
}

// Generator generates tasks from a template registry. The same seed always produces
// the same task.
type Generator struct {
	templates   []model.Template
	attachments map[string]AttachmentGenerator
	logger      log.Logger
}

// NewGenerator returns a new task generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Generator{
		templates:   cfg.Templates,
		attachments: cfg.Attachments,
		logger:      cfg.Logger,
	}, nil
}

// Generate generates the task for a seed and round. Rounds after the first one use
// the variants of the family template, when family is empty the template is drawn from
// the seed like in the first round.
func (g *Generator) Generate(seed string, round int, family string) (*model.GeneratedTask, error) {
	if round < 1 {
		return nil, fmt.Errorf("invalid round %d: %w", round, model.ErrNotValid)
	}

	r := newRand(seed)

	tpl := g.templates[r.IntN(len(g.templates))]
	if round > 1 && family != "" {
		t, ok := g.template(family)
		if !ok {
			return nil, fmt.Errorf("unknown template family %q: %w", family, model.ErrGeneration)
		}
		tpl = t
	}

	brief, checks, attachment := tpl.Brief, tpl.Checks, tpl.Attachment
	if round > 1 {
		if len(tpl.Variants) == 0 {
			return nil, fmt.Errorf("template %q has no variants: %w", tpl.ID, model.ErrGeneration)
		}
		v := tpl.Variants[r.IntN(len(tpl.Variants))]
		brief, checks, attachment = v.Brief, v.Checks, v.Attachment
	}

	placeholder := strconv.Itoa(PlaceholderID(seed))
	task := &model.GeneratedTask{
		TemplateID:  tpl.ID,
		Brief:       strings.ReplaceAll(brief, seedPlaceholder, placeholder),
		Checks:      make([]model.Check, 0, len(checks)),
		Attachments: []model.Attachment{},
	}

	for _, c := range checks {
		text := strings.ReplaceAll(c.Text, seedPlaceholder, placeholder)
		if c.Kind == "" {
			task.Checks = append(task.Checks, model.ClassifyCheck(text))
			continue
		}
		task.Checks = append(task.Checks, model.Check{
			Text:   text,
			Kind:   c.Kind,
			Target: strings.ReplaceAll(c.Target, seedPlaceholder, placeholder),
		})
	}

	if attachment != nil {
		gen, ok := g.attachments[attachment.Generator]
		if !ok {
			return nil, fmt.Errorf("unknown attachment generator %q: %w", attachment.Generator, model.ErrGeneration)
		}
		mime, content, err := gen(newRand(seed))
		if err != nil {
			return nil, fmt.Errorf("could not generate attachment %q: %w: %w", attachment.Name, model.ErrGeneration, err)
		}
		task.Attachments = append(task.Attachments, model.Attachment{
			Name: attachment.Name,
			URL:  model.EncodeDataURI(mime, content),
		})
	}

	g.logger.Debugf("Generated %s task for round %d", task.TemplateID, round)

	return task, nil
}

func (g *Generator) template(id string) (model.Template, bool) {
	for _, t := range g.templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.Template{}, false
}

// newRand returns a PRNG keyed exactly by the seed string.
func newRand(seed string) *rand.Rand {
	return rand.New(rand.NewChaCha8(sha256.Sum256([]byte(seed))))
}

// PlaceholderID is the short numeric id that replaces `{seed}` in templates.
func PlaceholderID(seed string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % 10000)
}

// TaskID returns the content derived task ID: the template id followed by the first five
// hex chars of the SHA-256 of the brief and the attachments.
func TaskID(templateID, brief string, attachments []model.Attachment) string {
	h := sha256.New()
	h.Write([]byte(brief))
	for _, a := range attachments {
		h.Write([]byte(a.Name))
		h.Write([]byte(a.URL))
	}
	return templateID + "-" + hex.EncodeToString(h.Sum(nil))[:5]
}
