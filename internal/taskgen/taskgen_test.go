package taskgen_test

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/model"
	storageio "github.com/samudraneel05/TDSProject1/internal/storage/io"
	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

func newDefaultGenerator(t *testing.T) *taskgen.Generator {
	t.Helper()
	templates, err := storageio.DefaultTemplates()
	require.NoError(t, err)
	gen, err := taskgen.NewGenerator(taskgen.GeneratorConfig{Templates: templates})
	require.NoError(t, err)
	return gen
}

func TestGeneratorDeterminism(t *testing.T) {
	gen := newDefaultGenerator(t)

	for _, round := range []int{1, 2} {
		for i := 0; i < 20; i++ {
			seed := "student" + strconv.Itoa(i) + "@example.com:2025-01-01-10"
			t1, err := gen.Generate(seed, round, "")
			require.NoError(t, err)
			t2, err := gen.Generate(seed, round, "")
			require.NoError(t, err)

			assert.Equal(t, t1, t2, "seed %q round %d should be deterministic", seed, round)
		}
	}
}

func TestGeneratorGenerate(t *testing.T) {
	tests := map[string]struct {
		templates []model.Template
		gens      map[string]taskgen.AttachmentGenerator
		round     int
		family    string
		exp       func(t *testing.T, task *model.GeneratedTask)
		expErr    error
	}{
		"Placeholders should be replaced in brief, checks and targets.": {
			templates: []model.Template{{
				ID:    "fam",
				Brief: "Title is 'T {seed}'",
				Checks: []model.Check{
					{Text: "Title 'T {seed}'", Kind: model.CheckKindTitle, Target: "T {seed}"},
					{Text: "Element #el-{seed} exists"},
				},
			}},
			round: 1,
			exp: func(t *testing.T, task *model.GeneratedTask) {
				id := strconv.Itoa(taskgen.PlaceholderID("seed"))
				assert.Equal(t, "fam", task.TemplateID)
				assert.Equal(t, "Title is 'T "+id+"'", task.Brief)
				assert.Equal(t, model.Check{Text: "Title 'T " + id + "'", Kind: model.CheckKindTitle, Target: "T " + id}, task.Checks[0])
				assert.Equal(t, model.Check{Text: "Element #el-" + id + " exists", Kind: model.CheckKindElement, Target: "el-" + id}, task.Checks[1])
				assert.Empty(t, task.Attachments)
			},
		},
		"Later rounds should use a variant of the family template.": {
			templates: []model.Template{
				{ID: "a", Brief: "A", Variants: []model.TemplateVariant{{Brief: "A2", Checks: []model.Check{{Text: "generic"}}}}},
				{ID: "b", Brief: "B", Variants: []model.TemplateVariant{{Brief: "B2"}}},
			},
			round:  2,
			family: "b",
			exp: func(t *testing.T, task *model.GeneratedTask) {
				assert.Equal(t, "b", task.TemplateID)
				assert.Equal(t, "B2", task.Brief)
			},
		},
		"Attachments should be encoded as data URIs.": {
			templates: []model.Template{{ID: "a", Brief: "A", Attachment: &model.AttachmentSpec{Name: "data.txt", Generator: "static"}}},
			gens: map[string]taskgen.AttachmentGenerator{
				"static": func(r *rand.Rand) (string, []byte, error) { return "text/plain", []byte("hello"), nil },
			},
			round: 1,
			exp: func(t *testing.T, task *model.GeneratedTask) {
				require.Len(t, task.Attachments, 1)
				assert.Equal(t, model.Attachment{Name: "data.txt", URL: "data:text/plain;base64,aGVsbG8="}, task.Attachments[0])
			},
		},
		"An unknown attachment generator should fail with a generation error.": {
			templates: []model.Template{{ID: "a", Brief: "A", Attachment: &model.AttachmentSpec{Name: "x", Generator: "missing"}}},
			round:     1,
			expErr:    model.ErrGeneration,
		},
		"A failing attachment generator should fail with a generation error.": {
			templates: []model.Template{{ID: "a", Brief: "A", Attachment: &model.AttachmentSpec{Name: "x", Generator: "broken"}}},
			gens: map[string]taskgen.AttachmentGenerator{
				"broken": func(r *rand.Rand) (string, []byte, error) { return "", nil, errors.New("boom") },
			},
			round:  1,
			expErr: model.ErrGeneration,
		},
		"An unknown family should fail with a generation error.": {
			templates: []model.Template{{ID: "a", Brief: "A", Variants: []model.TemplateVariant{{Brief: "A2"}}}},
			round:     2,
			family:    "zzz",
			expErr:    model.ErrGeneration,
		},
		"A family without variants should fail with a generation error.": {
			templates: []model.Template{{ID: "a", Brief: "A"}},
			round:     2,
			family:    "a",
			expErr:    model.ErrGeneration,
		},
		"An invalid round should fail.": {
			templates: []model.Template{{ID: "a", Brief: "A"}},
			round:     0,
			expErr:    model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			gen, err := taskgen.NewGenerator(taskgen.GeneratorConfig{Templates: test.templates, Attachments: test.gens})
			require.NoError(t, err)

			task, err := gen.Generate("seed", test.round, test.family)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			test.exp(t, task)
		})
	}
}

func TestNewGeneratorEmptyRegistry(t *testing.T) {
	_, err := taskgen.NewGenerator(taskgen.GeneratorConfig{})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestDefaultTemplatesGenerate(t *testing.T) {
	gen := newDefaultGenerator(t)

	for i := 0; i < 30; i++ {
		seed := "s" + strconv.Itoa(i)
		task, err := gen.Generate(seed, 1, "")
		require.NoError(t, err)

		for _, c := range task.Checks {
			assert.NoError(t, c.Validate(), "check %q", c.Text)
			assert.NotContains(t, c.Text, "{seed}")
		}

		switch task.TemplateID {
		case "sum-of-sales":
			require.Len(t, task.Attachments, 1)
			assert.Equal(t, "data.csv", task.Attachments[0].Name)
			assert.True(t, strings.HasPrefix(task.Attachments[0].URL, "data:text/csv;base64,"))
		case "markdown-to-html":
			require.Len(t, task.Attachments, 1)
			assert.Equal(t, "input.md", task.Attachments[0].Name)
		case "github-user-info":
			assert.Empty(t, task.Attachments)
		default:
			t.Fatalf("unknown template %q", task.TemplateID)
		}

		r2, err := gen.Generate(seed, 2, task.TemplateID)
		require.NoError(t, err)
		assert.Equal(t, task.TemplateID, r2.TemplateID)
	}
}

func TestPlaceholderID(t *testing.T) {
	assert := assert.New(t)

	id := taskgen.PlaceholderID("a@example.com:2025-01-01-10")
	assert.Equal(id, taskgen.PlaceholderID("a@example.com:2025-01-01-10"))
	assert.GreaterOrEqual(id, 0)
	assert.Less(id, 10000)
}

func TestTaskID(t *testing.T) {
	assert := assert.New(t)

	atts := []model.Attachment{{Name: "data.csv", URL: "data:text/csv;base64,YQ=="}}
	id := taskgen.TaskID("sum-of-sales", "brief", atts)

	assert.Regexp(`^sum-of-sales-[0-9a-f]{5}$`, id)
	assert.Equal(id, taskgen.TaskID("sum-of-sales", "brief", atts))
	assert.NotEqual(id, taskgen.TaskID("sum-of-sales", "other brief", atts))
}
