package io_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/model"
	storageio "github.com/samudraneel05/TDSProject1/internal/storage/io"
)

func TestTemplateYAMLRepositoryGetTemplates(t *testing.T) {
	tests := map[string]struct {
		fs           fstest.MapFS
		path         string
		expTemplates []model.Template
		expErr       bool
	}{
		"Mapping and scalar checks should load.": {
			fs: fstest.MapFS{"t.yaml": &fstest.MapFile{Data: []byte(`
templates:
  - id: fam
    brief: Do {seed}
    attachment:
      name: data.csv
      generator: sales-csv
    checks:
      - text: "#out exists"
        kind: element
        target: out
      - Repo has MIT license
    variants:
      - brief: More
        checks: ["#more exists"]
`)}},
			path: "t.yaml",
			expTemplates: []model.Template{{
				ID:         "fam",
				Brief:      "Do {seed}",
				Attachment: &model.AttachmentSpec{Name: "data.csv", Generator: "sales-csv"},
				Checks: []model.Check{
					{Text: "#out exists", Kind: model.CheckKindElement, Target: "out"},
					{Text: "Repo has MIT license"},
				},
				Variants: []model.TemplateVariant{{Brief: "More", Checks: []model.Check{{Text: "#more exists"}}}},
			}},
		},
		"Duplicated template ids should fail.": {
			fs: fstest.MapFS{"t.yaml": &fstest.MapFile{Data: []byte(`
templates:
  - {id: a, brief: x}
  - {id: a, brief: y}
`)}},
			path:   "t.yaml",
			expErr: true,
		},
		"A declared kind without target should fail.": {
			fs: fstest.MapFS{"t.yaml": &fstest.MapFile{Data: []byte(`
templates:
  - id: a
    brief: x
    checks:
      - {text: "title", kind: title}
`)}},
			path:   "t.yaml",
			expErr: true,
		},
		"Missing file should fail.": {
			fs:     fstest.MapFS{},
			path:   "missing.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := storageio.NewTemplateYAMLRepository(test.fs)
			got, err := repo.GetTemplates(context.Background(), test.path)
			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expTemplates, got)
		})
	}
}

func TestDefaultTemplates(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	templates, err := storageio.DefaultTemplates()
	require.NoError(err)
	require.Len(templates, 3)

	ids := []string{}
	for _, tpl := range templates {
		ids = append(ids, tpl.ID)
		assert.Len(tpl.Variants, 2)
	}
	assert.Equal([]string{"sum-of-sales", "markdown-to-html", "github-user-info"}, ids)

	repo := storageio.NewTemplateYAMLRepository(fstest.MapFS{})
	fromRepo, err := repo.GetTemplates(context.Background(), "")
	require.NoError(err)
	assert.Equal(templates, fromRepo)
}

func TestRosterRepositoryGetParticipants(t *testing.T) {
	tests := map[string]struct {
		fs              fstest.MapFS
		path            string
		expParticipants []model.Participant
		expErr          bool
	}{
		"A YAML roster should load.": {
			fs: fstest.MapFS{"roster.yaml": &fstest.MapFile{Data: []byte(`
participants:
  - email: a@example.com
    endpoint: https://a.example.com/api
    secret: s1
`)}},
			path:            "roster.yaml",
			expParticipants: []model.Participant{{Identity: "a@example.com", Endpoint: "https://a.example.com/api", Secret: "s1"}},
		},
		"A CSV roster should load ignoring unknown columns.": {
			fs: fstest.MapFS{"roster.csv": &fstest.MapFile{Data: []byte("timestamp,email,endpoint,secret\n2025-01-01,a@example.com,https://a.example.com/api,s1\n2025-01-01,b@example.com,http://b.example.com/api,s2\n")}},
			path: "roster.csv",
			expParticipants: []model.Participant{
				{Identity: "a@example.com", Endpoint: "https://a.example.com/api", Secret: "s1"},
				{Identity: "b@example.com", Endpoint: "http://b.example.com/api", Secret: "s2"},
			},
		},
		"A CSV roster without required columns should fail.": {
			fs:     fstest.MapFS{"roster.csv": &fstest.MapFile{Data: []byte("email,secret\na@example.com,s1\n")}},
			path:   "roster.csv",
			expErr: true,
		},
		"A participant with an invalid endpoint should fail.": {
			fs: fstest.MapFS{"roster.yaml": &fstest.MapFile{Data: []byte(`
participants:
  - {email: a@example.com, endpoint: ftp://a, secret: s1}
`)}},
			path:   "roster.yaml",
			expErr: true,
		},
		"Duplicated participants should fail.": {
			fs: fstest.MapFS{"roster.yaml": &fstest.MapFile{Data: []byte(`
participants:
  - {email: a@example.com, endpoint: http://a, secret: s1}
  - {email: a@example.com, endpoint: http://a, secret: s2}
`)}},
			path:   "roster.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := storageio.NewRosterRepository(test.fs)
			got, err := repo.GetParticipants(context.Background(), test.path)
			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)
			assert.Equal(test.expParticipants, got)
		})
	}
}
