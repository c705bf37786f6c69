package sources

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitseeker/pkg/integrations/huggingface"
	"github.com/matzehuels/gitseeker/pkg/project"
)

const hfDatasetLimit = 20

// HuggingFace searches models, and in deep mode datasets, on the Hub.
//
// Mapping from [huggingface.Repo]:
//
//	native id   model id; dataset ids are prefixed "datasets/"
//	name        last segment of the id
//	fullName    native id, so the model card resolves from it
//	description description, else pipeline_tag, else "AI Model"
//	url         huggingface.co/<id>, or huggingface.co/datasets/<id>
//	stars       likes (the Hub has no stars; likes are the closest signal)
//	downloads   downloads
//	language    library_name, else "transformers"
//	topics      tags
//	author      author, else the first id segment; avatar from cdn-avatars
//	updatedAt   lastModified
//	license     the "license:<id>" tag
type HuggingFace struct {
	Client   *huggingface.Client
	Logger   *log.Logger
	Interval time.Duration
}

// NewHuggingFace creates the Hugging Face adapter.
func NewHuggingFace(client *huggingface.Client, logger *log.Logger) *HuggingFace {
	return &HuggingFace{Client: client, Logger: orDefault(logger), Interval: DeepInterval}
}

// Source returns [project.HuggingFace].
func (a *HuggingFace) Source() project.Source { return project.HuggingFace }

// Search lists models matching query; deep mode also lists datasets.
func (a *HuggingFace) Search(ctx context.Context, query string, deep bool) project.Result {
	seq := newSequence(a.Logger, project.HuggingFace, query, a.Interval)
	var out []project.Project

	seq.step(ctx, "models", func(ctx context.Context) error {
		models, err := a.Client.ListModels(ctx, query, PageSize)
		if err != nil {
			return err
		}
		for _, m := range models {
			if m.ID != "" {
				out = append(out, mapHuggingFace(m, huggingface.KindModel))
			}
		}
		return nil
	})
	if deep {
		seq.step(ctx, "datasets", func(ctx context.Context) error {
			sets, err := a.Client.ListDatasets(ctx, query, hfDatasetLimit)
			if err != nil {
				return err
			}
			for _, d := range sets {
				if d.ID != "" {
					out = append(out, mapHuggingFace(d, huggingface.KindDataset))
				}
			}
			return nil
		})
	}

	out = dedupe(out, func(p project.Project) string { return p.ID })
	return project.NewResult(project.HuggingFace, out)
}

func mapHuggingFace(r huggingface.Repo, kind huggingface.Kind) project.Project {
	native := r.ID
	url := "https://huggingface.co/" + r.ID
	if kind == huggingface.KindDataset {
		native = "datasets/" + r.ID
		url = "https://huggingface.co/datasets/" + r.ID
	}
	owner, _, _ := strings.Cut(r.ID, "/")

	p := project.New(project.HuggingFace, native)
	p.Name = r.ID[strings.LastIndex(r.ID, "/")+1:]
	p.FullName = native
	p.URL = url
	p.Description = firstNonEmpty(r.Description, r.PipelineTag, "AI Model")
	p.Stars = r.Likes
	p.Downloads = r.Downloads
	p.Language = firstNonEmpty(r.LibraryName, "transformers")
	if r.Tags != nil {
		p.Topics = r.Tags
	}
	p.Author = project.Author{
		Name:   firstNonEmpty(r.Author, owner),
		Avatar: "https://cdn-avatars.huggingface.co/v1/production/uploads/" + owner + "/avatar.jpg",
	}
	p.UpdatedAt = r.LastModified
	p.License = r.License()
	return p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
