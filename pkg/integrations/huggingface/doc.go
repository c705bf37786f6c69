// Package huggingface provides an HTTP client for the Hugging Face Hub API.
//
// # Overview
//
// This package lists models and datasets on https://huggingface.co through
// GET /api/models and GET /api/datasets, sorted by downloads, and reads
// model cards (README.md) from the main revision.
//
// # Usage
//
//	client := huggingface.NewClient(backend, "", cache.TTLSearch)
//
//	models, err := client.ListModels(ctx, "llama", 50)
//	if err != nil {
//	    return err
//	}
//	for _, m := range models {
//	    fmt.Println(m.ID, m.Likes, m.Downloads)
//	}
//
// The Hub has no star counts; likes are its closest equivalent.
package huggingface
