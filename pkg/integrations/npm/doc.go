// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package searches the npm registry (https://registry.npmjs.org)
// through GET /-/v1/search and fetches package documents, which carry the
// package README.
//
// # Usage
//
//	client := npm.NewClient(backend, cache.TTLSearch)
//
//	res, err := client.Search(ctx, "keywords:react", 50)
//	if err != nil {
//	    return err
//	}
//	for _, obj := range res.Objects {
//	    fmt.Println(obj.Package.Name, obj.Score.Detail.Quality)
//	}
//
//	pkg, err := client.FetchPackage(ctx, "express", false)
//	fmt.Println(len(pkg.Readme))
//
// npm has no star counts. Search hits expose the registry score, whose
// quality component callers may use as a popularity proxy.
package npm
