// Package pypi provides an HTTP client for the Python Package Index API.
//
// # Overview
//
// This package fetches package metadata from PyPI (https://pypi.org), the
// official repository for Python packages. PyPI exposes no search endpoint
// and no star or download counts, so callers can only look up exact names.
//
// # Usage
//
//	client := pypi.NewClient(backend, cache.TTLPackage)
//
//	pkg, err := client.FetchPackage(ctx, "fastapi", false)  // false = use cache
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(pkg.Name, pkg.Version, pkg.License)
//
// # PackageInfo
//
// [Client.FetchPackage] returns a [PackageInfo] containing:
//
//   - Name, Version: Package identity (latest version)
//   - Summary, Description: Short and long descriptions
//   - Keywords: Split from the comma-separated keywords field
//   - License: License field, else the first license classifier
//   - UpdatedAt: Newest upload among the latest release's files
package pypi
