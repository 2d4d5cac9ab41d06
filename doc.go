// Package orgmd2xhs renders Org and Markdown documents as fixed-size image
// carousels for social media posts using headless Chrome.
//
// # Quick Start
//
// Create a service, render a document, and close when done:
//
//	svc := orgmd2xhs.New()
//	defer svc.Close()
//
//	result, err := svc.Render(ctx, orgmd2xhs.Input{
//	    Source: "#+TITLE: Hello\n\nSome content.",
//	    Format: orgmd2xhs.FormatOrg,
//	    Name:   "hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Dir, result.Pages)
//
// The result directory contains numbered page images (001.png, 002.png, ...),
// the composed HTML snapshot (render.html), a plain-text caption
// (caption.txt), and a metadata record (meta.json). Every image is exactly
// the configured width and height.
//
// # Rendering Pipeline
//
// Rendering follows these stages:
//
//  1. Document conversion to an HTML fragment (pandoc for Org, Goldmark
//     for Markdown) plus title extraction
//  2. Template rendering: the fragment is wrapped in a styled HTML document
//     that declares the page box model as CSS custom properties
//  3. Pagination: the content is split greedily into fixed-height pages by
//     attaching nodes to live pages in headless Chrome and measuring them
//  4. Capture: each page element is screenshotted at 2x device scale
//  5. Normalization: captures are resampled to the exact target dimensions
//     and every output is verified before the run reports success
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := orgmd2xhs.New(
//	    orgmd2xhs.WithTimeout(2 * time.Minute),
//	    orgmd2xhs.WithRenderConfig(orgmd2xhs.RenderConfig{
//	        Width:    1242,
//	        Height:   1660,
//	        Template: "dark",
//	        OutDir:   "dist",
//	        MaxPages: 30,
//	    }),
//	)
//
// # Parallel Processing
//
// For batch rendering, use ServicePool to manage multiple browser instances:
//
//	pool := orgmd2xhs.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	result, err := svc.Render(ctx, input)
//
// Each render run uses its own browser page and output directory, so runs
// never share mutable state.
//
// # Requirements
//
// Page capture requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run. Use ROD_BROWSER_BIN
// to point at a pre-installed binary (the Chrome sandbox is disabled
// automatically in CI and containerized environments). Org conversion
// additionally requires pandoc on PATH; Markdown conversion is pure Go.
package orgmd2xhs
