// Package pkg provides the libraries behind rainbowsmoke, a greedy painter
// that places every color of a palette onto a canvas so each lands next to
// the colors it resembles most.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. [core] - The painting algorithm (colors, grid geometry, canvas, frontier, engine)
//  2. [palette] and [sink] - Getting colors in and images out
//  3. [pipeline] - Orchestration (load → paint → encode) with caching
//
// Supporting packages provide caching ([cache]), live run state ([session]),
// configuration ([config]), HTTP fetching ([httputil]), hooks
// ([observability]), and structured errors ([errors]).
//
// # Architecture
//
// The typical data flow through rainbowsmoke:
//
//	RGB cube or image
//	       ↓
//	  [palette] package (one color per canvas cell)
//	       ↓
//	  [core/smoke] package (shuffle, then place each color greedily)
//	       ↓
//	  [sink] package (PNG/JPEG/GIF/BMP/TIFF)
//
// # Quick Start
//
// Paint a uniform palette and write it to disk:
//
//	import (
//	    "github.com/matzehuels/rainbowsmoke/pkg/core/smoke"
//	    "github.com/matzehuels/rainbowsmoke/pkg/palette"
//	    "github.com/matzehuels/rainbowsmoke/pkg/sink"
//	)
//
//	colors, _ := palette.Uniform(256, 128)
//	c, _ := smoke.Paint(colors, 256, 128, smoke.Options{Seed: 42})
//	_ = sink.Save("out/output.png", c)
//
// Or let [pipeline.Runner] do the same with caching and progress reporting.
//
// # Command-Line Tool
//
// The rainbowsmoke CLI (cmd/rainbowsmoke) wraps these packages:
//
//	rainbowsmoke paint --rgb
//	rainbowsmoke paint --image photo.jpg --tui
//	rainbowsmoke serve
//
// [core]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/core
// [palette]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/palette
// [sink]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/config
// [httputil]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/errors
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/rainbowsmoke/pkg/pipeline#Runner
package pkg
