// Package httputil provides HTTP helpers shared by registry clients and AI
// providers.
//
// # Pacing
//
// [Pacer] spaces out sequential requests to the same upstream. Deep searches
// issue several request variants in a row; a short pause between them keeps
// clients under registry rate limits without affecting other sources:
//
//	p := httputil.NewPacer(100 * time.Millisecond)
//	for _, q := range variants {
//	    if err := p.Wait(ctx); err != nil {
//	        break
//	    }
//	    fetch(q)
//	}
//
// The first Wait returns immediately. Pacers never retry anything.
//
// # Server-sent events
//
// [ReadEvents] decodes a text/event-stream body into [Event] values, as
// produced by the streaming chat completion APIs.
//
// # Error bodies
//
// [Snippet] reads a bounded prefix of an error response for diagnostics.
package httputil
