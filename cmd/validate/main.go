// Package main provides a story file checker for authors. It loads each
// story, validates cross references, and runs a trial world build without
// starting a session.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/world"
)

func main() {
	flag.Parse()
	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: validate <story.yaml> [story.yaml ...]")
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		start := time.Now()
		def, err := world.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		if _, err := world.Build(def, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok, %q by %s (%d rooms, %d objects, %d characters) [%s]\n",
			path, def.Meta.Title, def.Meta.Author,
			len(def.Locations), len(def.Objects), len(def.Characters),
			time.Since(start).Round(time.Millisecond))
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d stories failed validation\n", failed, len(paths))
		os.Exit(1)
	}
}
