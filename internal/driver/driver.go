// Package driver orchestrates one full run: read the manifest, seed the
// file queue, drain it (it may grow as cross-class invocations discover
// new files), parse each file, resolve each class's local invocations as
// soon as it finishes, then run the two interprocedural resolution phases
// once the queue is empty. It mirrors extract.py's top-level loop and
// cpu.Cpu's loop() shape: repeatedly pull the next unit of work and
// advance shared state, one unit at a time.
package driver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"androcfg/internal/ir"
	"androcfg/internal/manifest"
	"androcfg/internal/parser"
	"androcfg/internal/resolve"
	"androcfg/internal/source"
)

// Result is everything a run produces besides the Program itself: the
// manifest's reported permissions and every resolution phase's failure
// report, aggregated for a caller to log or inspect.
type Result struct {
	Program     *ir.Program
	Permissions []string

	LocalFailures  map[string][]string // keyed by class full path
	GlobalFailures []string
	LibFailures    []string
}

// Run executes one full pass over the smali tree rooted at store.Root,
// starting from the activity files manifestPath declares.
func Run(store *source.Store, manifestPath string, log *zap.SugaredLogger) (*Result, error) {
	man, err := manifest.Read(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("driver: read manifest: %w", err)
	}
	if len(man.ActivityFiles) == 0 {
		return nil, fmt.Errorf("driver: manifest declares no activities to process")
	}
	if len(man.Permissions) == 0 {
		log.Warn("manifest declares no permissions")
	}

	prog := ir.NewProgram(man.ActivityFiles)
	prog.Manifest = ir.ManifestInfo{Permissions: man.Permissions}

	result := &Result{
		Program:       prog,
		Permissions:   man.Permissions,
		LocalFailures: map[string][]string{},
	}

	p := parser.New(prog, func(format string, args ...any) {
		log.Warnf(format, args...)
	})

	fileCount := 0
	for i := 0; i < len(prog.FileQueue); i++ {
		file := prog.FileQueue[i]
		fileCount++

		contents, err := store.Read(file)
		if err != nil {
			log.Warnf("failed to open file %s, reclassifying as library reference: %v", file, err)
			reclassifyAsLibrary(prog, file)
			continue
		}

		classCount := len(prog.Classes)
		p.ParseFile(contents)
		if len(prog.Classes) == classCount {
			// the file added no class; LastClass would be an earlier one
			continue
		}

		class := p.LastClass()

		if failures := resolve.ResolveClassInvocations(class); len(failures) > 0 {
			log.Warnf("local invocation resolution failed for class %s", class.FullPath())
			result.LocalFailures[class.FullPath()] = failures
		}
	}

	result.GlobalFailures = resolve.ResolveGlobalInvocations(prog)
	if len(result.GlobalFailures) > 0 {
		log.Warn("global invocation resolution failed")
	}

	result.LibFailures = resolve.ResolveLibraryInvocations(prog)
	if len(result.LibFailures) > 0 {
		log.Warn("library invocation resolution failed")
	}

	log.Infof("consumed %d files", fileCount)
	return result, nil
}

// reclassifyAsLibrary demotes every cross-class invocation whose target
// file is the one that just failed to open from its owning class's
// InvocationsGlobal to InvocationsLib, so ResolveLibraryInvocations
// synthesizes a stub for it instead of ResolveGlobalInvocations permanently
// failing to find a class that was never parsed.
func reclassifyAsLibrary(prog *ir.Program, file string) {
	for _, c := range prog.Classes {
		var kept []ir.CrossInvocation
		for _, inv := range c.InvocationsGlobal {
			invFile := "smali/" + strings.TrimPrefix(inv.TargetClass, "L") + ".smali"
			if invFile == file {
				c.InvocationsLib = append(c.InvocationsLib, inv)
				continue
			}
			kept = append(kept, inv)
		}
		c.InvocationsGlobal = kept
	}
}
