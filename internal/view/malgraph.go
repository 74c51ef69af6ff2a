package view

import "androcfg/internal/ir"

// LibraryCallCount is one entry of the running library-call frequency
// tally a MalGraph-style feature pipeline consumes.
type LibraryCallCount struct {
	Count    int `json:"count"`
	MethodID int `json:"method_id"`
}

// TallyLibraryCalls counts how many times each distinct library method is
// invoked across the whole program, keyed by "<class/path>-<methodName>".
// existing seeds (and is mutated into) the running count, so a caller can
// persist it across files/runs the way extract_library_functions persists
// to a JSON file on disk. Must run after library invocation resolution has
// synthesized the stub classes/methods it looks targets up against.
func TallyLibraryCalls(p *ir.Program, existing map[string]LibraryCallCount) map[string]LibraryCallCount {
	if existing == nil {
		existing = map[string]LibraryCallCount{}
	}

	for _, c := range p.Classes {
		for _, inv := range c.InvocationsLib {
			var targetClass *ir.Class
			for _, candidate := range p.Classes {
				if candidate.FullPath() == inv.TargetClass {
					targetClass = candidate
					break
				}
			}
			if targetClass == nil {
				continue
			}

			name, params, ret := ir.ParseMethodDirective(".method T T " + inv.TargetMethod)
			var targetMethod *ir.Method
			for _, m := range targetClass.Methods {
				if m.Name == name && ir.SameParams(m.ParamTypes, params) && m.ReturnType == ret {
					targetMethod = m
					break
				}
			}
			if targetMethod == nil {
				continue
			}

			identifier := targetClass.FullPath() + "-" + targetMethod.Name
			entry := existing[identifier]
			if entry.Count == 0 {
				entry.MethodID = targetMethod.ID
			}
			entry.Count++
			existing[identifier] = entry
		}
	}

	return existing
}

