package compiler

import (
	"github.com/comnipl/servify/compiler/decl"
	"github.com/comnipl/servify/compiler/extract"
	"github.com/comnipl/servify/compiler/names"
	"github.com/comnipl/servify/compiler/pathres"
	"github.com/comnipl/servify/compiler/plan"
)

// LinkedService is a service with its operation references resolved to
// signatures, in listing order.
type LinkedService struct {
	Module int
	Decl   decl.ServiceDecl
	Ops    []LinkedOp
}

type LinkedOp struct {
	Ref decl.Path
	Sig extract.Signature
}

// exported is one extracted operation and the service its block targets.
type exported struct {
	sig     extract.Signature
	service string
	listed  bool
}

type linker struct {
	resolver *pathres.Resolver
	deriver  *names.Deriver

	services map[string]int
	// ops indexes operations by module path + operation name and by module
	// path + grouping name.
	ops   map[string][]*exported
	order []*exported
	diags []plan.Diagnostic
}

func serviceKey(module []string, name string) string {
	return decl.JoinSegments(append(append([]string(nil), module...), name))
}

// Link resolves every service's operation references against the export
// blocks of the whole unit. blocks holds the extracted signatures per module
// and block index.
func Link(unit decl.Unit, blocks map[int][][]extract.Signature, r *pathres.Resolver, d *names.Deriver) ([]LinkedService, []plan.Diagnostic) {
	l := &linker{
		resolver: r,
		deriver:  d,
		services: make(map[string]int),
		ops:      make(map[string][]*exported),
	}
	for mi, m := range unit.Modules {
		for _, svc := range m.Services {
			key := serviceKey(m.Path, svc.Name)
			if _, dup := l.services[key]; dup {
				l.diags = append(l.diags, plan.Errorf(svc.Pos, plan.CodeDuplicateService,
					"service %s is declared twice in module %q", svc.Name, m.Key()))
				continue
			}
			l.services[key] = mi
		}
	}
	for mi, m := range unit.Modules {
		for bi, block := range m.Blocks {
			var sigs []extract.Signature
			if bi < len(blocks[mi]) {
				sigs = blocks[mi][bi]
			}
			l.indexBlock(m, block, sigs)
		}
	}

	var linked []LinkedService
	// rejected holds services whose impls could not be read. Their exported
	// operations are not reported as unlisted.
	rejected := make(map[string]bool)
	for mi, m := range unit.Modules {
		for _, svc := range m.Services {
			refs, ds := extract.ServiceOperations(svc)
			l.diags = append(l.diags, ds...)
			if plan.HasErrors(ds) {
				rejected[serviceKey(m.Path, svc.Name)] = true
				continue
			}
			linked = append(linked, l.linkService(mi, m, svc, refs))
		}
	}

	for _, e := range l.order {
		if !e.listed && !rejected[e.service] {
			l.diags = append(l.diags, plan.Warnf(e.sig.Pos, plan.CodeUnlistedOperation,
				"operation %s of %s is exported but not listed in the service's impls; it is not generated", e.sig.Name, e.service))
		}
	}
	return linked, l.diags
}

func (l *linker) indexBlock(m decl.Module, block decl.ExportBlock, sigs []extract.Signature) {
	target, ok := l.resolver.Anchor(m.Path, block.Target)
	if !ok || len(target) == 0 {
		l.diags = append(l.diags, plan.Errorf(block.Pos, plan.CodeUnknownService,
			"export target %s climbs above the input root", block.Target))
		return
	}
	service := decl.JoinSegments(target)
	if _, known := l.services[service]; !known {
		l.diags = append(l.diags, plan.Errorf(block.Pos, plan.CodeUnknownService,
			"export target %s does not name a service", block.Target))
		return
	}
	for _, sig := range sigs {
		e := &exported{sig: sig, service: service}
		n := l.deriver.Derive(sig.Service, sig.Name)
		for _, key := range []string{serviceKey(m.Path, sig.Name), serviceKey(m.Path, n.Grouping)} {
			l.ops[key] = append(l.ops[key], e)
		}
		l.order = append(l.order, e)
	}
}

func (l *linker) linkService(mi int, m decl.Module, svc decl.ServiceDecl, refs []decl.Path) LinkedService {
	ls := LinkedService{Module: mi, Decl: svc}
	self := serviceKey(m.Path, svc.Name)
	scope := append(append([]string(nil), m.Path...), svc.Name)
	seen := make(map[*exported]decl.Path, len(refs))

	for _, ref := range refs {
		resolved := l.resolver.Resolve(ref)
		segs, ok := l.resolver.Anchor(scope, resolved)
		if !ok {
			l.diags = append(l.diags, plan.Errorf(svc.Pos, plan.CodeUnknownOperation,
				"service %s: %s climbs above the input root", svc.Name, ref))
			continue
		}
		e := l.lookup(decl.JoinSegments(segs), self)
		if e == nil {
			l.diags = append(l.diags, plan.Errorf(svc.Pos, plan.CodeUnknownOperation,
				"service %s: no exported operation %s", svc.Name, ref))
			continue
		}
		if e.service != self {
			l.diags = append(l.diags, plan.Errorf(svc.Pos, plan.CodeForeignOperation,
				"service %s: %s is an operation of %s", svc.Name, ref, e.service))
			continue
		}
		if prev, dup := seen[e]; dup {
			l.diags = append(l.diags, plan.Errorf(svc.Pos, plan.CodeDuplicateOperation,
				"service %s: %s lists the same operation as %s", svc.Name, ref, prev))
			continue
		}
		seen[e] = ref
		e.listed = true
		ls.Ops = append(ls.Ops, LinkedOp{Ref: resolved, Sig: e.sig})
	}
	return ls
}

// lookup prefers an operation of want when a bare name is shared by several
// services of one module.
func (l *linker) lookup(key, want string) *exported {
	candidates := l.ops[key]
	for _, e := range candidates {
		if e.service == want {
			return e
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}
