package typesystem

import (
	"fmt"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// ImportGoPackages loads Go packages with go/packages and registers their
// exported, non-generic named types in u so scripts hosted by a Go program can
// see host objects as native types.
//
// Struct fields become properties, methods become method groups returning
// their first non-error result, slices become arrays and maps become
// Dictionary instantiations. A package function New<T> returning T or *T
// becomes T's constructor. Type names are <import path>.<Name>.
func ImportGoPackages(u *Universe, dir string, patterns ...string) ([]*Type, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	im := &goImporter{u: u, byNamed: make(map[*types.TypeName]*Type), imported: make(map[*Type]bool)}
	var named []*types.Named
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			n, ok := tn.Type().(*types.Named)
			if !ok || (n.TypeParams() != nil && n.TypeParams().Len() > 0) {
				continue
			}
			t := &Type{Name: pkg.PkgPath + "." + name, Kind: goKind(n)}
			if t.Kind != KindInterface {
				t.Base = u.Object()
			}
			if err := u.Register(t); err != nil {
				return nil, err
			}
			im.byNamed[tn] = t
			im.imported[t] = true
			named = append(named, n)
		}
	}

	out := make([]*Type, 0, len(named))
	for _, n := range named {
		t := im.byNamed[n.Obj()]
		im.fill(t, n)
		out = append(out, t)
	}
	for _, pkg := range pkgs {
		im.constructors(pkg.Types)
	}
	return out, nil
}

type goImporter struct {
	u        *Universe
	byNamed  map[*types.TypeName]*Type
	imported map[*Type]bool
}

func goKind(n *types.Named) TypeKind {
	switch n.Underlying().(type) {
	case *types.Interface:
		return KindInterface
	case *types.Struct:
		return KindClass
	}
	return KindStruct
}

func (im *goImporter) fill(t *Type, n *types.Named) {
	if st, ok := n.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Exported() {
				t.Members = append(t.Members, &Property{Name: f.Name(), Type: im.convert(f.Type())})
			}
		}
	}
	var mset *types.MethodSet
	if _, ok := n.Underlying().(*types.Interface); ok {
		mset = types.NewMethodSet(n)
	} else {
		mset = types.NewMethodSet(types.NewPointer(n))
	}
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig := fn.Type().(*types.Signature)
		t.Members = append(t.Members, &MethodGroup{
			Name:      fn.Name(),
			Overloads: []Method{{Params: im.params(sig), ReturnType: im.result(sig)}},
		})
	}
	if sl, ok := n.Underlying().(*types.Slice); ok {
		elem := im.convert(sl.Elem())
		t.DefaultMember = "Item"
		t.Members = append(t.Members, &Property{Name: "Item", Type: elem, Params: []*Type{im.u.MustGet(IntName)}})
		if def := im.u.Get(IListDefName); def != nil {
			if it, err := im.u.Instantiate(def, elem); err == nil {
				t.Interfaces = append(t.Interfaces, it)
			}
		}
	}
}

func (im *goImporter) constructors(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() || !strings.HasPrefix(name, "New") {
			continue
		}
		sig := fn.Type().(*types.Signature)
		ret := im.result(sig)
		if !im.imported[ret] || !strings.EqualFold(ret.SimpleName(), strings.TrimPrefix(name, "New")) {
			continue
		}
		ret.Statics = append(ret.Statics, &MethodGroup{
			Name:        "new",
			Static:      true,
			Constructor: true,
			Overloads:   []Method{{Params: im.params(sig), ReturnType: ret}},
		})
	}
}

func (im *goImporter) params(sig *types.Signature) []*Type {
	out := make([]*Type, sig.Params().Len())
	for i := range out {
		out[i] = im.convert(sig.Params().At(i).Type())
	}
	return out
}

// result is the first non-error result, or void.
func (im *goImporter) result(sig *types.Signature) *Type {
	res := sig.Results()
	for i := 0; i < res.Len(); i++ {
		if !isErrorType(res.At(i).Type()) {
			return im.convert(res.At(i).Type())
		}
	}
	return im.u.MustGet(VoidName)
}

func isErrorType(t types.Type) bool {
	n, ok := t.(*types.Named)
	return ok && n.Obj().Pkg() == nil && n.Obj().Name() == "error"
}

func (im *goImporter) convert(t types.Type) *Type {
	u := im.u
	switch t := unalias(t).(type) {
	case *types.Basic:
		switch t.Kind() {
		case types.Bool, types.UntypedBool:
			return u.MustGet(BoolName)
		case types.Int, types.Int64, types.Uint, types.Uint32, types.Uint64, types.Uintptr:
			return u.MustGet(LongName)
		case types.Int8, types.Int16, types.Int32, types.Uint16, types.UntypedInt, types.UntypedRune:
			return u.MustGet(IntName)
		case types.Uint8:
			return u.MustGet("System.Byte")
		case types.Float32:
			return u.MustGet("System.Single")
		case types.Float64, types.UntypedFloat:
			return u.MustGet(DoubleName)
		case types.String, types.UntypedString:
			return u.MustGet(StringName)
		}
	case *types.Pointer:
		return im.convert(t.Elem())
	case *types.Slice:
		return u.ArrayOf(im.convert(t.Elem()))
	case *types.Array:
		return u.ArrayOf(im.convert(t.Elem()))
	case *types.Map:
		if def := u.Get("System.Collections.Generic.Dictionary`2"); def != nil {
			if d, err := u.Instantiate(def, im.convert(t.Key()), im.convert(t.Elem())); err == nil {
				return d
			}
		}
	case *types.Named:
		if imported, ok := im.byNamed[t.Obj()]; ok {
			return imported
		}
		if pkg := t.Obj().Pkg(); pkg != nil && pkg.Path() == "time" {
			switch t.Obj().Name() {
			case "Time":
				return u.MustGet("System.DateTime")
			case "Duration":
				return u.MustGet("System.TimeSpan")
			}
		}
		if isErrorType(t) {
			return u.MustGet("System.Exception")
		}
		if _, ok := t.Underlying().(*types.Interface); !ok {
			return im.convert(t.Underlying())
		}
	}
	return u.Object()
}
