package typesystem

// builtins populates a universe. It runs with the universe lock held, so it
// calls the *Locked helpers only.
type builtins struct {
	u *Universe
}

func (b builtins) define(name, short string, kind TypeKind, base *Type) *Type {
	t := &Type{Name: name, Short: short, Kind: kind, Base: base}
	if err := b.u.registerLocked(t); err != nil {
		panic(err)
	}
	return t
}

// generic defines an open generic definition with the given parameter names.
func (b builtins) generic(name string, kind TypeKind, base *Type, params ...string) *Type {
	t := b.define(name, "", kind, base)
	for _, p := range params {
		t.TypeArgs = append(t.TypeArgs, &Type{Name: name + "+" + p, Short: p, Kind: KindGenericParameter})
	}
	return t
}

func (b builtins) inst(def *Type, args ...*Type) *Type {
	t, err := b.u.instantiateLocked(def, args)
	if err != nil {
		panic(err)
	}
	return t
}

// self is the open instantiation of a generic definition over its own
// parameters, e.g. List[T] inside List`1.
func (b builtins) self(def *Type) *Type { return b.inst(def, def.TypeArgs...) }

func (b builtins) arr(t *Type) *Type { return b.u.arrayOfLocked(t) }

func prop(name string, t *Type) *Property { return &Property{Name: name, Type: t} }

func roProp(name string, t *Type) *Property { return &Property{Name: name, Type: t, ReadOnly: true} }

func indexer(name string, t *Type, params ...*Type) *Property {
	return &Property{Name: name, Type: t, Params: params}
}

func sprop(name string, t *Type) *Property { return &Property{Name: name, Type: t, Static: true, ReadOnly: true} }

func sfield(name string, t *Type) *Field { return &Field{Name: name, Type: t, Static: true} }

func method(name string, ret *Type, params ...*Type) *MethodGroup {
	return &MethodGroup{Name: name, Overloads: []Method{{Params: params, ReturnType: ret}}}
}

func smethod(name string, ret *Type, params ...*Type) *MethodGroup {
	m := method(name, ret, params...)
	m.Static = true
	return m
}

// overloads builds a group whose overloads differ only in return type.
func overloads(name string, rets ...*Type) *MethodGroup {
	m := &MethodGroup{Name: name}
	for _, r := range rets {
		m.Overloads = append(m.Overloads, Method{ReturnType: r})
	}
	return m
}

func ctor(t *Type, paramLists ...[]*Type) *MethodGroup {
	m := &MethodGroup{Name: "new", Static: true, Constructor: true}
	if len(paramLists) == 0 {
		paramLists = [][]*Type{nil}
	}
	for _, p := range paramLists {
		m.Overloads = append(m.Overloads, Method{Params: p, ReturnType: t})
	}
	return m
}

func registerBuiltins(u *Universe) {
	b := builtins{u: u}

	// Types first, members once everything they mention exists.
	obj := b.define(ObjectName, "object", KindClass, nil)
	valueType := b.define("System.ValueType", "", KindClass, obj)
	enum := b.define("System.Enum", "enum", KindClass, valueType)
	typ := b.define("System.Type", "type", KindClass, obj)
	void := b.define(VoidName, "void", KindVoid, nil)
	str := b.define(StringName, "string", KindClass, obj)
	char := b.define("System.Char", "char", KindStruct, valueType)
	boolT := b.define(BoolName, "bool", KindStruct, valueType)
	byteT := b.define("System.Byte", "byte", KindStruct, valueType)
	intT := b.define(IntName, "int", KindStruct, valueType)
	longT := b.define(LongName, "long", KindStruct, valueType)
	single := b.define("System.Single", "float", KindStruct, valueType)
	u.alias("single", single)
	dbl := b.define(DoubleName, "double", KindStruct, valueType)
	dec := b.define("System.Decimal", "decimal", KindStruct, valueType)
	dt := b.define("System.DateTime", "datetime", KindStruct, valueType)
	ts := b.define("System.TimeSpan", "timespan", KindStruct, valueType)
	guid := b.define("System.Guid", "guid", KindStruct, valueType)
	version := b.define("System.Version", "version", KindClass, obj)
	exc := b.define("System.Exception", "exception", KindClass, obj)
	array := b.define(ArrayName, "array", KindClass, obj)

	enumerator := b.define("System.Collections.IEnumerator", "", KindInterface, nil)
	enumerable := b.define("System.Collections.IEnumerable", "", KindInterface, nil)
	collection := b.define("System.Collections.ICollection", "", KindInterface, nil)
	dictionary := b.define("System.Collections.IDictionary", "", KindInterface, nil)

	genEnumerator := b.generic("System.Collections.Generic.IEnumerator`1", KindInterface, nil, "T")
	genEnumerable := b.generic(IEnumerableDefName, KindInterface, nil, "T")
	genCollection := b.generic("System.Collections.Generic.ICollection`1", KindInterface, nil, "T")
	genList := b.generic(IListDefName, KindInterface, nil, "T")
	kvp := b.generic("System.Collections.Generic.KeyValuePair`2", KindStruct, valueType, "TKey", "TValue")
	genDict := b.generic(IDictionaryDefName, KindInterface, nil, "TKey", "TValue")
	list := b.generic("System.Collections.Generic.List`1", KindClass, obj, "T")
	dict := b.generic("System.Collections.Generic.Dictionary`2", KindClass, obj, "TKey", "TValue")

	hashtable := b.define(HashtableName, "hashtable", KindClass, obj)
	ordered := b.define("System.Collections.Specialized.OrderedDictionary", "ordered", KindClass, obj)
	entry := b.define("System.Collections.DictionaryEntry", "", KindStruct, valueType)
	arrayList := b.define("System.Collections.ArrayList", "arraylist", KindClass, obj)

	scriptBlock := b.define(ScriptBlockName, "scriptblock", KindClass, obj)
	psMethod := b.define(PSMethodName, "", KindClass, obj)
	psObject := b.define("System.Management.Automation.PSObject", "psobject", KindClass, obj)
	b.define("System.Management.Automation.PSCustomObject", "pscustomobject", KindClass, obj)
	switchT := b.define("System.Management.Automation.SwitchParameter", "switch", KindStruct, valueType)
	commandInfo := b.define("System.Management.Automation.CommandInfo", "", KindClass, obj)
	invocation := b.define("System.Management.Automation.InvocationInfo", "", KindClass, obj)
	cmdlet := b.define("System.Management.Automation.PSCmdlet", "", KindClass, obj)
	engine := b.define("System.Management.Automation.EngineIntrinsics", "", KindClass, obj)
	host := b.define("System.Management.Automation.Host.PSHost", "", KindClass, obj)
	pathInfo := b.define("System.Management.Automation.PathInfo", "", KindClass, obj)
	errorRecord := b.define("System.Management.Automation.ErrorRecord", "", KindClass, obj)
	cimInstance := b.define(CimInstanceName, "ciminstance", KindClass, obj)
	cimClass := b.define("Microsoft.Management.Infrastructure.CimClass", "", KindClass, obj)

	fsInfo := b.define("System.IO.FileSystemInfo", "", KindClass, obj)
	fileInfo := b.define("System.IO.FileInfo", "", KindClass, fsInfo)
	dirInfo := b.define("System.IO.DirectoryInfo", "", KindClass, fsInfo)
	process := b.define("System.Diagnostics.Process", "", KindClass, obj)
	serviceStatus := b.define("System.ServiceProcess.ServiceControllerStatus", "", KindEnum, enum)
	service := b.define("System.ServiceProcess.ServiceController", "", KindClass, obj)
	regex := b.define("System.Text.RegularExpressions.Regex", "regex", KindClass, obj)
	match := b.define("System.Text.RegularExpressions.Match", "", KindClass, obj)

	// Generic interfaces, innermost first.
	{
		t := genEnumerator.TypeArgs[0]
		genEnumerator.Interfaces = []*Type{enumerator}
		genEnumerator.Members = []Member{roProp("Current", t)}
	}
	enumerator.Members = []Member{roProp("Current", obj), method("MoveNext", boolT), method("Reset", void)}
	enumerable.Members = []Member{method("GetEnumerator", enumerator)}
	collection.Interfaces = []*Type{enumerable}
	collection.Members = []Member{roProp("Count", intT)}
	dictionary.Interfaces = []*Type{collection, enumerable}
	dictionary.DefaultMember = "Item"
	dictionary.Members = []Member{
		indexer("Item", obj, obj), roProp("Keys", collection), roProp("Values", collection),
		method("Contains", boolT, obj), method("Add", void, obj, obj), method("Remove", void, obj),
	}
	{
		t := genEnumerable.TypeArgs[0]
		genEnumerable.Interfaces = []*Type{enumerable}
		genEnumerable.Members = []Member{method("GetEnumerator", b.inst(genEnumerator, t))}
	}
	{
		t := genCollection.TypeArgs[0]
		genCollection.Interfaces = []*Type{b.inst(genEnumerable, t), enumerable}
		genCollection.Members = []Member{
			roProp("Count", intT), method("Add", void, t), method("Contains", boolT, t),
			method("Remove", boolT, t), method("Clear", void),
		}
	}
	{
		t := genList.TypeArgs[0]
		genList.Interfaces = []*Type{b.inst(genCollection, t), b.inst(genEnumerable, t), enumerable}
		genList.DefaultMember = "Item"
		genList.Members = []Member{indexer("Item", t, intT), method("IndexOf", intT, t), method("Insert", void, intT, t)}
	}
	{
		k, v := kvp.TypeArgs[0], kvp.TypeArgs[1]
		kvp.Members = []Member{roProp("Key", k), roProp("Value", v)}
	}
	{
		k, v := genDict.TypeArgs[0], genDict.TypeArgs[1]
		pair := b.inst(kvp, k, v)
		genDict.Interfaces = []*Type{b.inst(genCollection, pair), b.inst(genEnumerable, pair), enumerable}
		genDict.DefaultMember = "Item"
		genDict.Members = []Member{
			indexer("Item", v, k), roProp("Keys", b.inst(genCollection, k)), roProp("Values", b.inst(genCollection, v)),
			method("ContainsKey", boolT, k), method("TryGetValue", boolT, k, v), method("Add", void, k, v),
			method("Remove", boolT, k),
		}
	}
	{
		t := list.TypeArgs[0]
		self := b.self(list)
		list.Interfaces = []*Type{b.inst(genList, t), b.inst(genCollection, t), b.inst(genEnumerable, t), enumerable}
		list.DefaultMember = "Item"
		list.Members = []Member{
			roProp("Count", intT), prop("Capacity", intT), indexer("Item", t, intT),
			method("Add", void, t), method("AddRange", void, b.inst(genEnumerable, t)), method("Clear", void),
			method("Contains", boolT, t), method("IndexOf", intT, t), method("Insert", void, intT, t),
			method("Remove", boolT, t), method("RemoveAt", void, intT), method("Reverse", void), method("Sort", void),
			method("ToArray", b.arr(t)), method("GetRange", self, intT, intT), method("Find", t, obj),
			method("FindAll", self, obj), method("GetEnumerator", b.inst(genEnumerator, t)),
		}
		list.Statics = []Member{ctor(self, nil, []*Type{intT}, []*Type{b.inst(genEnumerable, t)})}
	}
	{
		k, v := dict.TypeArgs[0], dict.TypeArgs[1]
		self := b.self(dict)
		pair := b.inst(kvp, k, v)
		dict.Interfaces = []*Type{
			b.inst(genDict, k, v), b.inst(genCollection, pair), b.inst(genEnumerable, pair),
			dictionary, collection, enumerable,
		}
		dict.DefaultMember = "Item"
		dict.Members = []Member{
			roProp("Count", intT), indexer("Item", v, k),
			roProp("Keys", b.inst(genCollection, k)), roProp("Values", b.inst(genCollection, v)),
			method("Add", void, k, v), method("Clear", void), method("ContainsKey", boolT, k),
			method("ContainsValue", boolT, v), method("Remove", boolT, k), method("TryGetValue", boolT, k, v),
			method("GetEnumerator", b.inst(genEnumerator, pair)),
		}
		dict.Statics = []Member{ctor(self, nil, []*Type{intT})}
	}

	obj.Members = []Member{
		method("ToString", str), method("GetType", typ), method("GetHashCode", intT), method("Equals", boolT, obj),
	}
	obj.Statics = []Member{
		ctor(obj), smethod("Equals", boolT, obj, obj), smethod("ReferenceEquals", boolT, obj, obj),
	}
	typ.Members = []Member{
		roProp("Name", str), roProp("FullName", str), roProp("Namespace", str), roProp("BaseType", typ),
		roProp("IsArray", boolT), roProp("IsValueType", boolT), method("GetElementType", typ),
	}
	typ.Statics = []Member{smethod("GetType", typ, str)}

	str.Interfaces = []*Type{b.inst(genEnumerable, char), enumerable}
	str.DefaultMember = "Chars"
	str.Members = []Member{
		roProp("Length", intT), indexer("Chars", char, intT),
		method("Substring", str, intT), method("ToUpper", str), method("ToLower", str), method("ToUpperInvariant", str),
		method("ToLowerInvariant", str), method("Trim", str), method("TrimStart", str), method("TrimEnd", str),
		method("Replace", str, str, str), method("Split", b.arr(str)), method("Contains", boolT, str),
		method("StartsWith", boolT, str), method("EndsWith", boolT, str), method("IndexOf", intT, str),
		method("LastIndexOf", intT, str), method("ToCharArray", b.arr(char)), method("PadLeft", str, intT),
		method("PadRight", str, intT), method("Insert", str, intT, str), method("Remove", str, intT),
		method("Normalize", str), method("CompareTo", intT, obj),
	}
	str.Statics = []Member{
		ctor(str, []*Type{char, intT}, []*Type{b.arr(char)}), sfield("Empty", str),
		smethod("Join", str, str, b.arr(obj)), smethod("Format", str, str, b.arr(obj)),
		smethod("Concat", str, b.arr(obj)), smethod("IsNullOrEmpty", boolT, str),
		smethod("IsNullOrWhiteSpace", boolT, str), smethod("Compare", intT, str, str),
		smethod("Equals", boolT, str, str),
	}

	char.Members = []Member{method("CompareTo", intT, obj)}
	char.Statics = []Member{
		sfield("MaxValue", char), sfield("MinValue", char), smethod("IsDigit", boolT, char),
		smethod("IsLetter", boolT, char), smethod("IsWhiteSpace", boolT, char), smethod("ToUpper", char, char),
		smethod("ToLower", char, char), smethod("Parse", char, str),
	}
	boolT.Members = []Member{method("CompareTo", intT, obj)}
	boolT.Statics = []Member{
		sfield("TrueString", str), sfield("FalseString", str), smethod("Parse", boolT, str),
		smethod("TryParse", boolT, str, boolT),
	}
	for _, n := range []*Type{byteT, intT, longT, single, dbl, dec} {
		n.Members = []Member{method("CompareTo", intT, obj), method("Equals", boolT, obj)}
		n.Statics = []Member{
			sfield("MaxValue", n), sfield("MinValue", n), smethod("Parse", n, str), smethod("TryParse", boolT, str, n),
		}
	}
	dbl.Statics = append(dbl.Statics,
		sfield("NaN", dbl), sfield("PositiveInfinity", dbl), sfield("NegativeInfinity", dbl),
		smethod("IsNaN", boolT, dbl))
	dec.Statics = append(dec.Statics, smethod("Round", dec, dec))

	dt.Members = []Member{
		roProp("Year", intT), roProp("Month", intT), roProp("Day", intT), roProp("Hour", intT),
		roProp("Minute", intT), roProp("Second", intT), roProp("Millisecond", intT), roProp("DayOfYear", intT),
		roProp("Ticks", longT), roProp("Date", dt), roProp("TimeOfDay", ts),
		method("AddDays", dt, dbl), method("AddHours", dt, dbl), method("AddMinutes", dt, dbl),
		method("AddSeconds", dt, dbl), method("AddMilliseconds", dt, dbl), method("AddMonths", dt, intT),
		method("AddYears", dt, intT), method("Add", dt, ts), overloads("Subtract", ts, dt),
		method("ToUniversalTime", dt), method("ToLocalTime", dt), method("ToShortDateString", str),
		method("ToLongDateString", str), method("ToString", str, str), method("CompareTo", intT, obj),
	}
	dt.Statics = []Member{
		ctor(dt, []*Type{intT, intT, intT}, []*Type{longT}), sprop("Now", dt), sprop("UtcNow", dt),
		sprop("Today", dt), sfield("MinValue", dt), sfield("MaxValue", dt), smethod("Parse", dt, str),
		smethod("ParseExact", dt, str, str, obj), smethod("DaysInMonth", intT, intT, intT),
		smethod("IsLeapYear", boolT, intT),
	}
	ts.Members = []Member{
		roProp("Days", intT), roProp("Hours", intT), roProp("Minutes", intT), roProp("Seconds", intT),
		roProp("Milliseconds", intT), roProp("Ticks", longT), roProp("TotalDays", dbl), roProp("TotalHours", dbl),
		roProp("TotalMinutes", dbl), roProp("TotalSeconds", dbl), roProp("TotalMilliseconds", dbl),
		method("Add", ts, ts), method("Subtract", ts, ts), method("Negate", ts), method("Duration", ts),
	}
	ts.Statics = []Member{
		ctor(ts, []*Type{intT, intT, intT}, []*Type{longT}), sfield("Zero", ts),
		smethod("FromDays", ts, dbl), smethod("FromHours", ts, dbl), smethod("FromMinutes", ts, dbl),
		smethod("FromSeconds", ts, dbl), smethod("FromMilliseconds", ts, dbl), smethod("Parse", ts, str),
	}
	guid.Members = []Member{method("ToByteArray", b.arr(byteT))}
	guid.Statics = []Member{ctor(guid, []*Type{str}), sfield("Empty", guid), smethod("NewGuid", guid), smethod("Parse", guid, str)}
	version.Members = []Member{
		roProp("Major", intT), roProp("Minor", intT), roProp("Build", intT), roProp("Revision", intT),
		method("CompareTo", intT, obj),
	}
	version.Statics = []Member{ctor(version, []*Type{str}, []*Type{intT, intT}), smethod("Parse", version, str)}
	exc.Members = []Member{
		roProp("Message", str), roProp("InnerException", exc), roProp("StackTrace", str), prop("Source", str),
		prop("HResult", intT), method("GetBaseException", exc),
	}
	exc.Statics = []Member{ctor(exc, nil, []*Type{str}, []*Type{str, exc})}

	array.Interfaces = []*Type{collection, enumerable}
	array.Members = []Member{
		roProp("Length", intT), roProp("LongLength", longT), roProp("Rank", intT),
		method("GetValue", obj, intT), method("SetValue", void, obj, intT), method("GetLength", intT, intT),
		method("Clone", obj), method("CopyTo", void, array, intT),
	}
	array.Statics = []Member{
		smethod("IndexOf", intT, array, obj), smethod("Reverse", void, array), smethod("Sort", void, array),
		smethod("Clear", void, array, intT, intT), smethod("CreateInstance", array, typ, intT),
	}

	hashtable.Interfaces = []*Type{dictionary, collection, enumerable}
	hashtable.DefaultMember = "Item"
	hashtable.Members = []Member{
		roProp("Count", intT), indexer("Item", obj, obj), roProp("Keys", collection), roProp("Values", collection),
		method("Add", void, obj, obj), method("Remove", void, obj), method("Clear", void),
		method("ContainsKey", boolT, obj), method("ContainsValue", boolT, obj), method("Contains", boolT, obj),
		method("Clone", obj), method("GetEnumerator", enumerator),
	}
	hashtable.Statics = []Member{ctor(hashtable, nil, []*Type{intT})}
	ordered.Interfaces = []*Type{dictionary, collection, enumerable}
	ordered.DefaultMember = "Item"
	ordered.Members = []Member{
		roProp("Count", intT), indexer("Item", obj, obj), roProp("Keys", collection), roProp("Values", collection),
		method("Add", void, obj, obj), method("Insert", void, intT, obj, obj), method("Remove", void, obj),
		method("Contains", boolT, obj),
	}
	ordered.Statics = []Member{ctor(ordered)}
	entry.Members = []Member{prop("Key", obj), prop("Value", obj)}
	arrayList.Interfaces = []*Type{collection, enumerable}
	arrayList.DefaultMember = "Item"
	arrayList.Members = []Member{
		roProp("Count", intT), prop("Capacity", intT), indexer("Item", obj, intT), method("Add", intT, obj),
		method("AddRange", void, collection), method("Remove", void, obj), method("RemoveAt", void, intT),
		method("Contains", boolT, obj), method("Clear", void), method("ToArray", b.arr(obj)),
	}
	arrayList.Statics = []Member{ctor(arrayList, nil, []*Type{intT})}

	scriptBlock.Members = []Member{
		roProp("File", str), roProp("IsFilter", boolT), method("Invoke", b.arr(psObject), b.arr(obj)),
		method("InvokeReturnAsIs", obj, b.arr(obj)), method("GetNewClosure", scriptBlock),
	}
	scriptBlock.Statics = []Member{smethod("Create", scriptBlock, str)}
	psMethod.Members = []Member{
		roProp("Name", str), roProp("OverloadDefinitions", b.arr(str)), roProp("MemberType", str),
		method("Invoke", obj, b.arr(obj)),
	}
	psObject.Members = []Member{
		roProp("BaseObject", obj), roProp("ImmediateBaseObject", obj), roProp("TypeNames", b.inst(list, str)),
		method("Copy", psObject),
	}
	psObject.Statics = []Member{ctor(psObject, nil, []*Type{obj}), smethod("AsPSObject", psObject, obj)}
	switchT.Members = []Member{roProp("IsPresent", boolT), method("ToBool", boolT)}
	switchT.Statics = []Member{sprop("Present", switchT)}
	commandInfo.Members = []Member{
		roProp("Name", str), roProp("Source", str), roProp("ModuleName", str), roProp("Definition", str),
		roProp("Version", version),
	}
	invocation.Members = []Member{
		roProp("MyCommand", commandInfo), roProp("BoundParameters", b.inst(dict, str, obj)),
		roProp("UnboundArguments", b.inst(list, obj)), roProp("ScriptName", str), roProp("ScriptLineNumber", intT),
		roProp("Line", str), roProp("InvocationName", str), roProp("PSScriptRoot", str), roProp("PSCommandPath", str),
		roProp("PipelineLength", intT), roProp("PipelinePosition", intT),
	}
	cmdlet.Members = []Member{
		roProp("MyInvocation", invocation), roProp("ParameterSetName", str), roProp("Host", host),
		method("WriteObject", void, obj), method("WriteVerbose", void, str), method("WriteWarning", void, str),
		method("WriteError", void, errorRecord), method("ShouldProcess", boolT, str),
		method("ThrowTerminatingError", void, errorRecord), method("GetResolvedProviderPathFromPSPath", b.arr(str), str, obj),
	}
	engine.Members = []Member{roProp("Host", host)}
	host.Members = []Member{roProp("Name", str), roProp("Version", version), roProp("InstanceId", guid)}
	pathInfo.Members = []Member{roProp("Path", str), roProp("ProviderPath", str)}
	errorRecord.Members = []Member{
		roProp("Exception", exc), roProp("TargetObject", obj), roProp("FullyQualifiedErrorId", str),
		roProp("InvocationInfo", invocation), roProp("ScriptStackTrace", str),
	}
	errorRecord.Statics = []Member{ctor(errorRecord, []*Type{exc, str, obj, obj})}

	cimClass.Members = []Member{
		roProp("CimClassName", str), roProp("CimSuperClassName", str), roProp("CimSuperClass", cimClass),
	}
	cimInstance.Members = []Member{roProp("CimClass", cimClass), method("Dispose", void)}
	cimInstance.Statics = []Member{ctor(cimInstance, []*Type{str}, []*Type{str, str})}

	fsInfo.Members = []Member{
		roProp("Name", str), roProp("FullName", str), roProp("Extension", str), roProp("Exists", boolT),
		prop("CreationTime", dt), prop("LastWriteTime", dt), prop("LastAccessTime", dt),
		method("Delete", void), method("Refresh", void),
	}
	fileInfo.Members = []Member{
		roProp("Length", longT), roProp("Directory", dirInfo), roProp("DirectoryName", str), prop("IsReadOnly", boolT),
		method("CopyTo", fileInfo, str), method("MoveTo", void, str),
	}
	fileInfo.Statics = []Member{ctor(fileInfo, []*Type{str})}
	dirInfo.Members = []Member{
		roProp("Parent", dirInfo), roProp("Root", dirInfo), method("GetFiles", b.arr(fileInfo)),
		method("GetDirectories", b.arr(dirInfo)), method("EnumerateFiles", b.inst(genEnumerable, fileInfo)),
		method("CreateSubdirectory", dirInfo, str), method("Create", void),
	}
	dirInfo.Statics = []Member{ctor(dirInfo, []*Type{str})}
	process.Members = []Member{
		roProp("Id", intT), roProp("ProcessName", str), roProp("HandleCount", intT), roProp("WorkingSet64", longT),
		roProp("StartTime", dt), roProp("MainWindowTitle", str), roProp("HasExited", boolT), roProp("ExitCode", intT),
		method("Kill", void), method("WaitForExit", boolT, intT), method("Refresh", void),
	}
	process.Statics = []Member{
		ctor(process), smethod("GetProcesses", b.arr(process)), smethod("GetProcessById", process, intT),
		smethod("GetProcessesByName", b.arr(process), str), smethod("GetCurrentProcess", process),
		smethod("Start", process, str),
	}
	serviceStatus.Statics = []Member{sfield("Running", serviceStatus), sfield("Stopped", serviceStatus), sfield("Paused", serviceStatus)}
	service.Members = []Member{
		roProp("Name", str), roProp("ServiceName", str), roProp("DisplayName", str), roProp("Status", serviceStatus),
		roProp("DependentServices", b.arr(service)), roProp("ServicesDependedOn", b.arr(service)),
		method("Start", void), method("Stop", void),
		method("Refresh", void),
	}
	service.Statics = []Member{smethod("GetServices", b.arr(service))}
	match.Members = []Member{
		roProp("Value", str), roProp("Success", boolT), roProp("Index", intT), roProp("Length", intT),
		method("NextMatch", match),
	}
	regex.Members = []Member{
		method("Match", match, str), method("Matches", b.arr(match), str), method("IsMatch", boolT, str),
		method("Replace", str, str, str), method("Split", b.arr(str), str),
	}
	regex.Statics = []Member{
		ctor(regex, []*Type{str}), smethod("Escape", str, str), smethod("Unescape", str, str),
		smethod("IsMatch", boolT, str, str), smethod("Match", match, str, str), smethod("Replace", str, str, str, str),
		smethod("Split", b.arr(str), str, str),
	}

	bound := b.define("System.Management.Automation.PSBoundParametersDictionary", "", KindClass, b.inst(dict, str, obj))
	bound.DefaultMember = "Item"
}
