// Package instances answers which properties an external instance class
// declares. Classes are identified by a namespace such as root/cimv2 and a
// class name; their schemas come from protobuf descriptors, either parsed from
// .proto files or fetched from a live server over gRPC reflection.
package instances

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// ErrUnknownClass is returned when no provider knows the requested class.
var ErrUnknownClass = errors.New("unknown instance class")

// Provider returns the declared properties of an instance class.
type Provider interface {
	ClassProperties(namespace, class string) ([]*typesystem.InstanceProperty, error)
}

// Multi asks each provider in turn and returns the first answer.
type Multi []Provider

// ClassProperties implements Provider. Unknown-class answers fall through to
// the next provider; other failures are collected and reported when nobody
// knows the class.
func (m Multi) ClassProperties(namespace, class string) ([]*typesystem.InstanceProperty, error) {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		props, err := p.ClassProperties(namespace, class)
		if err == nil {
			return props, nil
		}
		if !errors.Is(err, ErrUnknownClass) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, fmt.Errorf("%s/%s: %w", namespace, class, ErrUnknownClass)
}

// NamespaceOf maps a proto package onto an instance namespace: dots become
// slashes, so package root.cimv2 holds the classes of root/cimv2.
func NamespaceOf(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// MessageName is the fully qualified message name a namespace/class pair is
// looked up under.
func MessageName(namespace, class string) string {
	ns := strings.Trim(strings.NewReplacer(`\`, ".", "/", ".").Replace(namespace), ".")
	if ns == "" {
		return class
	}
	return ns + "." + class
}

func classKey(namespace, class string) string {
	return strings.ToLower(MessageName(namespace, class))
}

// InstanceTypeName is the name a property typed as another instance class
// carries, e.g. Microsoft.Management.Infrastructure.CimInstance#root/cimv2/Win32_Process.
func InstanceTypeName(namespace, class string) string {
	return config.CimInstanceTypeName + "#" + namespace + "/" + class
}

var wrapperTypes = map[string]string{
	"google.protobuf.Timestamp":   "datetime",
	"google.protobuf.Duration":    "timespan",
	"google.protobuf.StringValue": "string",
	"google.protobuf.BoolValue":   "bool",
	"google.protobuf.Int32Value":  "int",
	"google.protobuf.Int64Value":  "long",
	"google.protobuf.UInt32Value": "System.UInt32",
	"google.protobuf.UInt64Value": "System.UInt64",
	"google.protobuf.FloatValue":  "float",
	"google.protobuf.DoubleValue": "double",
	"google.protobuf.BytesValue":  "byte[]",
}

// fieldTypeName spells a field's type the way scripts name types.
func fieldTypeName(fd *desc.FieldDescriptor) string {
	if fd.IsMap() {
		return "hashtable"
	}
	name := scalarTypeName(fd)
	if fd.IsRepeated() {
		name += "[]"
	}
	return name
}

func scalarTypeName(fd *desc.FieldDescriptor) string {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "bool"
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "int"
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "long"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "System.UInt32"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "System.UInt64"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return "float"
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "double"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "byte[]"
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		// Instance schemas carry value maps as plain integers.
		return "int"
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		msg := fd.GetMessageType()
		if msg == nil {
			return "object"
		}
		if w, ok := wrapperTypes[msg.GetFullyQualifiedName()]; ok {
			return w
		}
		return InstanceTypeName(NamespaceOf(msg.GetFile().GetPackage()), msg.GetName())
	}
	return "object"
}

// properties converts a message's fields. Types that do not resolve in u
// keep only their name; embedded instances resolve to CimInstance.
func properties(u *typesystem.Universe, md *desc.MessageDescriptor) []*typesystem.InstanceProperty {
	fields := md.GetFields()
	out := make([]*typesystem.InstanceProperty, 0, len(fields))
	for _, fd := range fields {
		p := &typesystem.InstanceProperty{Name: fd.GetName(), TypeName: fieldTypeName(fd)}
		if u != nil {
			p.Type = resolveTypeName(u, p.TypeName)
		}
		out = append(out, p)
	}
	return out
}

func resolveTypeName(u *typesystem.Universe, name string) *typesystem.Type {
	if t, ok := u.Lookup(name); ok {
		return t
	}
	base, array := strings.CutSuffix(name, "[]")
	if _, _, ok := typesystem.ParseInstanceName(base, config.CimInstanceTypeName); !ok {
		return nil
	}
	t := u.Get(typesystem.CimInstanceName)
	if t != nil && array {
		t = u.ArrayOf(t)
	}
	return t
}
