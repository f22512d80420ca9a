package instances

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	reflectionv1 "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/funvibe/scriptinfer/internal/typesystem"
)

const cimv2Proto = `
syntax = "proto3";
package root.cimv2;

import "google/protobuf/timestamp.proto";

message Win32_Process {
  string Name = 1;
  uint32 ProcessId = 2;
  int64 WorkingSetSize = 3;
  google.protobuf.Timestamp CreationDate = 4;
  repeated string CommandLineArgs = 5;
  Win32_Service Owner = 6;
  map<string, string> Environment = 7;
  repeated Win32_Service Services = 8;
}

message Win32_Service {
  string Name = 1;
  bool Started = 2;
}
`

func loadCimv2(t *testing.T, u *typesystem.Universe) *ProtoCatalog {
	t.Helper()
	c := NewProtoCatalog(u)
	require.NoError(t, c.LoadSources(map[string]string{"cimv2.proto": cimv2Proto}))
	return c
}

func propertyMap(props []*typesystem.InstanceProperty) map[string]*typesystem.InstanceProperty {
	out := make(map[string]*typesystem.InstanceProperty, len(props))
	for _, p := range props {
		out[p.Name] = p
	}
	return out
}

func TestProtoCatalog(t *testing.T) {
	u := typesystem.NewUniverse()
	c := loadCimv2(t, u)
	assert.Equal(t, 2, c.Len())

	props, err := c.ClassProperties("root/cimv2", "win32_process")
	require.NoError(t, err)
	byName := propertyMap(props)
	require.Len(t, byName, 8)

	tests := []struct {
		name     string
		typeName string
		native   string
	}{
		{"Name", "string", typesystem.StringName},
		{"ProcessId", "System.UInt32", ""},
		{"WorkingSetSize", "long", typesystem.LongName},
		{"CreationDate", "datetime", "System.DateTime"},
		{"CommandLineArgs", "string[]", "System.String[]"},
		{"Owner", "Microsoft.Management.Infrastructure.CimInstance#root/cimv2/Win32_Service", typesystem.CimInstanceName},
		{"Environment", "hashtable", typesystem.HashtableName},
		{"Services", "Microsoft.Management.Infrastructure.CimInstance#root/cimv2/Win32_Service[]", typesystem.CimInstanceName + "[]"},
	}
	for _, tt := range tests {
		p := byName[tt.name]
		require.NotNil(t, p, tt.name)
		assert.Equal(t, tt.typeName, p.TypeName, tt.name)
		if tt.native == "" {
			assert.Nil(t, p.Type, tt.name)
			continue
		}
		require.NotNil(t, p.Type, tt.name)
		assert.Equal(t, tt.native, p.Type.Name, tt.name)
	}

	_, err = c.ClassProperties(`root\cimv2`, "Win32_Service")
	assert.NoError(t, err, "backslash namespace separator")

	_, err = c.ClassProperties("root/cimv2", "Win32_Nothing")
	assert.True(t, errors.Is(err, ErrUnknownClass))
}

func TestProtoCatalogParseError(t *testing.T) {
	c := NewProtoCatalog(nil)
	err := c.LoadSources(map[string]string{"bad.proto": "message {"})
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

type failing struct{ err error }

func (f failing) ClassProperties(string, string) ([]*typesystem.InstanceProperty, error) {
	return nil, f.err
}

func TestMulti(t *testing.T) {
	c := loadCimv2(t, nil)
	unknown := failing{err: ErrUnknownClass}

	props, err := Multi{unknown, nil, c}.ClassProperties("root/cimv2", "Win32_Service")
	require.NoError(t, err)
	assert.Len(t, props, 2)

	_, err = Multi{unknown, c}.ClassProperties("root/other", "Thing")
	assert.True(t, errors.Is(err, ErrUnknownClass))

	broken := errors.New("connection refused")
	_, err = Multi{failing{err: broken}, c}.ClassProperties("root/other", "Thing")
	assert.True(t, errors.Is(err, broken))
}

func TestMessageName(t *testing.T) {
	assert.Equal(t, "root.cimv2.Win32_Process", MessageName("root/cimv2", "Win32_Process"))
	assert.Equal(t, "root.cimv2.Win32_Process", MessageName(`root\cimv2`, "Win32_Process"))
	assert.Equal(t, "Thing", MessageName("", "Thing"))
	assert.Equal(t, "root/cimv2", NamespaceOf("root.cimv2"))
}

// serveReflection starts a reflection server for the cimv2 classes and
// returns its address.
func serveReflection(t *testing.T, u *typesystem.Universe) string {
	t.Helper()
	files := new(protoregistry.Files)
	for _, fd := range loadCimv2(t, u).Files() {
		require.NoError(t, files.RegisterFile(fd.UnwrapFile()))
	}

	srv := grpc.NewServer()
	reflectionv1.RegisterServerReflectionServer(srv, reflection.NewServerV1(reflection.ServerOptions{
		Services:           srv,
		DescriptorResolver: files,
	}))
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
	return lis.Addr().String()
}

func TestReflectionCatalog(t *testing.T) {
	u := typesystem.NewUniverse()
	r, err := DialReflection(serveReflection(t, u), u)
	require.NoError(t, err)
	defer r.Close()

	props, err := r.ClassProperties("root/cimv2", "Win32_Process")
	require.NoError(t, err)
	byName := propertyMap(props)
	require.Contains(t, byName, "CreationDate")
	assert.Equal(t, "System.DateTime", byName["CreationDate"].Type.Name)

	_, err = r.ClassProperties("root/cimv2", "Win32_Nothing")
	assert.True(t, errors.Is(err, ErrUnknownClass))
	_, err = r.ClassProperties("root/cimv2", "Win32_Nothing")
	assert.True(t, errors.Is(err, ErrUnknownClass), "misses are remembered")

	props, err = Multi{NewProtoCatalog(u), r}.ClassProperties("root/cimv2", "Win32_Service")
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestReflectionCatalogConcurrentLookups(t *testing.T) {
	u := typesystem.NewUniverse()
	r, err := DialReflection(serveReflection(t, u), u)
	require.NoError(t, err)

	classes := []string{"Win32_Process", "Win32_Service", "Win32_Nothing"}
	var wg sync.WaitGroup
	errs := make([]error, 3*len(classes))
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = r.ClassProperties("root/cimv2", classes[i%len(classes)])
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if classes[i%len(classes)] == "Win32_Nothing" {
			assert.True(t, errors.Is(err, ErrUnknownClass))
		} else {
			assert.NoError(t, err)
		}
	}

	var closing sync.WaitGroup
	closing.Add(2)
	go func() { defer closing.Done(); assert.NoError(t, r.Close()) }()
	go func() { defer closing.Done(); _, _ = r.ClassProperties("root/cimv2", "Win32_Other") }()
	closing.Wait()
	assert.NoError(t, r.Close(), "closing twice is harmless")

	props, err := r.ClassProperties("root/cimv2", "Win32_Service")
	require.NoError(t, err, "cached answers survive Close")
	assert.Len(t, props, 2)
	_, err = r.ClassProperties("root/cimv2", "Win32_Other")
	assert.Error(t, err)
}
